package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment status values
const (
	InstallmentPaid    = "paid"
	InstallmentNext    = "next"
	InstallmentPending = "pending"
	InstallmentOverdue = "overdue"
)

// Installment is one row of the estimated payment schedule.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
}

// Schedule lays out monthly due dates starting one month after start. Rows up
// to view.PaidCount are considered paid, following the same estimate the view
// uses; unpaid rows due before now are overdue.
func Schedule(start time.Time, view View, now time.Time) []Installment {
	rows := make([]Installment, 0, view.InstallmentCount)
	for n := 1; n <= view.InstallmentCount; n++ {
		due := AddMonths(start, n)
		status := InstallmentPending
		switch {
		case n <= view.PaidCount || view.IsPaidOff:
			status = InstallmentPaid
		case due.Before(now):
			status = InstallmentOverdue
		case n == view.NextInstallmentNumber:
			status = InstallmentNext
		}
		rows = append(rows, Installment{
			Number:  n,
			DueDate: due,
			Amount:  view.InstallmentValue,
			Status:  status,
		})
	}
	return rows
}

// OverdueCount returns how many installments of the schedule are overdue.
func OverdueCount(rows []Installment) int {
	count := 0
	for _, r := range rows {
		if r.Status == InstallmentOverdue {
			count++
		}
	}
	return count
}

// AddMonths adds n calendar months, clamping to the last day of the target
// month (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
