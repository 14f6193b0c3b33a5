// Package ledger derives the financial state of a promissory sale from its
// installment plan and payment history. Everything here is pure arithmetic:
// nothing is read from or written to storage.
package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaxInstallments caps the number of monthly installments of a plan.
const MaxInstallments = 120

// View is the derived state of an installment plan.
type View struct {
	InstallmentCount      int             `json:"installment_count"`
	InstallmentValue      decimal.Decimal `json:"installment_value"`
	TotalDebt             decimal.Decimal `json:"total_debt"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	Remaining             decimal.Decimal `json:"remaining"`
	ProgressPercent       decimal.Decimal `json:"progress_percent"`
	IsPaidOff             bool            `json:"is_paid_off"`
	PaidCount             int             `json:"paid_count"`
	NextInstallmentNumber int             `json:"next_installment_number"`
}

// Compute builds the view for count installments of value each, given the
// amounts of every history entry. All entry types count towards the paid
// total, and ordering is irrelevant.
//
// PaidCount is floor(paid / value), so a partial payment or an overpayment
// is spread over installment numbers rather than tracked per installment.
func Compute(count int, value decimal.Decimal, payments []decimal.Decimal) View {
	if count < 0 {
		count = 0
	}

	totalDebt := value.Mul(decimal.NewFromInt(int64(count)))
	totalPaid := Sum(payments)

	remaining := totalDebt.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	progress := decimal.Zero
	if totalDebt.IsPositive() {
		progress = totalPaid.Div(totalDebt).Mul(hundred).Round(2)
	}

	divisor := value
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}
	paidCount := int(totalPaid.Div(divisor).Floor().IntPart())

	next := paidCount + 1
	if next > count {
		next = count
	}

	return View{
		InstallmentCount:      count,
		InstallmentValue:      value,
		TotalDebt:             totalDebt,
		TotalPaid:             totalPaid,
		Remaining:             remaining,
		ProgressPercent:       progress,
		IsPaidOff:             !remaining.IsPositive(),
		PaidCount:             paidCount,
		NextInstallmentNumber: next,
	}
}

// Sum adds up payment amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// InstallmentValue splits what is left after the entry into count equal
// installments, rounded to cents. A non-positive count yields zero.
func InstallmentValue(total, entry decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Sub(entry).Div(decimal.NewFromInt(int64(count))).Round(2)
}

// FinancedAmount is the part of the price a bank finances.
func FinancedAmount(total, downPayment decimal.Decimal) decimal.Decimal {
	return total.Sub(downPayment)
}
