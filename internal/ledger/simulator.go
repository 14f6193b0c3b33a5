package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidSimulation is returned for simulations that cannot be priced.
var ErrInvalidSimulation = errors.New("simulación de financiamiento inválida")

// MaxSimulationMonths caps the term of a simulation.
const MaxSimulationMonths = MaxInstallments

// AmortizationRow is one month of a simulated loan.
type AmortizationRow struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// Simulation is the result of a financing simulation.
type Simulation struct {
	Price          decimal.Decimal   `json:"price"`
	DownPayment    decimal.Decimal   `json:"down_payment"`
	Financed       decimal.Decimal   `json:"financed"`
	MonthlyRate    decimal.Decimal   `json:"monthly_rate"`
	Months         int               `json:"months"`
	MonthlyPayment decimal.Decimal   `json:"monthly_payment"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	TotalInterest  decimal.Decimal   `json:"total_interest"`
	Table          []AmortizationRow `json:"table"`
}

// Simulate prices a fixed-payment loan (French amortization):
// pmt = P*r / (1 - (1+r)^-n), or P/n when the rate is zero.
func Simulate(price, downPayment, monthlyRate decimal.Decimal, months int) (*Simulation, error) {
	if months < 1 || months > MaxSimulationMonths {
		return nil, ErrInvalidSimulation
	}
	if monthlyRate.IsNegative() || downPayment.IsNegative() {
		return nil, ErrInvalidSimulation
	}

	financed := price.Sub(downPayment)
	if !financed.IsPositive() {
		return nil, ErrInvalidSimulation
	}

	n := decimal.NewFromInt(int64(months))
	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = financed.Div(n).Round(2)
	} else {
		growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
		discount := decimal.NewFromInt(1).Sub(decimal.NewFromInt(1).Div(growth))
		payment = financed.Mul(monthlyRate).Div(discount).Round(2)
	}

	table := make([]AmortizationRow, 0, months)
	balance := financed
	totalPaid := decimal.Zero
	for m := 1; m <= months; m++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principal := payment.Sub(interest)
		rowPayment := payment
		// The last row absorbs rounding drift so the balance closes at zero.
		if m == months {
			principal = balance
			rowPayment = principal.Add(interest)
		}
		balance = balance.Sub(principal)
		totalPaid = totalPaid.Add(rowPayment)
		table = append(table, AmortizationRow{
			Month:     m,
			Payment:   rowPayment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}

	return &Simulation{
		Price:          price,
		DownPayment:    downPayment,
		Financed:       financed,
		MonthlyRate:    monthlyRate,
		Months:         months,
		MonthlyPayment: payment,
		TotalPaid:      totalPaid,
		TotalInterest:  totalPaid.Sub(financed),
		Table:          table,
	}, nil
}
