package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every amount rendered in documents and emails.
const CurrencySymbol = "L"

// formatMoney renders an amount as "L 12,345.67".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return CurrencySymbol + " " + sign + b.String() + "." + frac
}

func formatMoneyFloat(f float64) string {
	return formatMoney(decimal.NewFromFloat(f))
}

func decimalFromPtr(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f).Round(2)
}
