package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords writes an amount out in Spanish for legal documents.
// Example: 1500.50 -> "MIL QUINIENTOS LEMPIRAS CON 50/100"
func AmountToWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	integerPart := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(integerPart)).Mul(decimal.NewFromInt(100)).IntPart()

	return fmt.Sprintf("%s LEMPIRAS CON %02d/100", numberToWords(integerPart, true), cents)
}

// numberToWords spells n. With apocope, a trailing "UNO" becomes "UN"
// (used before a noun: "VEINTIÚN MIL", "UN MILLÓN", "TREINTA Y UN LEMPIRAS").
func numberToWords(n int64, apocope bool) string {
	switch {
	case n == 0:
		return "CERO"
	case n < 0:
		return "MENOS " + numberToWords(-n, apocope)
	case n < 10:
		if n == 1 && apocope {
			return "UN"
		}
		return units[n]
	case n < 30:
		if n == 21 && apocope {
			return "VEINTIÚN"
		}
		return specials[n]
	case n < 100:
		t, u := n/10, n%10
		if u == 0 {
			return tens[t]
		}
		return tens[t] + " Y " + numberToWords(u, apocope)
	case n < 1000:
		h, rest := n/100, n%100
		if rest == 0 {
			return hundreds[h]
		}
		if h == 1 {
			return "CIENTO " + numberToWords(rest, apocope)
		}
		return hundreds[h] + " " + numberToWords(rest, apocope)
	case n < 1_000_000:
		return scaled(n, 1000, "MIL", "MIL", apocope)
	case n < 1_000_000_000_000:
		return scaled(n, 1_000_000, "UN MILLÓN", "MILLONES", apocope)
	default:
		return "NÚMERO MUY GRANDE"
	}
}

func scaled(n, unit int64, one, many string, apocope bool) string {
	count, rest := n/unit, n%unit

	var parts []string
	if count == 1 {
		parts = append(parts, one)
	} else {
		parts = append(parts, numberToWords(count, true)+" "+many)
	}
	if rest > 0 {
		parts = append(parts, numberToWords(rest, apocope))
	}
	return strings.Join(parts, " ")
}

var units = []string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
}

var specials = map[int64]string{
	10: "DIEZ", 11: "ONCE", 12: "DOCE", 13: "TRECE", 14: "CATORCE", 15: "QUINCE",
	16: "DIECISÉIS", 17: "DIECISIETE", 18: "DIECIOCHO", 19: "DIECINUEVE",
	20: "VEINTE", 21: "VEINTIUNO", 22: "VEINTIDÓS", 23: "VEINTITRÉS", 24: "VEINTICUATRO",
	25: "VEINTICINCO", 26: "VEINTISÉIS", 27: "VEINTISIETE", 28: "VEINTIOCHO", 29: "VEINTINUEVE",
}

var tens = []string{
	"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundreds = []string{
	"", "CIEN", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}
