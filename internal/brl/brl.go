// Package brl formats Brazilian Real amounts the way pt-BR users read them.
package brl

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders an amount rounded to whole reais: "R$ 7.700", "-R$ 6.000".
func Format(v decimal.Decimal) string {
	r := v.Round(0)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	return sign + "R$ " + Group(r.IntPart())
}

// FormatInt is Format for integer amounts.
func FormatInt(v int64) string {
	return Format(decimal.NewFromInt(v))
}

// Group inserts pt-BR thousands separators: 15000 → "15.000".
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}
