// Package presenter turns ROI metrics into the strings, chart series and
// widget transitions the calculator page shows.
package presenter

import (
	"fmt"

	"github.com/boddenberg/automation-roi-go/internal/brl"

	"github.com/shopspring/decimal"
)

// NoPaybackLabel is shown when savings never cover the contract.
const NoPaybackLabel = "sem retorno"

var thousand = decimal.NewFromInt(1000)

// FormatBRL renders a currency amount with no fraction digits.
func FormatBRL(v decimal.Decimal) string {
	return brl.Format(v)
}

// FormatPercent rounds to a whole percentage: 169.5 → "170%".
func FormatPercent(v decimal.Decimal) string {
	return v.Round(0).String() + "%"
}

// FormatMonths renders the payback period with one decimal: "4.5 meses".
func FormatMonths(v *decimal.Decimal) string {
	if v == nil {
		return NoPaybackLabel
	}
	return fmt.Sprintf("%s meses", v.StringFixed(1))
}

// TickLabel renders a y-axis tick in thousands: "R$ 0", "R$ 5k", "-R$ 6k".
func TickLabel(v decimal.Decimal) string {
	if v.IsZero() {
		return "R$ 0"
	}
	k := v.Abs().Div(thousand).Round(0).String()
	if v.IsNegative() {
		return "-R$ " + k + "k"
	}
	return "R$ " + k + "k"
}
