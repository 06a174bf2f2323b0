// Package format renders amounts for people.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
// Non-finite amounts are returned as Go prints them ("NaN", "+Inf").
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return fmt.Sprint(amount)
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	if Cents(amount).IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return fmt.Sprint(amount)
	}
	sign := ""
	if Cents(amount).IsNegative() {
		sign = "-"
	}
	return sign + formatPositiveCurrency(math.Abs(amount))
}

// Percent renders a ratio as a percentage with two decimals (0.8 -> "80.00%").
func Percent(ratio float64) string {
	if !mathutil.IsFinite(ratio) {
		return fmt.Sprint(ratio)
	}
	return printer.Sprintf("%.2f%%", decimal.NewFromFloat(ratio).Shift(2).Round(2).InexactFloat64())
}

// Cents rounds a finite amount half away from zero to whole cents. The
// shortest decimal representation of the float is rounded, so 1.005 becomes
// 1.01 rather than the 1.00 that binary rounding gives.
func Cents(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

func formatPositiveCurrency(value float64) string {
	return printer.Sprintf("%.2f", Cents(value).InexactFloat64())
}
