// Package mathutil holds the float helpers shared by the calculators.
package mathutil

import (
	"math"

	"github.com/iwvelando/home-affordability/pkg/constants"
)

// RoundCents rounds half away from zero to whole cents.
func RoundCents(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// FloorCents truncates toward negative infinity to whole cents.
func FloorCents(val float64) float64 {
	return math.Floor(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// FinitePtr returns a pointer to val, or nil when val is not finite. JSON
// encoders cannot represent NaN or infinities so API views carry nil instead.
func FinitePtr(val float64) *float64 {
	if !IsFinite(val) {
		return nil
	}
	return &val
}

// ApplyPercentage returns percentage percent of value.
func ApplyPercentage(value, percentage float64) float64 {
	return value * percentage / constants.PercentageMultiplier
}
