package affordability

import (
	"fmt"
	"strings"

	"github.com/iwvelando/home-affordability/pkg/constants"
)

// PrincipalMode selects the principal formula.
type PrincipalMode string

const (
	// PrincipalLegacy computes price * (new construction ? 1+GST : 0) - down
	// payment. Resale prices contribute nothing, which yields a negative
	// principal; kept as the default so existing quotes do not change.
	PrincipalLegacy PrincipalMode = constants.PrincipalFormulaLegacy

	// PrincipalCorrected computes price * (new construction ? 1+GST : 1) - down payment.
	PrincipalCorrected PrincipalMode = constants.PrincipalFormulaCorrected
)

// ParsePrincipalMode accepts "legacy", "corrected" or an empty string (legacy).
func ParsePrincipalMode(value string) (PrincipalMode, error) {
	switch PrincipalMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", PrincipalLegacy:
		return PrincipalLegacy, nil
	case PrincipalCorrected:
		return PrincipalCorrected, nil
	}
	return "", fmt.Errorf("expected principal formula of %s or %s, got %s",
		PrincipalLegacy, PrincipalCorrected, value)
}

// PriceMultiplier is the factor the purchase price is scaled by before the
// down payment is subtracted.
func PriceMultiplier(newConstruction bool, gst float64, mode PrincipalMode) float64 {
	switch {
	case newConstruction:
		return 1 + gst
	case mode == PrincipalCorrected:
		return 1
	}
	return 0
}

// Principal returns the amount to be borrowed.
func Principal(purchasePrice, downPayment float64, newConstruction bool, gst float64, mode PrincipalMode) float64 {
	return purchasePrice*PriceMultiplier(newConstruction, gst, mode) - downPayment
}
