// Package affordability holds the derived state of one affordability
// calculation: the user's raw inputs, the amortization clamped to what the
// down payment allows, and the values computed from them.
package affordability

import (
	"fmt"

	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/numeric"
)

// Policy is the mortgage insurance rule that caps amortization.
type Policy struct {
	// Threshold is the down payment ratio below which the insured cap applies.
	Threshold    float64
	InsuredMax   int
	UninsuredMax int
	Min          int
	Initial      int
}

// DefaultPolicy returns the 20% / 25 year / 35 year rule.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:    constants.InsuredDownPaymentThreshold,
		InsuredMax:   constants.InsuredMaxAmortization,
		UninsuredMax: constants.UninsuredMaxAmortization,
		Min:          constants.MinAmortization,
		Initial:      constants.InitialAmortization,
	}
}

// Validate checks that the bounds are usable.
func (p Policy) Validate() error {
	if p.Min < 1 {
		return fmt.Errorf("minimum amortization must be at least 1 year, got %d", p.Min)
	}
	if p.InsuredMax < p.Min || p.UninsuredMax < p.Min {
		return fmt.Errorf("maximum amortization (%d insured, %d uninsured) is below the minimum of %d",
			p.InsuredMax, p.UninsuredMax, p.Min)
	}
	return nil
}

// MaxAmortization returns the amortization ceiling for a purchase under the
// default policy.
func MaxAmortization(purchasePrice, downPayment float64) int {
	return DefaultPolicy().MaxAmortization(purchasePrice, downPayment)
}

// MaxAmortization returns InsuredMax when the down payment is below the
// threshold share of the price and UninsuredMax otherwise. The ratio uses
// IEEE division: a zero price yields an infinity or NaN, neither of which
// compares below the threshold, so the uninsured ceiling applies.
func (p Policy) MaxAmortization(purchasePrice, downPayment float64) int {
	if downPayment/purchasePrice < p.Threshold {
		return p.InsuredMax
	}
	return p.UninsuredMax
}

// MaxAmortizationText is MaxAmortization for raw inputs; text that is not a
// number counts as zero.
func (p Policy) MaxAmortizationText(purchasePrice, downPayment string) int {
	return p.MaxAmortization(numeric.NumberOrDefault(purchasePrice, 0), numeric.NumberOrDefault(downPayment, 0))
}

// Clamp limits years to [Min, MaxAmortizationText(purchasePrice, downPayment)].
func (p Policy) Clamp(years int, purchasePrice, downPayment string) int {
	ceiling := p.MaxAmortizationText(purchasePrice, downPayment)
	if years > ceiling {
		years = ceiling
	}
	if years < p.Min {
		years = p.Min
	}
	return years
}
