package formulas

import (
	"github.com/iwvelando/home-affordability/pkg/constants"
)

// PropertyType distinguishes freehold land from strata units.
type PropertyType string

// Ownership distinguishes new construction from resale purchases.
type Ownership string

// DownPaymentKind selects how a DownPayment value is interpreted.
type DownPaymentKind string

const (
	PropertyLand   PropertyType = constants.PropertyTypeLand
	PropertyStrata PropertyType = constants.PropertyTypeStrata

	OwnershipNewConstruction Ownership = constants.OwnershipNewConstruction
	OwnershipResale          Ownership = constants.OwnershipResale

	DownPaymentAmount     DownPaymentKind = constants.DownPaymentAmount
	DownPaymentPercentage DownPaymentKind = constants.DownPaymentPercentage
)

// DownPayment is either a literal amount or a fraction of the price.
type DownPayment struct {
	Kind  DownPaymentKind
	Value float64
}

// Resolve returns the down payment in currency for the given price.
func (d DownPayment) Resolve(price float64) float64 {
	if d.Kind == DownPaymentPercentage {
		return price * d.Value
	}
	return d.Value
}

// ClosingCosts holds the fixed fees that accompany a purchase.
type ClosingCosts struct {
	LegalFees         float64
	PropertyAppraisal float64
	PropertySurvey    float64
	MaxMoveInFee      float64
	MaxHomeInspection float64
}

// DefaultClosingCosts returns the standard fee table.
func DefaultClosingCosts() ClosingCosts {
	return ClosingCosts{
		LegalFees:         constants.LegalFees,
		PropertyAppraisal: constants.PropertyAppraisal,
		PropertySurvey:    constants.PropertySurvey,
		MaxMoveInFee:      constants.MaxMoveInFee,
		MaxHomeInspection: constants.MaxHomeInspection,
	}
}

// UpfrontDetails describes a purchase for upfront cost estimation.
type UpfrontDetails struct {
	GST          float64
	Price        float64
	PropertyType PropertyType
	Ownership    Ownership
	DownPayment  DownPayment
}

// Range is an estimate bounded below and above.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CalculateUpfrontCost estimates the cash needed at closing using the
// default fee table and the fixed transfer tax schedule.
func CalculateUpfrontCost(details UpfrontDetails) Range {
	return calculateUpfrontCost(details, DefaultClosingCosts(), CalculatePTT)
}

// CalculateUpfrontCostWith is CalculateUpfrontCost with a configurable fee
// table and transfer tax schedule.
func CalculateUpfrontCostWith(details UpfrontDetails, costs ClosingCosts, schedule Schedule) Range {
	return calculateUpfrontCost(details, costs, schedule.Tax)
}

// The bounds differ only by fees that are uncertain at quote time: the home
// inspection and the survey or move-in fee.
func calculateUpfrontCost(details UpfrontDetails, costs ClosingCosts, tax func(float64) float64) Range {
	transferTax := tax(details.Price)
	total := Range{
		Min: transferTax + costs.LegalFees + costs.PropertyAppraisal,
		Max: transferTax + costs.LegalFees + costs.PropertyAppraisal + costs.MaxHomeInspection,
	}

	switch details.PropertyType {
	case PropertyLand:
		total.Max += costs.PropertySurvey * details.GST
	case PropertyStrata:
		total.Max += costs.MaxMoveInFee
	}

	switch details.Ownership {
	case OwnershipNewConstruction:
		total.Min += details.Price * (1 + details.GST)
		total.Max += details.Price * (1 + details.GST)
	case OwnershipResale:
	}

	downPayment := details.DownPayment.Resolve(details.Price)
	return Range{
		Min: total.Min + downPayment,
		Max: total.Max + downPayment,
	}
}
