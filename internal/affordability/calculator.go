package affordability

import (
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/numeric"
)

// Calculator bundles the rules an evaluation depends on. It holds no user
// input and is safe to share.
type Calculator struct {
	Policy        Policy
	Schedule      formulas.Schedule
	GST           float64
	PrincipalMode PrincipalMode
}

// NewCalculator returns a Calculator with the default rules.
func NewCalculator() Calculator {
	return Calculator{
		Policy:        DefaultPolicy(),
		Schedule:      formulas.DefaultSchedule(),
		GST:           constants.DefaultGST,
		PrincipalMode: PrincipalLegacy,
	}
}

// View is everything derived from a State.
type View struct {
	State              State
	MinAmortization    int
	MaxAmortization    int
	PurchasePriceValid bool
	DownPaymentValid   bool
	InterestRateValid  bool

	// Principal is nil unless both the price and the down payment are numbers.
	Principal       *float64
	PriceMultiplier float64
	Costs           []UpfrontCostItem
	Total           float64

	// LTV and MonthlyPayment are nil when they cannot be computed or are not finite.
	LTV            *float64
	MonthlyPayment *float64
}

// Evaluate derives the view for s. It does not modify s.
func (c Calculator) Evaluate(s State) View {
	price, priceOK := numeric.Parse(s.PurchasePriceText)
	down, downOK := numeric.Parse(s.DownPaymentText)
	rate, rateOK := numeric.Parse(s.InterestRateText)

	view := View{
		State:              s,
		MinAmortization:    c.Policy.Min,
		MaxAmortization:    c.Policy.MaxAmortizationText(s.PurchasePriceText, s.DownPaymentText),
		PurchasePriceValid: priceOK,
		DownPaymentValid:   downOK,
		InterestRateValid:  rateOK,
		PriceMultiplier:    PriceMultiplier(s.NewConstruction, c.GST, c.PrincipalMode),
		Costs: GetUpfrontCosts(Details{
			PurchasePrice: s.PurchasePriceText,
			DownPayment:   s.DownPaymentText,
			Brackets:      c.Schedule,
		}),
	}
	view.Total = TotalCost(view.Costs)

	if priceOK && downOK {
		principal := Principal(price, down, s.NewConstruction, c.GST, c.PrincipalMode)
		view.Principal = &principal
		view.LTV = mathutil.FinitePtr(formulas.CalculateLTV(formulas.LoanValue{Loan: principal, Value: price}))
		if rateOK {
			view.MonthlyPayment = mathutil.FinitePtr(formulas.CalculateMonthlyPayment(principal, rate, s.Amortization))
		}
	}

	return view
}

// NewState returns the initial state under the calculator's policy.
func (c Calculator) NewState() State {
	return c.Policy.NewState()
}

// Apply folds events over s under the calculator's policy.
func (c Calculator) Apply(s State, events ...Event) State {
	return c.Policy.Apply(s, events...)
}
