// Package optimizer searches for the highest purchase price a monthly budget
// can carry under the calculator's amortization policy.
package optimizer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/iwvelando/home-affordability/internal/affordability"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/format"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/optimization"
	"go.uber.org/zap"
)

// Directive describes one search. Zero MaxPrice, Tolerance and MaxIterations
// take the package defaults; a zero Amortization keeps the initial one.
type Directive struct {
	MonthlyBudget   float64 `json:"monthlyBudget"`
	DownPayment     float64 `json:"downPayment"`
	InterestRate    float64 `json:"interestRate"`
	Amortization    int     `json:"amortization"`
	NewConstruction bool    `json:"newConstruction"`
	MaxPrice        float64 `json:"maxPrice"`
	Tolerance       float64 `json:"tolerance"`
	MaxIterations   int     `json:"maxIterations"`
}

func (d Directive) withDefaults() Directive {
	if d.MaxPrice == 0 {
		d.MaxPrice = constants.DefaultSearchMaxPrice
	}
	if d.Tolerance == 0 {
		d.Tolerance = constants.DefaultSearchTolerance
	}
	if d.MaxIterations == 0 {
		d.MaxIterations = constants.DefaultSearchMaxIterations
	}
	return d
}

// Validate checks the directive after defaults are applied.
func (d Directive) Validate() error {
	d = d.withDefaults()
	switch {
	case d.MonthlyBudget <= 0 || !mathutil.IsFinite(d.MonthlyBudget):
		return fmt.Errorf("monthly budget must be a positive number, got %v", d.MonthlyBudget)
	case d.DownPayment < 0 || !mathutil.IsFinite(d.DownPayment):
		return fmt.Errorf("down payment must be a non-negative number, got %v", d.DownPayment)
	case d.InterestRate < 0 || !mathutil.IsFinite(d.InterestRate):
		return fmt.Errorf("interest rate must be a non-negative number, got %v", d.InterestRate)
	case d.Amortization < 0:
		return fmt.Errorf("amortization must not be negative, got %d", d.Amortization)
	case !mathutil.IsFinite(d.MaxPrice) || d.MaxPrice <= d.DownPayment:
		return fmt.Errorf("max price %v must exceed the down payment %v", d.MaxPrice, d.DownPayment)
	case d.Tolerance < 0 || math.IsNaN(d.Tolerance):
		return fmt.Errorf("tolerance must not be negative, got %v", d.Tolerance)
	case d.MaxIterations < 0:
		return fmt.Errorf("max iterations must not be negative, got %d", d.MaxIterations)
	}
	return nil
}

// Runner evaluates candidate prices with a calculator.
type Runner struct {
	logger *zap.Logger
	calc   affordability.Calculator
}

type evaluation struct {
	price        float64
	principal    float64
	payment      float64
	amortization int
	budget       float64
}

func (e evaluation) feasible() bool {
	return e.payment <= e.budget
}

func (e evaluation) headroom() float64 {
	return e.budget - e.payment
}

// NewRunner constructs a Runner. The search always uses the corrected
// principal formula: under the legacy formula a resale payment does not grow
// with the price.
func NewRunner(logger *zap.Logger, calc affordability.Calculator) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	calc.PrincipalMode = affordability.PrincipalCorrected
	return &Runner{logger: logger, calc: calc}
}

// Run bisects between the down payment and the max price for the highest
// price whose monthly payment stays within the budget.
func (r *Runner) Run(d Directive) (optimization.Summary, error) {
	if err := d.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	d = d.withDefaults()

	lowerEval := r.evaluate(d, d.DownPayment)
	upperEval := r.evaluate(d, d.MaxPrice)

	if !lowerEval.feasible() {
		note := fmt.Sprintf("budget %s cannot carry a purchase at the down payment %s",
			format.Currency(d.MonthlyBudget), format.Currency(d.DownPayment))
		return r.summarize(d, lowerEval, 0, false, note), nil
	}
	if upperEval.feasible() {
		note := fmt.Sprintf("budget supports the maximum searched price %s", format.Currency(d.MaxPrice))
		return r.summarize(d, upperEval, 0, true, note), nil
	}

	iterations := 0
	lower := lowerEval.price
	upper := upperEval.price
	for iterations < d.MaxIterations && upper-lower > d.Tolerance {
		mid := lower + (upper-lower)/2
		iterations++
		if r.evaluate(d, mid).feasible() {
			if mid == lower {
				break
			}
			lower = mid
		} else {
			if mid == upper {
				break
			}
			upper = mid
		}
	}

	converged := upper-lower <= d.Tolerance
	// Whole cents below the boundary stay feasible.
	finalEval := r.evaluate(d, mathutil.FloorCents(lower))
	if !finalEval.feasible() {
		finalEval = r.evaluate(d, lower)
	}

	var notes []string
	if !converged {
		notes = append(notes, fmt.Sprintf("stopped after %d iterations with %s left between bounds",
			iterations, format.Currency(upper-lower)))
	}
	summary := r.summarize(d, finalEval, iterations, converged, notes...)

	r.logger.Info("price search finished",
		zap.String("op", "optimizer.Run"),
		zap.Float64("monthlyBudget", d.MonthlyBudget),
		zap.Float64("purchasePrice", summary.PurchasePrice),
		zap.Float64("monthlyPayment", summary.MonthlyPayment),
		zap.Int("amortization", summary.Amortization),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}

func (r *Runner) evaluate(d Directive, price float64) evaluation {
	events := []affordability.Event{
		affordability.SetPurchasePrice{Text: formatAmount(price)},
		affordability.SetDownPayment{Text: formatAmount(d.DownPayment)},
	}
	if d.Amortization > 0 {
		events = append(events, affordability.SetAmortization{Years: d.Amortization})
	}
	events = append(events,
		affordability.SetNewConstruction{On: d.NewConstruction},
		affordability.SetInterestRate{Text: formatAmount(d.InterestRate)},
	)

	view := r.calc.Evaluate(r.calc.Apply(r.calc.NewState(), events...))

	eval := evaluation{
		price:        price,
		payment:      math.Inf(1),
		amortization: view.State.Amortization,
		budget:       d.MonthlyBudget,
	}
	if view.Principal != nil {
		eval.principal = *view.Principal
	}
	if view.MonthlyPayment != nil {
		eval.payment = *view.MonthlyPayment
	}

	r.logger.Debug("evaluated candidate price",
		zap.String("op", "optimizer.evaluate"),
		zap.Float64("purchasePrice", price),
		zap.Float64("monthlyPayment", eval.payment),
		zap.Bool("feasible", eval.feasible()),
	)
	return eval
}

func (r *Runner) summarize(d Directive, eval evaluation, iterations int, converged bool, notes ...string) optimization.Summary {
	return optimization.Summary{
		MonthlyBudget:  d.MonthlyBudget,
		PurchasePrice:  eval.price,
		Principal:      eval.principal,
		MonthlyPayment: eval.payment,
		Amortization:   eval.amortization,
		Headroom:       eval.headroom(),
		Iterations:     iterations,
		Converged:      converged,
		Notes:          notes,
		PriceDisplay:   format.Currency(eval.price),
	}
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
