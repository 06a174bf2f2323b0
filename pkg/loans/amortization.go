// Package loans builds mortgage amortization schedules.
package loans

import (
	"fmt"

	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given month of the schedule.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Loan describes the mortgage to amortize.
type Loan struct {
	Principal float64
	// InterestRate is the annual rate in percent.
	InterestRate float64
	Years        int
	// ExtraPrincipal is paid on top of every regular payment.
	ExtraPrincipal float64
}

// Summary totals a schedule.
type Summary struct {
	Months         int     `json:"months"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// ScheduleGenerator generates amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule returns one Payment per month until the loan is repaid.
// A loan with nothing to borrow has an empty schedule.
func (g *ScheduleGenerator) GenerateSchedule(loan Loan) ([]Payment, error) {
	if loan.Years < 1 || loan.Years > constants.MaxScheduleYears {
		return nil, fmt.Errorf("amortization must be between 1 and %d years, got %d", constants.MaxScheduleYears, loan.Years)
	}
	if loan.InterestRate < 0 || !mathutil.IsFinite(loan.InterestRate) {
		return nil, fmt.Errorf("interest rate must be a non-negative number, got %v", loan.InterestRate)
	}
	if loan.ExtraPrincipal < 0 {
		return nil, fmt.Errorf("extra principal must not be negative, got %v", loan.ExtraPrincipal)
	}
	if !mathutil.IsFinite(loan.Principal) {
		return nil, fmt.Errorf("principal must be a finite number, got %v", loan.Principal)
	}
	if loan.Principal <= 0 {
		return nil, nil
	}

	term := loan.Years * constants.MonthsPerYear
	monthlyPayment := formulas.CalculateMonthlyPayment(loan.Principal, loan.InterestRate, loan.Years)
	schedule := make([]Payment, 0, term)
	remaining := loan.Principal

	for month := 1; month <= term; month++ {
		var current Payment
		current.Month = month
		current.Interest = CalculateInterestPayment(remaining, loan.InterestRate)
		current.Principal = monthlyPayment - current.Interest
		current.Principal += g.extraPrincipal(loan, month, remaining-current.Principal)

		if month == term || mathutil.RoundCents(remaining-current.Principal) <= 0 {
			// Pay off exactly what is left; avoids carrying machine error.
			current.Principal = remaining
			current.RemainingPrincipal = 0
		} else {
			current.RemainingPrincipal = remaining - current.Principal
		}
		current.Payment = current.Principal + current.Interest

		schedule = append(schedule, current)
		remaining = current.RemainingPrincipal
		if remaining == 0 {
			break
		}
	}

	return schedule, nil
}

// extraPrincipal caps the extra payment to the balance left after the
// regular payment so the loan is never overpaid.
func (g *ScheduleGenerator) extraPrincipal(loan Loan, month int, balance float64) float64 {
	if loan.ExtraPrincipal <= 0 {
		return 0
	}
	if loan.ExtraPrincipal > balance {
		g.logger.Debug("capping extra principal payment to prevent overpayment",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Int("month", month),
			zap.Float64("requested", loan.ExtraPrincipal),
			zap.Float64("capped_to_balance", balance),
		)
		if balance < 0 {
			return 0
		}
		return balance
	}
	return loan.ExtraPrincipal
}

// Summarize totals a schedule. MonthlyPayment is the first regular payment.
func Summarize(schedule []Payment) Summary {
	var summary Summary
	summary.Months = len(schedule)
	if len(schedule) > 0 {
		summary.MonthlyPayment = schedule[0].Payment
	}
	for _, p := range schedule {
		summary.TotalPaid += p.Payment
		summary.TotalInterest += p.Interest
	}
	return summary
}

// YearlyTotals groups a schedule by year of the loan. Each entry carries the
// last month of the year and sums of the payment, principal and interest.
func YearlyTotals(schedule []Payment) []Payment {
	var years []Payment
	for _, p := range schedule {
		year := (p.Month - 1) / constants.MonthsPerYear
		if year == len(years) {
			years = append(years, Payment{})
		}
		y := &years[year]
		y.Month = p.Month
		y.Payment += p.Payment
		y.Principal += p.Principal
		y.Interest += p.Interest
		y.RemainingPrincipal = p.RemainingPrincipal
	}
	return years
}
