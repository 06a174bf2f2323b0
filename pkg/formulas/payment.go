// Package formulas provides the pure calculations behind the affordability
// calculator: loan payments, loan-to-value, transfer tax and upfront costs.
package formulas

import (
	"math"

	"github.com/iwvelando/home-affordability/pkg/constants"
)

// CalculatePMT returns the fixed periodic payment that amortizes
// presentValue (and an optional residual futureValue) over numPeriods at the
// per-period rate. Cash flows follow the spreadsheet convention: a loan is a
// negative present value and the payment is reported as a positive amount.
//
// A zero rate with zero periods or a rate of -1 divides by zero; the
// resulting NaN or infinity is returned unchanged.
func CalculatePMT(rate, numPeriods, presentValue, futureValue float64) float64 {
	growth := math.Pow(1+rate, numPeriods)
	denominator := growth - 1
	numerator := rate * (presentValue*growth + futureValue)
	return -(numerator / denominator)
}

// CalculatePMTPresent is CalculatePMT with no residual value.
func CalculatePMTPresent(rate, numPeriods, presentValue float64) float64 {
	return CalculatePMT(rate, numPeriods, presentValue, 0)
}

// CalculateMonthlyPayment calculates the monthly payment needed to repay
// principal over the given number of years at an annual percentage rate.
func CalculateMonthlyPayment(principal, annualInterestRate float64, years int) float64 {
	periods := float64(years * constants.MonthsPerYear)
	if periods <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / periods
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	return CalculatePMTPresent(periodicInterestRate, periods, -principal)
}

// LoanValue pairs a loan amount with the value of the asset securing it.
type LoanValue struct {
	Loan  float64
	Value float64
}

// CalculateLTV returns the loan-to-value ratio. A zero value is not guarded.
func CalculateLTV(lv LoanValue) float64 {
	return lv.Loan / lv.Value
}
