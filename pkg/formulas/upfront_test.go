package formulas

import (
	"math"
	"testing"
)

func TestCalculateUpfrontCost(t *testing.T) {
	tests := []struct {
		name     string
		details  UpfrontDetails
		expected Range
	}{
		{
			name: "Resale land with fixed down payment",
			details: UpfrontDetails{
				GST:          0.05,
				Price:        500000,
				PropertyType: PropertyLand,
				Ownership:    OwnershipResale,
				DownPayment:  DownPayment{Kind: DownPaymentAmount, Value: 100000},
			},
			// 8000 tax + 1300 legal + 300 appraisal + 100000 down; max adds
			// 450 inspection and 500 * 0.05 survey.
			expected: Range{Min: 109600, Max: 110075},
		},
		{
			name: "New construction strata with percentage down payment",
			details: UpfrontDetails{
				GST:          0.05,
				Price:        500000,
				PropertyType: PropertyStrata,
				Ownership:    OwnershipNewConstruction,
				DownPayment:  DownPayment{Kind: DownPaymentPercentage, Value: 0.1},
			},
			expected: Range{Min: 584600, Max: 585550},
		},
		{
			name: "Zero price",
			details: UpfrontDetails{
				GST:          0.05,
				PropertyType: PropertyStrata,
				Ownership:    OwnershipResale,
				DownPayment:  DownPayment{Kind: DownPaymentAmount},
			},
			expected: Range{Min: 1600, Max: 2550},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateUpfrontCost(tt.details)
			if math.Abs(result.Min-tt.expected.Min) > 1e-6 || math.Abs(result.Max-tt.expected.Max) > 1e-6 {
				t.Errorf("CalculateUpfrontCost() = %+v, expected %+v", result, tt.expected)
			}
			if result.Min > result.Max {
				t.Errorf("min %.2f exceeds max %.2f", result.Min, result.Max)
			}
		})
	}
}

func TestCalculateUpfrontCostRoundTrip(t *testing.T) {
	costs := DefaultClosingCosts()
	for _, price := range []float64{0, 199999.99, 200000, 750000, 2000000, 3250000.5} {
		for _, propertyType := range []PropertyType{PropertyLand, PropertyStrata} {
			for _, ownership := range []Ownership{OwnershipResale, OwnershipNewConstruction} {
				details := UpfrontDetails{
					GST:          0.05,
					Price:        price,
					PropertyType: propertyType,
					Ownership:    ownership,
					DownPayment:  DownPayment{Kind: DownPaymentPercentage, Value: 0.2},
				}
				result := CalculateUpfrontCost(details)

				base := CalculatePTT(price) + costs.LegalFees + costs.PropertyAppraisal
				optional := costs.MaxHomeInspection
				if propertyType == PropertyLand {
					optional += costs.PropertySurvey * details.GST
				} else {
					optional += costs.MaxMoveInFee
				}
				if ownership == OwnershipNewConstruction {
					base += price * (1 + details.GST)
				}
				down := price * 0.2

				if math.Abs(result.Min-(base+down)) > 1e-6 {
					t.Errorf("%s/%s at %.2f: min %.4f, rebuilt %.4f", propertyType, ownership, price, result.Min, base+down)
				}
				if math.Abs(result.Max-(base+optional+down)) > 1e-6 {
					t.Errorf("%s/%s at %.2f: max %.4f, rebuilt %.4f", propertyType, ownership, price, result.Max, base+optional+down)
				}
			}
		}
	}
}

func TestCalculateUpfrontCostWith(t *testing.T) {
	costs := ClosingCosts{LegalFees: 1000}
	schedule := Schedule{{Amount: math.Inf(1), Factor: 0.01}}
	details := UpfrontDetails{
		Price:        300000,
		PropertyType: PropertyStrata,
		Ownership:    OwnershipResale,
		DownPayment:  DownPayment{Kind: DownPaymentAmount, Value: 60000},
	}

	result := CalculateUpfrontCostWith(details, costs, schedule)
	expected := 3000.0 + 1000 + 60000
	if math.Abs(result.Min-expected) > 1e-6 || math.Abs(result.Max-expected) > 1e-6 {
		t.Errorf("CalculateUpfrontCostWith() = %+v, expected both bounds %.2f", result, expected)
	}
}

func TestDownPaymentResolve(t *testing.T) {
	if got := (DownPayment{Kind: DownPaymentAmount, Value: 50000}).Resolve(400000); got != 50000 {
		t.Errorf("amount down payment resolved to %.2f", got)
	}
	if got := (DownPayment{Kind: DownPaymentPercentage, Value: 0.25}).Resolve(400000); got != 100000 {
		t.Errorf("percentage down payment resolved to %.2f", got)
	}
}
