package optimizer

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/home-affordability/internal/affordability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunFindsBoundary(t *testing.T) {
	tests := []struct {
		name                 string
		directive            Directive
		minPrice             float64
		maxPrice             float64
		expectedAmortization int
	}{
		{
			name:                 "Zero interest over 25 years",
			directive:            Directive{MonthlyBudget: 1000, DownPayment: 100000, Amortization: 25},
			minPrice:             399998,
			maxPrice:             400000,
			expectedAmortization: 25,
		},
		{
			name:                 "Insurance ceiling caps the price",
			directive:            Directive{MonthlyBudget: 1000, DownPayment: 100000, Amortization: 35},
			minPrice:             499998,
			maxPrice:             500000,
			expectedAmortization: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := NewRunner(zap.NewNop(), affordability.NewCalculator()).Run(tt.directive)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !summary.Converged {
				t.Errorf("expected the search to converge, notes: %v", summary.Notes)
			}
			if summary.PurchasePrice < tt.minPrice || summary.PurchasePrice > tt.maxPrice {
				t.Errorf("expected price in [%.2f, %.2f], got %.2f", tt.minPrice, tt.maxPrice, summary.PurchasePrice)
			}
			if summary.Amortization != tt.expectedAmortization {
				t.Errorf("expected amortization %d, got %d", tt.expectedAmortization, summary.Amortization)
			}
			if summary.MonthlyPayment > tt.directive.MonthlyBudget || summary.Headroom < 0 {
				t.Errorf("payment %.2f exceeds budget %.2f", summary.MonthlyPayment, tt.directive.MonthlyBudget)
			}
			if summary.Iterations == 0 {
				t.Error("expected bisection iterations")
			}
		})
	}
}

func TestRunWithInterest(t *testing.T) {
	directive := Directive{MonthlyBudget: 2577.21, DownPayment: 100000, InterestRate: 6, Amortization: 25}
	summary, err := NewRunner(nil, affordability.NewCalculator()).Run(directive)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 400000 borrowed at 6% over 25 years costs 2577.21 a month.
	if math.Abs(summary.PurchasePrice-500000) > 5 {
		t.Errorf("expected a price near 500000, got %.2f", summary.PurchasePrice)
	}
}

func TestRunBoundsAreInfeasibleOrFeasible(t *testing.T) {
	t.Run("Budget too small", func(t *testing.T) {
		summary, err := NewRunner(nil, affordability.NewCalculator()).Run(Directive{
			MonthlyBudget:   1,
			DownPayment:     100000,
			InterestRate:    5,
			NewConstruction: true,
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if summary.Converged || len(summary.Notes) != 1 {
			t.Errorf("expected an unconverged result with a note, got %+v", summary)
		}
		if summary.PurchasePrice != 100000 {
			t.Errorf("expected the down payment as price, got %.2f", summary.PurchasePrice)
		}
	})

	t.Run("Budget exceeds the search range", func(t *testing.T) {
		summary, err := NewRunner(nil, affordability.NewCalculator()).Run(Directive{
			MonthlyBudget: 10000,
			DownPayment:   50000,
			MaxPrice:      200000,
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !summary.Converged || summary.PurchasePrice != 200000 || len(summary.Notes) != 1 {
			t.Errorf("expected the max price with a note, got %+v", summary)
		}
	})
}

func TestRunIterationLimit(t *testing.T) {
	summary, err := NewRunner(nil, affordability.NewCalculator()).Run(Directive{
		MonthlyBudget: 1000,
		DownPayment:   100000,
		Amortization:  25,
		MaxIterations: 3,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Converged || summary.Iterations != 3 || len(summary.Notes) != 1 {
		t.Errorf("expected 3 unconverged iterations with a note, got %+v", summary)
	}
	if summary.MonthlyPayment > 1000 {
		t.Errorf("expected a feasible price, payment %.2f", summary.MonthlyPayment)
	}
}

func TestDirectiveValidate(t *testing.T) {
	tests := []struct {
		name      string
		directive Directive
		wantErr   string
	}{
		{"Valid", Directive{MonthlyBudget: 1000, DownPayment: 0}, ""},
		{"Zero budget", Directive{MonthlyBudget: 0}, "monthly budget"},
		{"Infinite budget", Directive{MonthlyBudget: math.Inf(1)}, "monthly budget"},
		{"Negative down payment", Directive{MonthlyBudget: 1000, DownPayment: -1}, "down payment"},
		{"NaN rate", Directive{MonthlyBudget: 1000, InterestRate: math.NaN()}, "interest rate"},
		{"Negative amortization", Directive{MonthlyBudget: 1000, Amortization: -1}, "amortization"},
		{"Max price below down payment", Directive{MonthlyBudget: 1000, DownPayment: 500000, MaxPrice: 400000}, "max price"},
		{"Zero tolerance and iterations use defaults", Directive{MonthlyBudget: 1000, Tolerance: 0, MaxIterations: 0}, ""},
		{"Negative tolerance", Directive{MonthlyBudget: 1000, Tolerance: -1}, "tolerance must not be negative"},
		{"Negative max iterations", Directive{MonthlyBudget: 1000, MaxIterations: -1}, "max iterations must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.directive.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunLogsResult(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := NewRunner(zap.New(core), affordability.NewCalculator()).Run(Directive{MonthlyBudget: 1000, DownPayment: 100000})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	entries := logs.FilterMessage("price search finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected one result log, got %d", len(entries))
	}
	if op := entries[0].ContextMap()["op"]; op != "optimizer.Run" {
		t.Errorf("expected op optimizer.Run, got %v", op)
	}
}
