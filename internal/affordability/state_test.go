package affordability

import (
	"math/rand"
	"testing"
)

func TestNewState(t *testing.T) {
	s := DefaultPolicy().NewState()
	if s.PurchasePriceText != "" || s.DownPaymentText != "" {
		t.Errorf("expected empty inputs, got %+v", s)
	}
	if s.Amortization != 25 {
		t.Errorf("expected initial amortization 25, got %d", s.Amortization)
	}
	if s.NewConstruction {
		t.Error("expected new construction to start unset")
	}
}

func TestReduce(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		events   []Event
		expected State
	}{
		{
			name: "Large down payment unlocks 35 years",
			events: []Event{
				SetPurchasePrice{Text: "500000"},
				SetDownPayment{Text: "150000"},
				SetAmortization{Years: 35},
			},
			expected: State{PurchasePriceText: "500000", DownPaymentText: "150000", Amortization: 35},
		},
		{
			name: "Lowering the down payment clamps to 25",
			events: []Event{
				SetPurchasePrice{Text: "500000"},
				SetDownPayment{Text: "150000"},
				SetAmortization{Years: 30},
				SetDownPayment{Text: "50000"},
			},
			expected: State{PurchasePriceText: "500000", DownPaymentText: "50000", Amortization: 25},
		},
		{
			name: "Raising the price clamps to 25",
			events: []Event{
				SetPurchasePrice{Text: "500000"},
				SetDownPayment{Text: "150000"},
				SetAmortization{Years: 35},
				SetPurchasePrice{Text: "1000000"},
			},
			expected: State{PurchasePriceText: "1000000", DownPaymentText: "150000", Amortization: 25},
		},
		{
			name: "Clamped value is not restored when the ceiling rises",
			events: []Event{
				SetPurchasePrice{Text: "500000"},
				SetDownPayment{Text: "150000"},
				SetAmortization{Years: 35},
				SetDownPayment{Text: "10000"},
				SetDownPayment{Text: "150000"},
			},
			expected: State{PurchasePriceText: "500000", DownPaymentText: "150000", Amortization: 25},
		},
		{
			name: "Text is stored verbatim",
			events: []Event{
				SetPurchasePrice{Text: " 12abc "},
				SetDownPayment{Text: "  "},
			},
			expected: State{PurchasePriceText: " 12abc ", DownPaymentText: "  ", Amortization: 25},
		},
		{
			name: "Request above the ceiling is capped",
			events: []Event{
				SetPurchasePrice{Text: "400000"},
				SetDownPayment{Text: "20000"},
				SetAmortization{Years: 35},
			},
			expected: State{PurchasePriceText: "400000", DownPaymentText: "20000", Amortization: 25},
		},
		{
			name: "Request below one is raised",
			events: []Event{
				SetAmortization{Years: 0},
			},
			expected: State{Amortization: 1},
		},
		{
			name: "Toggle and rate are carried",
			events: []Event{
				SetNewConstruction{On: true},
				SetInterestRate{Text: "5.25"},
			},
			expected: State{Amortization: 25, NewConstruction: true, InterestRateText: "5.25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := policy.Apply(policy.NewState(), tt.events...)
			if result != tt.expected {
				t.Errorf("Apply() = %+v, expected %+v", result, tt.expected)
			}
		})
	}
}

func TestEvaluateBreakdownDoesNotAliasSchedule(t *testing.T) {
	calc := NewCalculator()
	want := calc.Schedule[0].Factor

	view := calc.Evaluate(State{PurchasePriceText: "500000", DownPaymentText: "100000", Amortization: 25})

	var tax *PropertyTransferTaxCost
	for _, item := range view.Costs {
		if c, ok := item.(PropertyTransferTaxCost); ok {
			tax = &c
		}
	}
	if tax == nil {
		t.Fatal("expected a property transfer tax line")
	}
	if len(tax.Breakdown) == 0 {
		t.Fatal("expected a non-empty breakdown")
	}

	tax.Breakdown[0].Factor = 1
	if calc.Schedule[0].Factor != want {
		t.Errorf("editing the breakdown changed the calculator schedule: factor %v, expected %v", calc.Schedule[0].Factor, want)
	}
}

func TestClampInvariantHoldsForEventSequences(t *testing.T) {
	policy := DefaultPolicy()
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", " ", "abc", "0", "-5", "1e6"}

	randomText := func() string {
		if rng.Intn(4) == 0 {
			return texts[rng.Intn(len(texts))]
		}
		return formatMoney(rng.Float64() * 2000000)
	}

	for run := 0; run < 200; run++ {
		s := policy.NewState()
		for step := 0; step < 50; step++ {
			var e Event
			switch rng.Intn(5) {
			case 0:
				e = SetPurchasePrice{Text: randomText()}
			case 1:
				e = SetDownPayment{Text: randomText()}
			case 2:
				e = SetAmortization{Years: rng.Intn(50) - 5}
			case 3:
				e = SetNewConstruction{On: rng.Intn(2) == 0}
			default:
				e = SetInterestRate{Text: randomText()}
			}

			s = policy.Reduce(s, e)

			ceiling := policy.MaxAmortizationText(s.PurchasePriceText, s.DownPaymentText)
			if s.Amortization > ceiling {
				t.Fatalf("run %d step %d: amortization %d exceeds ceiling %d after %s (%+v)",
					run, step, s.Amortization, ceiling, e.Name(), s)
			}
			if s.Amortization < 1 || s.Amortization > 35 {
				t.Fatalf("run %d step %d: amortization %d outside [1, 35]", run, step, s.Amortization)
			}
		}
	}
}

type unknownEvent struct{ SetPurchasePrice }

func TestReducePanicsOnForeignEvent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Reduce to panic on an unhandled event")
		}
	}()
	DefaultPolicy().Reduce(State{}, unknownEvent{})
}

func TestEventNames(t *testing.T) {
	events := map[string]Event{
		EventSetPurchasePrice:   SetPurchasePrice{},
		EventSetDownPayment:     SetDownPayment{},
		EventSetAmortization:    SetAmortization{},
		EventSetNewConstruction: SetNewConstruction{},
		EventSetInterestRate:    SetInterestRate{},
	}
	for name, e := range events {
		if e.Name() != name {
			t.Errorf("%T.Name() = %s, expected %s", e, e.Name(), name)
		}
	}
}
