package formulas

import (
	"math"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestCalculatePTT(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"Zero price", 0, 0},
		{"Inside first bracket", 150000, 1500},
		{"First threshold", 200000, 2000},
		{"Inside second bracket", 500000, 8000},
		{"Second threshold", 2000000, 38000},
		{"Above second threshold", 3000000, 68000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePTT(tt.price)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("CalculatePTT(%.0f) = %.4f, expected %.2f", tt.price, result, tt.expected)
			}
		})
	}
}

func TestCalculatePTTMonotonicAndContinuous(t *testing.T) {
	previous := CalculatePTT(0)
	for price := 1000.0; price <= 4000000; price += 1000 {
		current := CalculatePTT(price)
		if current < previous {
			t.Fatalf("CalculatePTT decreased at %.0f: %.2f < %.2f", price, current, previous)
		}
		// The steepest slope is 3%, so a 1,000 step never moves more than 30.
		if current-previous > 30+1e-6 {
			t.Fatalf("CalculatePTT jumped at %.0f: %.2f -> %.2f", price, previous, current)
		}
		previous = current
	}

	for _, boundary := range []float64{200000, 2000000} {
		below := CalculatePTT(boundary - 0.01)
		above := CalculatePTT(boundary + 0.01)
		if above-below > 0.001 {
			t.Errorf("CalculatePTT discontinuous at %.0f: %.4f -> %.4f", boundary, below, above)
		}
	}
}

func TestCalculateBracketedTaxSingleInfiniteBracket(t *testing.T) {
	brackets := []Bracket{{Amount: math.Inf(1), Factor: 0.015}}
	for _, price := range []float64{0, 1, 99999.99, 500000, 12345678} {
		result := CalculateBracketedTax(price, brackets)
		if math.Abs(result-price*0.015) > 1e-6 {
			t.Errorf("CalculateBracketedTax(%.2f) = %.4f, expected %.4f", price, result, price*0.015)
		}
	}
}

func TestCalculateBracketedTaxMatchesPTT(t *testing.T) {
	schedule := DefaultSchedule()
	for price := 0.0; price <= 3500000; price += 12500 {
		if got, want := schedule.Tax(price), CalculatePTT(price); math.Abs(got-want) > 1e-6 {
			t.Fatalf("schedule.Tax(%.0f) = %.4f, CalculatePTT = %.4f", price, got, want)
		}
	}
}

func TestCalculateBracketedTax(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		brackets []Bracket
		expected float64
	}{
		{
			name:     "No brackets",
			price:    500000,
			brackets: nil,
			expected: 0,
		},
		{
			name:  "Bounded schedule leaves the top untaxed",
			price: 500000,
			brackets: []Bracket{
				{Amount: 100000, Factor: 0.01},
				{Amount: 100000, Factor: 0.02},
			},
			expected: 3000,
		},
		{
			name:  "Price ends inside the first bracket",
			price: 50000,
			brackets: []Bracket{
				{Amount: 100000, Factor: 0.01},
				{Amount: math.Inf(1), Factor: 0.05},
			},
			expected: 500,
		},
		{
			name:  "Negative price is untaxed",
			price: -10,
			brackets: []Bracket{
				{Amount: math.Inf(1), Factor: 0.05},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateBracketedTax(tt.price, tt.brackets)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("CalculateBracketedTax() = %.4f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestScheduleClone(t *testing.T) {
	original := DefaultSchedule()
	clone := original.Clone()
	clone[0].Factor = 0.5
	if original[0].Factor == 0.5 {
		t.Fatal("Clone shares the backing array with the original")
	}
	if Schedule(nil).Clone() != nil {
		t.Fatal("Clone of nil schedule should be nil")
	}
}

func TestBracketJSON(t *testing.T) {
	data, err := json.Marshal(DefaultSchedule())
	if err != nil {
		t.Fatalf("failed to marshal schedule: %v", err)
	}
	if !strings.Contains(string(data), `"unbounded":true`) {
		t.Errorf("expected unbounded marker in %s", data)
	}

	var decoded Schedule
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal schedule: %v", err)
	}
	if len(decoded) != 3 || !decoded[2].Unbounded() || decoded[0].Amount != 200000 {
		t.Errorf("unexpected decoded schedule: %+v", decoded)
	}
}
