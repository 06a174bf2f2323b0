package output

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/home-affordability/pkg/optimization"
)

func TestPrettySearch(t *testing.T) {
	summary := optimization.Summary{
		MonthlyBudget:  1000,
		PurchasePrice:  400000,
		Principal:      300000,
		MonthlyPayment: 1000,
		Amortization:   25,
		Iterations:     24,
		Converged:      true,
		Notes:          []string{"checked"},
		PriceDisplay:   "$400,000.00",
	}

	var buf bytes.Buffer
	if err := PrettySearch(&buf, summary); err != nil {
		t.Fatalf("PrettySearch() error = %v", err)
	}

	for _, want := range []string{
		"Monthly Budget   | $1,000.00",
		"Purchase Price   | $400,000.00",
		"Principal        | $300,000.00",
		"Amortization     | 25 years",
		"Headroom         | $0.00",
		"Iterations       | 24 (converged: yes)",
		"Note: checked",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestJSONSearch(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONSearch(&buf, optimization.Summary{PurchasePrice: 250000, Converged: true}); err != nil {
		t.Fatalf("JSONSearch() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["purchasePrice"] != float64(250000) || decoded["converged"] != true {
		t.Errorf("unexpected document: %v", decoded)
	}
	if _, ok := decoded["notes"]; ok {
		t.Error("expected notes to be omitted when empty")
	}
}
