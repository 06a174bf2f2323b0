// Package output provides utilities for formatting and displaying affordability results.
package output

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/home-affordability/internal/affordability"
	"github.com/iwvelando/home-affordability/pkg/format"
	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/mathutil"
	"github.com/iwvelando/home-affordability/pkg/numeric"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotANumber is shown next to an input whose text is not a number.
const NotANumber = "Not a number"

// Document is the machine-readable form of a view. Values that are missing
// or not finite are null.
type Document struct {
	QuoteID        string              `json:"quoteId,omitempty"`
	State          affordability.State `json:"state"`
	Amortization   AmortizationRange   `json:"amortization"`
	Valid          Validity            `json:"valid"`
	Principal      *float64            `json:"principal"`
	LTV            *float64            `json:"ltv"`
	MonthlyPayment *float64            `json:"monthlyPayment"`
	Costs          []CostLine          `json:"costs"`
	Total          *float64            `json:"total"`
}

// AmortizationRange is the selected amortization and the bounds it is kept within.
type AmortizationRange struct {
	Years int `json:"years"`
	Min   int `json:"min"`
	Max   int `json:"max"`
}

// Validity reports which text inputs are numbers.
type Validity struct {
	PurchasePrice bool `json:"purchasePrice"`
	DownPayment   bool `json:"downPayment"`
	InterestRate  bool `json:"interestRate"`
}

// CostLine is one upfront cost item.
type CostLine struct {
	Type      string            `json:"type"`
	Label     string            `json:"label"`
	Amount    *float64          `json:"amount"`
	Breakdown formulas.Schedule `json:"breakdown,omitempty"`
}

// NewDocument converts a view.
func NewDocument(view affordability.View) Document {
	doc := Document{
		State: view.State,
		Amortization: AmortizationRange{
			Years: view.State.Amortization,
			Min:   view.MinAmortization,
			Max:   view.MaxAmortization,
		},
		Valid: Validity{
			PurchasePrice: view.PurchasePriceValid,
			DownPayment:   view.DownPaymentValid,
			InterestRate:  view.InterestRateValid,
		},
		LTV:            view.LTV,
		MonthlyPayment: view.MonthlyPayment,
		Costs:          make([]CostLine, 0, len(view.Costs)),
		Total:          mathutil.FinitePtr(view.Total),
	}
	if view.Principal != nil {
		doc.Principal = mathutil.FinitePtr(*view.Principal)
	}

	for _, item := range view.Costs {
		line := CostLine{
			Type:   item.Kind().Key(),
			Label:  affordability.CostLabel(item),
			Amount: mathutil.FinitePtr(item.Total()),
		}
		if tax, ok := item.(affordability.PropertyTransferTaxCost); ok {
			line.Breakdown = tax.Breakdown
		}
		doc.Costs = append(doc.Costs, line)
	}

	return doc
}

// JSON writes the view as an indented JSON document.
func JSON(w io.Writer, view affordability.View) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewDocument(view)); err != nil {
		return fmt.Errorf("failed to encode view: %w", err)
	}
	return nil
}

// Pretty writes a human-readable summary of the view.
func Pretty(w io.Writer, view affordability.View) error {
	p := message.NewPrinter(language.English)
	s := view.State
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = p.Fprintf(w, format, args...)
		}
	}

	printf("--- Home affordability ---\n")
	printf("Purchase Price   | %s\n", inputText(s.PurchasePriceText, view.PurchasePriceValid, format.Currency))
	printf("Down Payment     | %s\n", inputText(s.DownPaymentText, view.DownPaymentValid, format.Currency))
	printf("Interest Rate    | %s\n", inputText(s.InterestRateText, view.InterestRateValid, func(v float64) string {
		return format.Percent(v / 100)
	}))
	printf("New Construction | %s\n", yesNo(s.NewConstruction))
	printf("Amortization     | %d years (%d-%d)\n", s.Amortization, view.MinAmortization, view.MaxAmortization)

	if view.Principal != nil {
		price, _ := numeric.Parse(s.PurchasePriceText)
		down, _ := numeric.Parse(s.DownPaymentText)
		printf("\nPrincipal: %s x %.2f - %s = %s\n",
			format.Currency(price), view.PriceMultiplier, format.Currency(down), format.Currency(*view.Principal))
		if view.LTV != nil {
			printf("Loan to Value: %s\n", format.Percent(*view.LTV))
		}
		if view.MonthlyPayment != nil {
			printf("Monthly Payment: %s\n", format.Currency(*view.MonthlyPayment))
		}
	}

	printf("\nUpfront Costs\n")
	printf("_____________\n")
	if len(view.Costs) == 0 {
		printf("(none)\n")
	}
	for _, item := range view.Costs {
		printf("%-22s | %s\n", affordability.CostLabel(item), format.Currency(item.Total()))
	}
	printf("%-22s | %s\n", "Total", format.Currency(view.Total))

	return err
}

func inputText(text string, valid bool, render func(float64) string) string {
	if text == "" {
		return "-"
	}
	if !valid {
		return fmt.Sprintf("%q (%s)", text, NotANumber)
	}
	value, _ := numeric.Parse(text)
	return render(value)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
