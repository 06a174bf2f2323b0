package output

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/home-affordability/pkg/format"
	"github.com/iwvelando/home-affordability/pkg/optimization"
)

// PrettySearch outputs a budget search result.
func PrettySearch(w io.Writer, summary optimization.Summary) error {
	var err error
	printf := func(f string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, f, args...)
		}
	}

	printf("--- Budget search ---\n")
	printf("Monthly Budget   | %s\n", format.Currency(summary.MonthlyBudget))
	printf("Purchase Price   | %s\n", summary.PriceDisplay)
	printf("Principal        | %s\n", format.Currency(summary.Principal))
	printf("Monthly Payment  | %s\n", format.Currency(summary.MonthlyPayment))
	printf("Amortization     | %d years\n", summary.Amortization)
	printf("Headroom         | %s\n", format.Currency(summary.Headroom))
	printf("Iterations       | %d (converged: %s)\n", summary.Iterations, yesNo(summary.Converged))
	for _, note := range summary.Notes {
		printf("Note: %s\n", note)
	}

	return err
}

// JSONSearch outputs a budget search result as indented JSON.
func JSONSearch(w io.Writer, summary optimization.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
