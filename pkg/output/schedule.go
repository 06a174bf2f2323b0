package output

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/home-affordability/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ScheduleDocument is the machine-readable form of an amortization schedule.
type ScheduleDocument struct {
	Summary  loans.Summary   `json:"summary"`
	Payments []loans.Payment `json:"payments"`
}

// NewScheduleDocument summarizes a schedule. With yearly set the payments are
// grouped by year of the loan.
func NewScheduleDocument(schedule []loans.Payment, yearly bool) ScheduleDocument {
	payments := schedule
	if yearly {
		payments = loans.YearlyTotals(schedule)
	}
	if payments == nil {
		payments = []loans.Payment{}
	}
	return ScheduleDocument{Summary: loans.Summarize(schedule), Payments: payments}
}

// PrettySchedule outputs the schedule as a yearly table.
func PrettySchedule(w io.Writer, schedule []loans.Payment) error {
	p := message.NewPrinter(language.English)
	summary := loans.Summarize(schedule)

	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = p.Fprintf(w, format, args...)
		}
	}

	printf("--- Amortization schedule ---\n")
	printf("Year | Payments      | Principal     | Interest      | Balance\n")
	printf("____ | _____________ | _____________ | _____________ | _______\n")
	for i, year := range loans.YearlyTotals(schedule) {
		printf("%4d | $%.2f | $%.2f | $%.2f | $%.2f\n", i+1, year.Payment, year.Principal, year.Interest, year.RemainingPrincipal)
	}
	printf("\nMonths: %d\n", summary.Months)
	printf("Total Paid: $%.2f\n", summary.TotalPaid)
	printf("Total Interest: $%.2f\n", summary.TotalInterest)

	return err
}

// JSONSchedule writes the schedule grouped by year as an indented JSON document.
func JSONSchedule(w io.Writer, schedule []loans.Payment) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewScheduleDocument(schedule, true)); err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	return nil
}
