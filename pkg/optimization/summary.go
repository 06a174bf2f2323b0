// Package optimization provides shared data structures for price search results.
package optimization

// Summary captures the result of a single budget search.
type Summary struct {
	MonthlyBudget  float64  `json:"monthlyBudget"`
	PurchasePrice  float64  `json:"purchasePrice"`
	Principal      float64  `json:"principal"`
	MonthlyPayment float64  `json:"monthlyPayment"`
	Amortization   int      `json:"amortization"`
	Headroom       float64  `json:"headroom"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
	PriceDisplay   string   `json:"purchasePriceDisplay,omitempty"`
}
