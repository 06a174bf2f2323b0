package affordability

import (
	"fmt"

	"github.com/iwvelando/home-affordability/pkg/formulas"
	"github.com/iwvelando/home-affordability/pkg/numeric"
)

// CostKind identifies an upfront cost line item.
type CostKind int

const (
	CostDownPayment CostKind = iota
	CostPropertyTransferTax
)

// AllCostKinds lists every cost kind in display order.
func AllCostKinds() []CostKind {
	return []CostKind{CostDownPayment, CostPropertyTransferTax}
}

// Label is the display name of the cost kind.
func (k CostKind) Label() string {
	switch k {
	case CostDownPayment:
		return "Down Payment"
	case CostPropertyTransferTax:
		return "Property Transfer Tax"
	}
	panic(fmt.Sprintf("affordability: unhandled cost kind %d", int(k)))
}

// Key is the wire name of the cost kind.
func (k CostKind) Key() string {
	switch k {
	case CostDownPayment:
		return "DOWN_PAYMENT"
	case CostPropertyTransferTax:
		return "PROPERTY_TRANSFER_TAX"
	}
	panic(fmt.Sprintf("affordability: unhandled cost kind %d", int(k)))
}

// UpfrontCostItem is one line of the upfront cost summary. The variants are
// DownPaymentCost and PropertyTransferTaxCost; no other package can add one.
type UpfrontCostItem interface {
	Kind() CostKind
	Total() float64
	upfrontCost()
}

// DownPaymentCost is the cash put down on the purchase.
type DownPaymentCost struct {
	Amount float64
}

// PropertyTransferTaxCost is the transfer tax and the schedule it was computed with.
type PropertyTransferTaxCost struct {
	Amount    float64
	Breakdown formulas.Schedule
}

func (DownPaymentCost) Kind() CostKind           { return CostDownPayment }
func (c DownPaymentCost) Total() float64         { return c.Amount }
func (DownPaymentCost) upfrontCost()             {}
func (PropertyTransferTaxCost) Kind() CostKind   { return CostPropertyTransferTax }
func (c PropertyTransferTaxCost) Total() float64 { return c.Amount }
func (PropertyTransferTaxCost) upfrontCost()     {}

// CostLabel returns the display name of an item.
func CostLabel(item UpfrontCostItem) string {
	switch item.(type) {
	case DownPaymentCost:
		return CostDownPayment.Label()
	case PropertyTransferTaxCost:
		return CostPropertyTransferTax.Label()
	}
	panic(fmt.Sprintf("affordability: unhandled cost item %T", item))
}

// Details are the inputs to GetUpfrontCosts.
type Details struct {
	PurchasePrice string
	DownPayment   string
	Brackets      formulas.Schedule
}

// GetUpfrontCosts builds the cost lines that the current inputs support. A
// down payment line appears only when the down payment is a number and a
// transfer tax line only when the price is; the down payment comes first.
func GetUpfrontCosts(details Details) []UpfrontCostItem {
	var result []UpfrontCostItem

	if numeric.IsNumber(details.DownPayment) {
		result = append(result, DownPaymentCost{
			Amount: numeric.MustNumber(details.DownPayment),
		})
	}

	if numeric.IsNumber(details.PurchasePrice) {
		result = append(result, PropertyTransferTaxCost{
			Amount:    formulas.CalculateBracketedTax(numeric.MustNumber(details.PurchasePrice), details.Brackets),
			Breakdown: details.Brackets.Clone(),
		})
	}

	return result
}

// TotalCost sums the items.
func TotalCost(items []UpfrontCostItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Total()
	}
	return total
}
