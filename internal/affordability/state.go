package affordability

import "fmt"

// State is the user-editable input of one calculation. Text fields are kept
// verbatim for redisplay even when they are not numbers.
type State struct {
	PurchasePriceText string `json:"purchasePrice"`
	DownPaymentText   string `json:"downPayment"`
	Amortization      int    `json:"amortization"`
	NewConstruction   bool   `json:"newConstruction"`
	InterestRateText  string `json:"interestRate"`
}

// NewState returns the initial state: empty inputs and the policy's initial
// amortization, clamped like any other state.
func (p Policy) NewState() State {
	s := State{Amortization: p.Initial}
	s.Amortization = p.Clamp(s.Amortization, s.PurchasePriceText, s.DownPaymentText)
	return s
}

// Event is a single user edit. The set of events is closed: only this
// package can implement it.
type Event interface {
	// Name identifies the event in logs and over the wire.
	Name() string
	isEvent()
}

// Event names.
const (
	EventSetPurchasePrice   = "setPurchasePrice"
	EventSetDownPayment     = "setDownPayment"
	EventSetAmortization    = "setAmortization"
	EventSetNewConstruction = "setNewConstruction"
	EventSetInterestRate    = "setInterestRate"
)

// SetPurchasePrice replaces the purchase price text.
type SetPurchasePrice struct{ Text string }

// SetDownPayment replaces the down payment text.
type SetDownPayment struct{ Text string }

// SetAmortization requests a new amortization in years.
type SetAmortization struct{ Years int }

// SetNewConstruction toggles whether the property is new construction.
type SetNewConstruction struct{ On bool }

// SetInterestRate replaces the annual interest rate text (percent).
type SetInterestRate struct{ Text string }

func (SetPurchasePrice) Name() string   { return EventSetPurchasePrice }
func (SetDownPayment) Name() string     { return EventSetDownPayment }
func (SetAmortization) Name() string    { return EventSetAmortization }
func (SetNewConstruction) Name() string { return EventSetNewConstruction }
func (SetInterestRate) Name() string    { return EventSetInterestRate }

func (SetPurchasePrice) isEvent()   {}
func (SetDownPayment) isEvent()     {}
func (SetAmortization) isEvent()    {}
func (SetNewConstruction) isEvent() {}
func (SetInterestRate) isEvent()    {}

// Reduce returns the state after applying e to s. Every event, not only
// SetAmortization, re-clamps the amortization against the ceiling implied
// by the resulting price and down payment.
func (p Policy) Reduce(s State, e Event) State {
	next := s
	requested := s.Amortization

	switch ev := e.(type) {
	case SetPurchasePrice:
		next.PurchasePriceText = ev.Text
	case SetDownPayment:
		next.DownPaymentText = ev.Text
	case SetAmortization:
		requested = ev.Years
	case SetNewConstruction:
		next.NewConstruction = ev.On
	case SetInterestRate:
		next.InterestRateText = ev.Text
	default:
		panic(fmt.Sprintf("affordability: unhandled event %T", e))
	}

	next.Amortization = p.Clamp(requested, next.PurchasePriceText, next.DownPaymentText)
	return next
}

// Normalize clamps the amortization of a state that did not come from Reduce.
func (p Policy) Normalize(s State) State {
	s.Amortization = p.Clamp(s.Amortization, s.PurchasePriceText, s.DownPaymentText)
	return s
}

// Apply folds events over s in order.
func (p Policy) Apply(s State, events ...Event) State {
	for _, e := range events {
		s = p.Reduce(s, e)
	}
	return s
}
