package server

import (
	"fmt"

	"github.com/iwvelando/home-affordability/internal/affordability"
)

// eventPayload is the wire form of an affordability event. Only the field
// that matches Type is read.
type eventPayload struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Years int    `json:"years,omitempty"`
	On    bool   `json:"on,omitempty"`
}

func (p eventPayload) toEvent() (affordability.Event, error) {
	switch p.Type {
	case affordability.EventSetPurchasePrice:
		return affordability.SetPurchasePrice{Text: p.Text}, nil
	case affordability.EventSetDownPayment:
		return affordability.SetDownPayment{Text: p.Text}, nil
	case affordability.EventSetAmortization:
		return affordability.SetAmortization{Years: p.Years}, nil
	case affordability.EventSetNewConstruction:
		return affordability.SetNewConstruction{On: p.On}, nil
	case affordability.EventSetInterestRate:
		return affordability.SetInterestRate{Text: p.Text}, nil
	case "":
		return nil, fmt.Errorf("event is missing a type")
	}
	return nil, fmt.Errorf("unknown event type %q", p.Type)
}

func toEvents(payloads []eventPayload) ([]affordability.Event, error) {
	events := make([]affordability.Event, 0, len(payloads))
	for i, p := range payloads {
		event, err := p.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}
