package affordability

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionDispatch(t *testing.T) {
	session := NewSession(zap.NewNop(), NewCalculator())

	if got := session.State().Amortization; got != 25 {
		t.Fatalf("expected initial amortization 25, got %d", got)
	}

	s := session.Dispatch(
		SetPurchasePrice{Text: "600000"},
		SetDownPayment{Text: "200000"},
		SetAmortization{Years: 35},
	)
	if s.Amortization != 35 {
		t.Fatalf("expected amortization 35, got %d", s.Amortization)
	}

	s = session.Dispatch(SetDownPayment{Text: "60000"})
	if s.Amortization != 25 {
		t.Fatalf("expected amortization clamped to 25, got %d", s.Amortization)
	}
	if session.State() != s {
		t.Error("State() does not match the last dispatch result")
	}

	view := session.Evaluate()
	if len(view.Costs) != 2 {
		t.Errorf("expected two cost items, got %d", len(view.Costs))
	}
}

func TestSessionNilLogger(t *testing.T) {
	session := NewSession(nil, NewCalculator())
	session.Dispatch(SetPurchasePrice{Text: "1"})
}

func TestSessionLogsClamp(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	session := NewSession(zap.New(core), NewCalculator())

	session.Dispatch(
		SetPurchasePrice{Text: "500000"},
		SetDownPayment{Text: "10000"},
		SetAmortization{Years: 35},
	)

	if got := logs.FilterMessage("applied event").Len(); got != 3 {
		t.Errorf("expected 3 applied event logs, got %d", got)
	}
	clamped := logs.FilterMessage("amortization clamped").All()
	if len(clamped) != 1 {
		t.Fatalf("expected one clamp log, got %d", len(clamped))
	}
	if requested := clamped[0].ContextMap()["requested"]; requested != int64(35) {
		t.Errorf("expected requested=35, got %v", requested)
	}
}

func TestResumeSessionNormalizes(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected int
	}{
		{"Above insured ceiling", State{PurchasePriceText: "500000", DownPaymentText: "10000", Amortization: 35}, 25},
		{"Below minimum", State{Amortization: 0}, 1},
		{"Already valid", State{PurchasePriceText: "500000", DownPaymentText: "100000", Amortization: 30}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := ResumeSession(nil, NewCalculator(), tt.state)
			if got := session.State().Amortization; got != tt.expected {
				t.Errorf("expected amortization %d, got %d", tt.expected, got)
			}
		})
	}
}
