package affordability

import (
	"go.uber.org/zap"
)

// Session owns the state of one interactive calculation. A Session is not
// safe for concurrent use; each caller creates its own.
type Session struct {
	logger     *zap.Logger
	calculator Calculator
	state      State
}

// NewSession starts a session in the calculator's initial state.
func NewSession(logger *zap.Logger, calculator Calculator) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		logger:     logger,
		calculator: calculator,
		state:      calculator.NewState(),
	}
}

// ResumeSession continues from a state held by the caller. The state is
// normalized first, so an amortization outside the allowed range is clamped.
func ResumeSession(logger *zap.Logger, calculator Calculator, state State) *Session {
	session := NewSession(logger, calculator)
	session.state = calculator.Policy.Normalize(state)
	return session
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Dispatch applies events in order and returns the resulting state.
func (s *Session) Dispatch(events ...Event) State {
	for _, e := range events {
		requested := s.state.Amortization
		if ev, ok := e.(SetAmortization); ok {
			requested = ev.Years
		}

		s.state = s.calculator.Policy.Reduce(s.state, e)

		s.logger.Debug("applied event",
			zap.String("op", "affordability.Dispatch"),
			zap.String("event", e.Name()),
			zap.Int("amortization", s.state.Amortization),
		)
		if s.state.Amortization != requested {
			s.logger.Debug("amortization clamped",
				zap.String("op", "affordability.Dispatch"),
				zap.Int("requested", requested),
				zap.Int("amortization", s.state.Amortization),
				zap.Int("max", s.calculator.Policy.MaxAmortizationText(s.state.PurchasePriceText, s.state.DownPaymentText)),
			)
		}
	}
	return s.state
}

// Evaluate derives the view of the current state.
func (s *Session) Evaluate() View {
	return s.calculator.Evaluate(s.state)
}
