package formulas

import (
	"math"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/home-affordability/pkg/constants"
)

// Bracket is one segment of a progressive schedule: a width of value and the
// rate applied to the part of a price falling inside it.
type Bracket struct {
	Amount float64
	Factor float64
}

// Unbounded reports whether the bracket catches all remaining value.
func (b Bracket) Unbounded() bool {
	return math.IsInf(b.Amount, 1)
}

type bracketJSON struct {
	Amount    *float64 `json:"amount"`
	Factor    float64  `json:"factor"`
	Unbounded bool     `json:"unbounded,omitempty"`
}

// MarshalJSON writes an unbounded bracket as a null amount.
func (b Bracket) MarshalJSON() ([]byte, error) {
	out := bracketJSON{Factor: b.Factor}
	if b.Unbounded() {
		out.Unbounded = true
	} else {
		amount := b.Amount
		out.Amount = &amount
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either a numeric amount or a null amount / unbounded flag.
func (b *Bracket) UnmarshalJSON(data []byte) error {
	var in bracketJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Factor = in.Factor
	if in.Unbounded || in.Amount == nil {
		b.Amount = math.Inf(1)
	} else {
		b.Amount = *in.Amount
	}
	return nil
}

// Schedule is an ordered list of brackets applied cumulatively.
type Schedule []Bracket

// DefaultSchedule returns the property transfer tax brackets: 1% on the
// first 200,000, 2% up to 2,000,000 and 3% above that.
func DefaultSchedule() Schedule {
	return Schedule{
		{Amount: constants.PTTFirstThreshold, Factor: constants.PTTFirstRate},
		{Amount: constants.PTTSecondThreshold - constants.PTTFirstThreshold, Factor: constants.PTTSecondRate},
		{Amount: math.Inf(1), Factor: constants.PTTTopRate},
	}
}

// Tax applies the schedule to price.
func (s Schedule) Tax(price float64) float64 {
	return CalculateBracketedTax(price, s)
}

// Clone returns a copy that can be handed out without sharing the backing array.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// CalculatePTT returns the property transfer tax for price using the fixed
// two-threshold schedule.
func CalculatePTT(price float64) float64 {
	total := math.Min(constants.PTTFirstThreshold, price) * constants.PTTFirstRate
	if price > constants.PTTFirstThreshold {
		total += math.Min(constants.PTTSecondThreshold-constants.PTTFirstThreshold,
			price-constants.PTTFirstThreshold) * constants.PTTSecondRate
	}
	if price > constants.PTTSecondThreshold {
		total += (price - constants.PTTSecondThreshold) * constants.PTTTopRate
	}
	return total
}

// CalculateBracketedTax applies brackets to price in order. Brackets must be
// supplied in ascending order of applicability; the order is not checked.
func CalculateBracketedTax(price float64, brackets []Bracket) float64 {
	threshold := 0.0
	total := 0.0
	for _, bracket := range brackets {
		if price < threshold {
			break
		}
		total += math.Min(price-threshold, bracket.Amount) * bracket.Factor
		threshold += bracket.Amount
	}
	return total
}
