// Package numeric implements the single validation gate for free-text money
// inputs: whether a piece of user text is a number.
//
// The accepted grammar is the string-to-number conversion used by browsers
// (surrounding whitespace is ignored, decimal literals with optional sign,
// fraction and exponent, and unsigned 0x/0o/0b integer literals), restricted
// to finite results.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	prefixLiteral  = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// isSpace reports whether r is whitespace or a line terminator in the
// browser's number grammar. This differs from unicode.IsSpace: U+FEFF is
// whitespace here and U+0085 is not.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// Trim removes the whitespace the number grammar ignores.
func Trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Parse converts text to a finite float64. The boolean is false when the
// text is blank, is not a numeric literal, or overflows to an infinity.
func Parse(s string) (float64, bool) {
	trimmed := Trim(s)
	if trimmed == "" {
		return 0, false
	}

	var value float64
	switch {
	case decimalLiteral.MatchString(trimmed):
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		// Overflow comes back as an infinity and is rejected below; underflow
		// rounds to zero like the browser does.
		value = v
	case prefixLiteral.MatchString(trimmed):
		n, ok := new(big.Int).SetString(trimmed, 0)
		if !ok {
			return 0, false
		}
		value, _ = new(big.Float).SetInt(n).Float64()
	default:
		return 0, false
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// IsNumber reports whether s is non-blank text that converts to a finite number.
func IsNumber(s string) bool {
	_, ok := Parse(s)
	return ok
}

// NumberOrDefault returns the numeric value of s, or defaultValue when s is
// not a number.
func NumberOrDefault(s string, defaultValue float64) float64 {
	if v, ok := Parse(s); ok {
		return v
	}
	return defaultValue
}

// MustNumber returns the numeric value of s. Callers gate on IsNumber first;
// a failure here is a programming error and panics.
func MustNumber(s string) float64 {
	v, ok := Parse(s)
	if !ok {
		panic(fmt.Sprintf("%q is not a number", s))
	}
	return v
}
