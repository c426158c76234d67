// Package money handles monetary amounts in integer minor units (cents).
//
// Amounts on the wire are decimal numbers with two fractional digits; all
// arithmetic happens on int64 cents so repeated addition never accumulates
// binary floating-point error.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a
// two-decimal monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a signed amount in cents.
type Money int64

// Parse converts a decimal string to Money with half-up rounding on the
// third decimal place. Both dot and comma separators are accepted.
//
// Examples:
//
//	Parse("12.34")  -> 1234
//	Parse("12,34")  -> 1234
//	Parse("12.345") -> 1235
//	Parse("-3.50")  -> -350
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// iv*100 leaves fewer than 100 cents of headroom at the boundary, so the
	// boundary value itself is rejected too.
	const maxSafe = math.MaxInt64 / 100
	if iv >= maxSafe {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits are cents; half-up on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

// FromFloat converts a float amount (as decoded from JSON) to cents,
// rounding half away from zero.
func FromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// Float returns the decimal value as a float64, for encoding only.
func (m Money) Float() float64 {
	return float64(m) / 100.0
}

// Abs returns the unsigned magnitude.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// String formats the amount with two decimals, e.g. "3.34" or "-0.50".
func (m Money) String() string {
	sign := ""
	v := m
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal number with two fractional
// digits, matching the ledger service's wire format.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', 2, 64)), nil
}

// UnmarshalJSON decodes either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	*m = FromFloat(f)
	return nil
}
