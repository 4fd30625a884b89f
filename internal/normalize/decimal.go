package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCommaDecimal parses a German-formatted number where a comma is the
// decimal separator, e.g. "120,5". Callers validate the shape beforehand.
func ParseCommaDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// RoundHalfUp rounds to the nearest integer with halves rounded away from
// zero (120.5 -> 121). Uses decimal arithmetic so no binary float bias creeps in.
// ok is false when the result does not fit in 32 bits.
func RoundHalfUp(d decimal.Decimal) (n int, ok bool) {
	r := d.Round(0)
	if r.LessThan(minInt32) || r.GreaterThan(maxInt32) {
		return 0, false
	}
	return int(r.IntPart()), true
}

var (
	minInt32 = decimal.NewFromInt(math.MinInt32)
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
)
