// SPDX-License-Identifier: MIT

package numeric

import (
	"fmt"
	"math"
)

// Interval is the closed interval [Lo, Hi]. Either end may be infinite.
type Interval struct {
	Lo, Hi float64
}

var (
	// NonNegative is [0, +Inf).
	NonNegative = Interval{Lo: 0, Hi: math.Inf(1)}

	// Probability is [0, 1].
	Probability = Interval{Lo: 0, Hi: 1}
)

// NewInterval returns [lo, hi].
//
// Errors:
//   - ErrInvalidArgument when either bound is NaN or lo > hi.
func NewInterval(lo, hi float64) (Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Interval{}, fmt.Errorf("NewInterval(%g,%g): %w", lo, hi, ErrInvalidArgument)
	}

	return Interval{Lo: lo, Hi: hi}, nil
}

// Contains reports whether Lo ≤ v ≤ Hi. NaN is never contained.
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// ContainsWithin reports whether v lies in [Lo-eps, Hi+eps] for c's eps.
func (iv Interval) ContainsWithin(v float64, c Comparator) bool {
	return c.LessOrEqual(iv.Lo, v) && c.LessOrEqual(v, iv.Hi)
}

// Width returns Hi - Lo.
func (iv Interval) Width() float64 { return iv.Hi - iv.Lo }

// Check returns nil when v lies in the interval and is finite, otherwise an
// error wrapping ErrInvalidArgument that names the offending value.
func (iv Interval) Check(name string, v float64) error {
	if !IsFinite(v) || !iv.Contains(v) {
		return fmt.Errorf("%s=%g outside %s: %w", name, v, iv, ErrInvalidArgument)
	}

	return nil
}

// String renders the interval as "[lo, hi]".
func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g]", iv.Lo, iv.Hi)
}
