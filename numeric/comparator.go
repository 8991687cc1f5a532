// SPDX-License-Identifier: MIT

// Package numeric provides floating-point comparison with an explicit absolute
// tolerance, plus closed intervals used to validate numeric inputs.
//
// Purpose:
//   - Give every other package a single source of truth for "equal within eps".
//   - Keep tolerance configuration explicit (no package-level mutable state).
//
// Determinism:
//   - All operations are pure functions of their inputs and the comparator eps.
package numeric

import (
	"errors"
	"fmt"
	"math"
)

// DefaultEpsilon is the absolute tolerance used by Default().
const DefaultEpsilon = 1e-9

// MachineEpsilon is the float64 unit roundoff (2^-52).
const MachineEpsilon = 2.220446049250313e-16

// ErrInvalidArgument is returned for malformed numeric parameters such as a
// negative or non-finite tolerance.
var ErrInvalidArgument = errors.New("numeric: invalid argument")

// Comparator compares float64 values with an absolute tolerance eps.
// Two values a, b are equal when |a-b| ≤ eps. NaN is never equal to anything,
// and equal infinities compare equal.
type Comparator struct {
	eps float64
}

// NewComparator returns a Comparator with absolute tolerance eps.
//
// Errors:
//   - ErrInvalidArgument when eps is negative, NaN or ±Inf.
//
// Complexity: O(1).
func NewComparator(eps float64) (Comparator, error) {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		return Comparator{}, fmt.Errorf("NewComparator(%g): %w", eps, ErrInvalidArgument)
	}

	return Comparator{eps: eps}, nil
}

// Default returns a Comparator with DefaultEpsilon.
func Default() Comparator { return Comparator{eps: DefaultEpsilon} }

// Exact returns a Comparator with zero tolerance.
func Exact() Comparator { return Comparator{} }

// Epsilon reports the absolute tolerance.
func (c Comparator) Epsilon() float64 { return c.eps }

// Equal reports whether |a-b| ≤ eps.
func (c Comparator) Equal(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b { // covers equal infinities
		return true
	}

	return math.Abs(a-b) <= c.eps
}

// Compare returns 0 when a and b are equal within eps, -1 when a < b and +1
// when a > b. NaN sorts after every number, two NaNs compare equal.
func (c Comparator) Compare(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case c.Equal(a, b):
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether |v| ≤ eps.
func (c Comparator) IsZero(v float64) bool { return c.Equal(v, 0) }

// IsPositive reports whether v > eps.
func (c Comparator) IsPositive(v float64) bool { return c.Compare(v, 0) > 0 }

// IsNegative reports whether v < -eps.
func (c Comparator) IsNegative(v float64) bool { return c.Compare(v, 0) < 0 }

// Less reports whether a is strictly below b beyond the tolerance.
func (c Comparator) Less(a, b float64) bool { return c.Compare(a, b) < 0 }

// LessOrEqual reports whether a < b or a equals b within eps.
func (c Comparator) LessOrEqual(a, b float64) bool { return c.Compare(a, b) <= 0 }

// EqualSlices reports whether a and b have the same length and are
// element-wise equal within eps.
func (c Comparator) EqualSlices(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
