// SPDX-License-Identifier: MIT

package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/numeric"
	"github.com/katalvlaran/lvstat/worm"
)

const (
	opNewConstraint      = "NewConstraint"
	opConstraintFromRow  = "ConstraintFromRow"
	opCategoryConstraint = "CategoryConstraint"
)

// Constraint is the named linear equality Σ terms[k]·β[k] = value.
// A Constraint is immutable.
type Constraint[C comparable] struct {
	name  string
	value float64
	terms worm.Map[C, float64]
}

// NewConstraint builds a constraint from parallel key and coefficient slices.
//
// Errors:
//   - ErrInvalidArgument: empty name, no terms, no non-zero coefficient,
//     or a non-finite coefficient or value.
//   - ErrDimensionMismatch: len(keys) != len(coefs).
//   - ErrDuplicateKey: a key repeats.
func NewConstraint[C comparable](name string, value float64, keys []C, coefs []float64) (Constraint[C], error) {
	var zero Constraint[C]
	if name == "" {
		return zero, regressionErrorf(opNewConstraint, fmt.Errorf("empty name: %w", ErrInvalidArgument))
	}
	if len(keys) != len(coefs) {
		return zero, regressionErrorf(opNewConstraint, fmt.Errorf("%q: %d keys, %d coefficients: %w", name, len(keys), len(coefs), ErrDimensionMismatch))
	}
	if !numeric.IsFinite(value) {
		return zero, regressionErrorf(opNewConstraint, fmt.Errorf("%q: value %g: %w", name, value, ErrInvalidArgument))
	}
	nonZero := false
	for i, v := range coefs {
		if !numeric.IsFinite(v) {
			return zero, regressionErrorf(opNewConstraint, fmt.Errorf("%q: coefficient of %v is %g: %w", name, keys[i], v, ErrInvalidArgument))
		}
		nonZero = nonZero || v != 0
	}
	if !nonZero {
		return zero, regressionErrorf(opNewConstraint, fmt.Errorf("%q has no non-zero term: %w", name, ErrInvalidArgument))
	}
	terms, err := worm.FromPairs(keys, coefs)
	if err != nil {
		return zero, regressionErrorf(opNewConstraint, fmt.Errorf("%q: %w", name, err))
	}

	return Constraint[C]{name: name, value: value, terms: terms}, nil
}

// ConstraintFromRow reads one row of a coefficient table as a constraint
// named after the row key. Zero and missing (NaN) cells are not terms.
func ConstraintFromRow[C comparable](table frame.Table[string, C], row string, value float64) (Constraint[C], error) {
	var (
		keys  []C
		coefs []float64
	)
	for _, col := range table.ColKeys() {
		v, err := table.Double(row, col)
		if err != nil {
			return Constraint[C]{}, regressionErrorf(opConstraintFromRow, err)
		}
		if v == 0 || math.IsNaN(v) {
			continue
		}
		keys = append(keys, col)
		coefs = append(coefs, v)
	}
	c, err := NewConstraint(row, value, keys, coefs)
	if err != nil {
		return Constraint[C]{}, regressionErrorf(opConstraintFromRow, err)
	}

	return c, nil
}

// CategoryConstraint builds the identifying constraint for a set of
// category indicator regressors: the weighted sum of their coefficients is 0.
//
// Implementation:
//   - Stage 1: mass_k = Σ_i w_i·x_ik over the given rows.
//   - Stage 2: terms[k] = mass_k / Σ_k mass_k, so the terms sum to 1.
//
// Errors:
//   - ErrInvalidArgument: no keys, a negative or non-finite weight, a
//     non-finite indicator, or zero total mass.
//   - ErrDimensionMismatch: len(weights) != len(rows).
//   - ErrDuplicateKey, ErrUnknownKey.
//
// Complexity: O(len(rows)·len(keys)).
func CategoryConstraint[R, C comparable](name string, keys []C, table frame.Table[R, C], rows []R, weights []float64) (Constraint[C], error) {
	var zero Constraint[C]
	if len(keys) == 0 {
		return zero, regressionErrorf(opCategoryConstraint, fmt.Errorf("%q: no category keys: %w", name, ErrInvalidArgument))
	}
	if len(weights) != len(rows) {
		return zero, regressionErrorf(opCategoryConstraint, fmt.Errorf("%q: %d weights for %d rows: %w", name, len(weights), len(rows), ErrDimensionMismatch))
	}
	for i, w := range weights {
		if !numeric.NonNegative.Contains(w) || !numeric.IsFinite(w) {
			return zero, regressionErrorf(opCategoryConstraint, fmt.Errorf("%q: weight of %v is %g: %w", name, rows[i], w, ErrInvalidArgument))
		}
	}

	mass := make([]float64, len(keys))
	for k, key := range keys {
		for i, row := range rows {
			if weights[i] == 0 {
				continue
			}
			x, err := table.Double(row, key)
			if err != nil {
				return zero, regressionErrorf(opCategoryConstraint, err)
			}
			if !numeric.IsFinite(x) {
				return zero, regressionErrorf(opCategoryConstraint, fmt.Errorf("%q: indicator %v at %v is %g: %w", name, key, row, x, ErrInvalidArgument))
			}
			mass[k] += weights[i] * x
		}
	}
	total := floats.Sum(mass)
	if total == 0 || !numeric.IsFinite(total) {
		return zero, regressionErrorf(opCategoryConstraint, fmt.Errorf("%q: total category weight is %g: %w", name, total, ErrInvalidArgument))
	}
	floats.Scale(1/total, mass)

	return NewConstraint(name, 0, keys, mass)
}

// equalShareConstraint is the unweighted category identity: every key gets 1/k.
func equalShareConstraint[C comparable](name string, keys []C) (Constraint[C], error) {
	shares := make([]float64, len(keys))
	for i := range shares {
		shares[i] = 1 / float64(len(keys))
	}

	return NewConstraint(name, 0, keys, shares)
}

// Name returns the constraint name.
func (c Constraint[C]) Name() string { return c.name }

// Value returns the right-hand side.
func (c Constraint[C]) Value() float64 { return c.value }

// Keys returns the referenced regressor keys in declaration order.
func (c Constraint[C]) Keys() []C { return c.terms.Keys() }

// Len returns the number of terms.
func (c Constraint[C]) Len() int { return c.terms.Len() }

// Coefficient returns the coefficient of key, or false when key is not a term.
func (c Constraint[C]) Coefficient(key C) (float64, bool) { return c.terms.Get(key) }

// Terms returns a copy of the coefficient mapping.
func (c Constraint[C]) Terms() map[C]float64 {
	out := make(map[C]float64, c.terms.Len())
	c.terms.Range(func(k C, v float64) bool {
		out[k] = v
		return true
	})

	return out
}

// Evaluate returns Σ terms[k]·β[k] for coefficients beta aligned to keys.
//
// Errors:
//   - ErrDimensionMismatch, ErrUnknownKey (a term key not in keys).
func (c Constraint[C]) Evaluate(keys []C, beta []float64) (float64, error) {
	if len(keys) != len(beta) {
		return 0, fmt.Errorf("Evaluate %q: %w", c.name, ErrDimensionMismatch)
	}
	pos := make(map[C]int, len(keys))
	for i, k := range keys {
		pos[k] = i
	}
	var sum float64
	var err error
	c.terms.Range(func(k C, v float64) bool {
		i, ok := pos[k]
		if !ok {
			err = fmt.Errorf("Evaluate %q: regressor %v: %w", c.name, k, ErrUnknownKey)
			return false
		}
		sum += v * beta[i]
		return true
	})

	return sum, err
}
