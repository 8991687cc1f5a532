// SPDX-License-Identifier: MIT

package regression

import (
	"fmt"

	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/svd"
	"github.com/katalvlaran/lvstat/worm"
)

const (
	opNewConstraintSet = "NewConstraintSet"
	opConstraintMatrix = "ConstraintSet.ConstraintMatrix"
)

// ConstraintSet is an ordered, full-row-rank collection of named constraints.
type ConstraintSet[C comparable] struct {
	constraints worm.Map[string, Constraint[C]]
	keys        []C // union of referenced keys, first-seen order
}

// NewConstraintSet validates and stores constraints in the given order.
//
// Implementation:
//   - Stage 1: register names (write-once) and collect the referenced keys.
//   - Stage 2: build the m×p' coefficient matrix over those keys.
//   - Stage 3: rank via thresholded SVD must equal m.
//
// Errors:
//   - ErrDuplicateKey: a name repeats.
//   - ErrRankDeficient: the constraints are linearly dependent, including
//     the case m > p'.
//
// Complexity: O(m·p'·min(m,p')).
func NewConstraintSet[C comparable](constraints ...Constraint[C]) (ConstraintSet[C], error) {
	b := worm.NewBuilder[string, Constraint[C]](len(constraints))
	seen := make(map[C]struct{})
	var keys []C
	for _, c := range constraints {
		if err := b.Put(c.Name(), c); err != nil {
			return ConstraintSet[C]{}, regressionErrorf(opNewConstraintSet, err)
		}
		for _, k := range c.Keys() {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	set := ConstraintSet[C]{constraints: b.Build(), keys: keys}
	if set.Len() == 0 {
		return set, nil
	}

	a, err := set.ConstraintMatrix(keys)
	if err != nil {
		return ConstraintSet[C]{}, regressionErrorf(opNewConstraintSet, err)
	}
	s, err := svd.NewSolver(a)
	if err != nil {
		return ConstraintSet[C]{}, regressionErrorf(opNewConstraintSet, err)
	}
	if rank := s.Rank(); rank < set.Len() {
		return ConstraintSet[C]{}, regressionErrorf(opNewConstraintSet,
			fmt.Errorf("rank %d for %d constraints over %d regressors: %w", rank, set.Len(), len(keys), ErrRankDeficient))
	}

	return set, nil
}

// Len returns the number of constraints.
func (s ConstraintSet[C]) Len() int { return s.constraints.Len() }

// Names returns the constraint names in order.
func (s ConstraintSet[C]) Names() []string { return s.constraints.Keys() }

// Constraints returns the constraints in order.
func (s ConstraintSet[C]) Constraints() []Constraint[C] { return s.constraints.Values() }

// Get returns the named constraint.
func (s ConstraintSet[C]) Get(name string) (Constraint[C], bool) { return s.constraints.Get(name) }

// Contains reports whether a constraint with this name exists.
func (s ConstraintSet[C]) Contains(name string) bool { return s.constraints.Contains(name) }

// ReferencedKeys returns the union of regressor keys the constraints use.
func (s ConstraintSet[C]) ReferencedKeys() []C {
	out := make([]C, len(s.keys))
	copy(out, s.keys)

	return out
}

// With returns a new set with c appended, re-running every validation.
func (s ConstraintSet[C]) With(c Constraint[C]) (ConstraintSet[C], error) {
	return NewConstraintSet(append(s.Constraints(), c)...)
}

// ConstraintMatrix returns the m×len(regressorKeys) coefficient matrix with
// columns in the caller's order and zeros for unreferenced regressors.
//
// Errors:
//   - ErrDuplicateKey: regressorKeys repeats a key.
//   - ErrUnknownKey: a constraint references a key not in regressorKeys.
func (s ConstraintSet[C]) ConstraintMatrix(regressorKeys []C) (*matrix.Dense, error) {
	pos := make(map[C]int, len(regressorKeys))
	for j, k := range regressorKeys {
		if _, dup := pos[k]; dup {
			return nil, regressionErrorf(opConstraintMatrix, fmt.Errorf("regressor %v: %w", k, ErrDuplicateKey))
		}
		pos[k] = j
	}
	out, err := matrix.NewZeros(s.Len(), len(regressorKeys))
	if err != nil {
		return nil, regressionErrorf(opConstraintMatrix, err)
	}
	for i, c := range s.Constraints() {
		for _, k := range c.Keys() {
			j, ok := pos[k]
			if !ok {
				return nil, regressionErrorf(opConstraintMatrix, fmt.Errorf("constraint %q regressor %v: %w", c.Name(), k, ErrUnknownKey))
			}
			v, _ := c.Coefficient(k)
			if err = out.Set(i, j, v); err != nil {
				return nil, regressionErrorf(opConstraintMatrix, err)
			}
		}
	}

	return out, nil
}

// ConstraintValues returns the right-hand sides in order (empty when m = 0).
func (s ConstraintSet[C]) ConstraintValues() []float64 {
	out := make([]float64, 0, s.Len())
	s.constraints.Range(func(_ string, c Constraint[C]) bool {
		out = append(out, c.Value())
		return true
	})

	return out
}
