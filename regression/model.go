// SPDX-License-Identifier: MIT

package regression

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/worm"
)

const (
	opBuild         = "Build"
	opWithWeight    = "Model.WithWeight"
	opAddConstraint = "Model.AddConstraint"
	opAddCategory   = "Model.AddCategory"
	opResolve       = "Model.constraintSet"
)

// declaration is one named model constraint: either an explicit linear
// equality or a category whose weighted shares are resolved per system.
type declaration[C comparable] struct {
	explicit Constraint[C]
	category []C
}

func (d declaration[C]) isCategory() bool { return d.category != nil }

// Model describes a constrained regression problem. It is a persistent value:
// every With/Add operation returns a new Model and leaves the receiver intact.
type Model[C comparable] struct {
	regressand   C
	regressors   worm.Map[C, int]
	weight       C
	hasWeight    bool
	declarations worm.Map[string, declaration[C]]
}

// Build returns a model with no weight and no constraints.
//
// Errors:
//   - ErrInvalidArgument: no regressors.
//   - ErrDuplicateKey: a regressor repeats.
//   - ErrRegressandInRegressors.
func Build[C comparable](regressand C, regressors []C) (Model[C], error) {
	if len(regressors) == 0 {
		return Model[C]{}, regressionErrorf(opBuild, fmt.Errorf("no regressors: %w", ErrInvalidArgument))
	}
	b := worm.NewBuilder[C, int](len(regressors))
	for i, k := range regressors {
		if k == regressand {
			return Model[C]{}, regressionErrorf(opBuild, fmt.Errorf("%v: %w", k, ErrRegressandInRegressors))
		}
		if err := b.Put(k, i); err != nil {
			return Model[C]{}, regressionErrorf(opBuild, err)
		}
	}

	return Model[C]{regressand: regressand, regressors: b.Build()}, nil
}

// WithWeight returns a copy of m that reads observation weights from key.
//
// Errors:
//   - ErrInvalidArgument: key is the regressand or a regressor.
func (m Model[C]) WithWeight(key C) (Model[C], error) {
	if key == m.regressand || m.regressors.Contains(key) {
		return m, regressionErrorf(opWithWeight, fmt.Errorf("weight %v is already a model variable: %w", key, ErrInvalidArgument))
	}
	out := m
	out.weight, out.hasWeight = key, true

	return out, nil
}

// AddConstraint adds the explicit constraint held in the single row of
// terms (row key = constraint name, columns = regressor coefficients).
//
// Errors:
//   - ErrInvalidArgument: terms does not hold exactly one row.
//   - plus every error of WithConstraint.
func (m Model[C]) AddConstraint(terms frame.Table[string, C], value float64) (Model[C], error) {
	rows := terms.RowKeys()
	if len(rows) != 1 {
		return m, regressionErrorf(opAddConstraint, fmt.Errorf("%d coefficient rows, want 1: %w", len(rows), ErrInvalidArgument))
	}
	c, err := ConstraintFromRow(terms, rows[0], value)
	if err != nil {
		return m, regressionErrorf(opAddConstraint, err)
	}

	return m.WithConstraint(c)
}

// WithConstraint adds a prebuilt explicit constraint.
//
// Errors:
//   - ErrDuplicateKey: the name is taken.
//   - ErrUnknownKey: the constraint references a non-regressor.
//   - ErrRankDeficient: it is linearly dependent on the explicit
//     constraints already present.
func (m Model[C]) WithConstraint(c Constraint[C]) (Model[C], error) {
	for _, k := range c.Keys() {
		if !m.regressors.Contains(k) {
			return m, regressionErrorf(opAddConstraint, fmt.Errorf("constraint %q regressor %v: %w", c.Name(), k, ErrUnknownKey))
		}
	}
	explicit := []Constraint[C]{c}
	m.declarations.Range(func(_ string, d declaration[C]) bool {
		if !d.isCategory() {
			explicit = append(explicit, d.explicit)
		}
		return true
	})
	if _, err := NewConstraintSet(explicit...); err != nil {
		return m, regressionErrorf(opAddConstraint, err)
	}

	return m.declare(c.Name(), declaration[C]{explicit: c}, opAddConstraint)
}

// AddCategory declares a category constraint over indicator regressors.
// Its terms are the weighted category shares, resolved when a System is built.
//
// Errors:
//   - ErrInvalidArgument: empty name or no keys.
//   - ErrDuplicateKey: the name is taken or a key repeats.
//   - ErrUnknownKey: a key is not a regressor.
func (m Model[C]) AddCategory(name string, keys []C) (Model[C], error) {
	if name == "" || len(keys) == 0 {
		return m, regressionErrorf(opAddCategory, fmt.Errorf("category %q with %d keys: %w", name, len(keys), ErrInvalidArgument))
	}
	seen := make(map[C]struct{}, len(keys))
	for _, k := range keys {
		if !m.regressors.Contains(k) {
			return m, regressionErrorf(opAddCategory, fmt.Errorf("category %q regressor %v: %w", name, k, ErrUnknownKey))
		}
		if _, dup := seen[k]; dup {
			return m, regressionErrorf(opAddCategory, fmt.Errorf("category %q regressor %v: %w", name, k, ErrDuplicateKey))
		}
		seen[k] = struct{}{}
	}
	cp := make([]C, len(keys))
	copy(cp, keys)

	return m.declare(name, declaration[C]{category: cp}, opAddCategory)
}

func (m Model[C]) declare(name string, d declaration[C], tag string) (Model[C], error) {
	next, err := m.declarations.With(name, d)
	if err != nil {
		return m, regressionErrorf(tag, err)
	}
	out := m
	out.declarations = next

	return out, nil
}

// Regressand returns the dependent variable key.
func (m Model[C]) Regressand() C { return m.regressand }

// Regressors returns the regressor keys in model order.
func (m Model[C]) Regressors() []C { return m.regressors.Keys() }

// Weight returns the weight column key, if any.
func (m Model[C]) Weight() (C, bool) { return m.weight, m.hasWeight }

// ContainsRegressor reports whether key is a regressor.
func (m Model[C]) ContainsRegressor(key C) bool { return m.regressors.Contains(key) }

// ContainsConstraint reports whether a constraint with this name exists.
func (m Model[C]) ContainsConstraint(name string) bool { return m.declarations.Contains(name) }

// IsCategory reports whether the named constraint is a category constraint.
func (m Model[C]) IsCategory(name string) bool {
	d, ok := m.declarations.Get(name)
	return ok && d.isCategory()
}

// CountRegressors returns p.
func (m Model[C]) CountRegressors() int { return m.regressors.Len() }

// CountConstraints returns m.
func (m Model[C]) CountConstraints() int { return m.declarations.Len() }

// ConstraintKeys returns the constraint names in declaration order.
func (m Model[C]) ConstraintKeys() []string { return m.declarations.Keys() }

// Constraint returns the named constraint. Category constraints are reported
// with equal shares 1/k.
func (m Model[C]) Constraint(name string) (Constraint[C], bool) {
	d, ok := m.declarations.Get(name)
	if !ok {
		return Constraint[C]{}, false
	}
	c, err := d.unweighted(name)

	return c, err == nil
}

func (d declaration[C]) unweighted(name string) (Constraint[C], error) {
	if d.isCategory() {
		return equalShareConstraint(name, d.category)
	}

	return d.explicit, nil
}

// ConstraintValues returns the right-hand sides in declaration order
// (empty when there are no constraints).
func (m Model[C]) ConstraintValues() []float64 {
	out := make([]float64, 0, m.declarations.Len())
	m.declarations.Range(func(_ string, d declaration[C]) bool {
		if d.isCategory() {
			out = append(out, 0)
		} else {
			out = append(out, d.explicit.Value())
		}
		return true
	})

	return out
}

// ConstraintMatrix returns the m×p coefficient matrix in regressor order, with
// category rows at equal shares. With no constraints it is 0×p.
func (m Model[C]) ConstraintMatrix() *matrix.Dense {
	out, _ := matrix.NewZeros(m.declarations.Len(), m.regressors.Len()) // shapes are non-negative
	i := 0
	m.declarations.Range(func(name string, d declaration[C]) bool {
		c, err := d.unweighted(name)
		if err == nil {
			c.terms.Range(func(k C, v float64) bool {
				j, _ := m.regressors.Get(k) // keys validated on insert
				_ = out.Set(i, j, v)
				return true
			})
		}
		i++
		return true
	})

	return out
}

// constraintSet resolves every declaration against the observations in rows,
// weighted by weights, and validates the result as a ConstraintSet.
func constraintSet[R, C comparable](m Model[C], table frame.Table[R, C], rows []R, weights []float64) (ConstraintSet[C], error) {
	resolved := make([]Constraint[C], 0, m.declarations.Len())
	var err error
	m.declarations.Range(func(name string, d declaration[C]) bool {
		var c Constraint[C]
		if d.isCategory() {
			c, err = CategoryConstraint(name, d.category, table, rows, weights)
		} else {
			c = d.explicit
		}
		if err != nil {
			return false
		}
		resolved = append(resolved, c)
		return true
	})
	if err != nil {
		return ConstraintSet[C]{}, regressionErrorf(opResolve, err)
	}
	set, err := NewConstraintSet(resolved...)
	if err != nil {
		return ConstraintSet[C]{}, regressionErrorf(opResolve, err)
	}

	return set, nil
}

// Fingerprint returns a stable 64-bit xxHash digest of the model structure:
// regressand, regressors, weight and every constraint declaration. Two models
// with equal fingerprints describe the same problem. Keys are hashed through
// their %v formatting.
func (m Model[C]) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeKey := func(tag string, k any) {
		_, _ = d.WriteString(tag)
		_, _ = d.WriteString(fmt.Sprintf("%v", k))
		_, _ = d.WriteString("\x00")
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}

	writeKey("y:", m.regressand)
	m.regressors.Range(func(k C, _ int) bool {
		writeKey("x:", k)
		return true
	})
	if m.hasWeight {
		writeKey("w:", m.weight)
	}
	m.declarations.Range(func(name string, decl declaration[C]) bool {
		if decl.isCategory() {
			writeKey("cat:", name)
			for _, k := range decl.category {
				writeKey("k:", k)
			}
			return true
		}
		writeKey("eq:", name)
		writeFloat(decl.explicit.Value())
		decl.explicit.terms.Range(func(k C, v float64) bool {
			writeKey("k:", k)
			writeFloat(v)
			return true
		})
		return true
	})

	return d.Sum64()
}
