// SPDX-License-Identifier: MIT

package regression

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/numeric"
	"github.com/katalvlaran/lvstat/worm"
)

const (
	opBuildSystem = "BuildSystem"
	opAssemble    = "System.assemble"
)

// System is the assembled, read-only normal-equation system of one model
// over one observation table:
//
//	M = [[XᵀWX, Aᵀ], [A, 0]]   v = [XᵀWy; c]
//
// Accessors return copies.
type System[R, C comparable] struct {
	model       Model[C]
	rows        []R
	regressors  []C
	x           *matrix.Dense // n×p
	y           []float64
	w           []float64 // renormalized
	constraints ConstraintSet[C]
	a           *matrix.Dense // m×p
	c           []float64
	xtwx        *matrix.Dense
	xtwy        []float64
	aug         *matrix.Dense
	augVec      []float64
}

// BuildSystem assembles the system over every table row whose regressand is
// finite (missing values are NaN).
//
// Errors:
//   - ErrUnknownKey: the regressand column is absent.
//   - plus every error of BuildSystemFor.
func BuildSystem[R, C comparable](model Model[C], table frame.Table[R, C]) (*System[R, C], error) {
	var rows []R
	for _, r := range table.RowKeys() {
		v, err := table.Double(r, model.Regressand())
		if err != nil {
			return nil, regressionErrorf(opBuildSystem, err)
		}
		if numeric.IsFinite(v) {
			rows = append(rows, r)
		}
	}

	return BuildSystemFor(model, table, rows)
}

// BuildSystemFor assembles the system over an explicit row subset.
//
// Implementation:
//   - Stage 1: read X (n×p) and y; every value must be finite.
//   - Stage 2: read and renormalize weights so Σw equals the count of
//     strictly positive weights.
//   - Stage 3: resolve constraints (categories use the weights) into A, c.
//   - Stage 4: XᵀWX, XᵀWy and the bordered augmented system.
//
// Errors:
//   - ErrNoObservations: no rows, or every weight is zero.
//   - ErrDuplicateKey: a row repeats.
//   - ErrUnknownKey: a row or column is absent from the table.
//   - ErrInvalidArgument: a non-finite value or a negative weight.
//   - ErrRankDeficient: the resolved constraints are linearly dependent.
//
// Complexity: O(n·p² + (p+m)²).
func BuildSystemFor[R, C comparable](model Model[C], table frame.Table[R, C], rows []R) (*System[R, C], error) {
	if len(rows) == 0 {
		return nil, regressionErrorf(opBuildSystem, ErrNoObservations)
	}
	rb := worm.NewBuilder[R, struct{}](len(rows))
	for _, r := range rows {
		if err := rb.Put(r, struct{}{}); err != nil {
			return nil, regressionErrorf(opBuildSystem, err)
		}
	}

	s := &System[R, C]{
		model:      model,
		rows:       cloneKeys(rows),
		regressors: model.Regressors(),
	}
	if err := s.readObservations(table); err != nil {
		return nil, regressionErrorf(opBuildSystem, err)
	}
	if err := s.readWeights(table); err != nil {
		return nil, regressionErrorf(opBuildSystem, err)
	}
	set, err := constraintSet(model, table, s.rows, s.w)
	if err != nil {
		return nil, regressionErrorf(opBuildSystem, err)
	}
	s.constraints = set
	if s.a, err = set.ConstraintMatrix(s.regressors); err != nil {
		return nil, regressionErrorf(opBuildSystem, err)
	}
	s.c = set.ConstraintValues()
	if err = s.assemble(); err != nil {
		return nil, regressionErrorf(opBuildSystem, err)
	}

	return s, nil
}

func (s *System[R, C]) readObservations(table frame.Table[R, C]) error {
	n, p := len(s.rows), len(s.regressors)
	x, err := matrix.NewZeros(n, p)
	if err != nil {
		return err
	}
	y := make([]float64, n)
	regressand := s.model.Regressand()
	for i, r := range s.rows {
		if y[i], err = finiteCell(table, r, regressand); err != nil {
			return err
		}
		for j, k := range s.regressors {
			v, err := finiteCell(table, r, k)
			if err != nil {
				return err
			}
			_ = x.Set(i, j, v) // finite and in range
		}
	}
	s.x, s.y = x, y

	return nil
}

func finiteCell[R, C comparable](table frame.Table[R, C], r R, k C) (float64, error) {
	v, err := table.Double(r, k)
	if err != nil {
		return 0, err
	}
	if !numeric.IsFinite(v) {
		return 0, fmt.Errorf("value at (%v, %v) is %g: %w", r, k, v, ErrInvalidArgument)
	}

	return v, nil
}

// readWeights fills s.w and rescales it to sum to the positive-weight count.
// Zero weights stay zero.
func (s *System[R, C]) readWeights(table frame.Table[R, C]) error {
	w := make([]float64, len(s.rows))
	key, ok := s.model.Weight()
	positive := 0
	for i, r := range s.rows {
		if !ok {
			w[i] = 1
		} else {
			v, err := finiteCell(table, r, key)
			if err != nil {
				return err
			}
			if err = numeric.NonNegative.Check(fmt.Sprintf("weight at %v", r), v); err != nil {
				return err
			}
			w[i] = v
		}
		if w[i] > 0 {
			positive++
		}
	}
	if positive == 0 {
		return fmt.Errorf("every weight is zero: %w", ErrNoObservations)
	}
	floats.Scale(float64(positive)/floats.Sum(w), w)
	s.w = w

	return nil
}

// assemble computes the weighted cross products and the bordered system.
func (s *System[R, C]) assemble() error {
	wd, err := matrix.NewDiagonal(s.w)
	if err != nil {
		return regressionErrorf(opAssemble, err)
	}
	xt, err := matrix.Transpose(s.x)
	if err != nil {
		return regressionErrorf(opAssemble, err)
	}
	wx, err := matrix.Mul(wd, s.x)
	if err != nil {
		return regressionErrorf(opAssemble, err)
	}
	if s.xtwx, err = matrix.Mul(xt, wx); err != nil {
		return regressionErrorf(opAssemble, err)
	}
	wy := make([]float64, len(s.y))
	floats.MulTo(wy, s.w, s.y)
	if s.xtwy, err = matrix.MatVec(xt, wy); err != nil {
		return regressionErrorf(opAssemble, err)
	}

	m := s.a.Rows()
	at, err := matrix.Transpose(s.a)
	if err != nil {
		return regressionErrorf(opAssemble, err)
	}
	zero, err := matrix.NewZeros(m, m)
	if err != nil {
		return regressionErrorf(opAssemble, err)
	}
	if s.aug, err = matrix.Block([][]matrix.Matrix{
		{s.xtwx, at},
		{s.a, zero},
	}); err != nil {
		return regressionErrorf(opAssemble, err)
	}
	s.augVec = append(append(make([]float64, 0, len(s.xtwy)+m), s.xtwy...), s.c...)

	return nil
}

func cloneDense(d *matrix.Dense) *matrix.Dense { return d.Clone().(*matrix.Dense) }

func cloneFloats(v []float64) []float64 { return append([]float64(nil), v...) }

func cloneKeys[K comparable](keys []K) []K { return append([]K(nil), keys...) }

// Model returns the model the system was built from.
func (s *System[R, C]) Model() Model[C] { return s.model }

// Constraints returns the resolved constraint set (category shares weighted).
func (s *System[R, C]) Constraints() ConstraintSet[C] { return s.constraints }

// ObservationKeys returns the row keys in system order.
func (s *System[R, C]) ObservationKeys() []R { return cloneKeys(s.rows) }

// RegressorKeys returns the regressor keys in column order.
func (s *System[R, C]) RegressorKeys() []C { return cloneKeys(s.regressors) }

// ConstraintNames returns the constraint names in row order of A.
func (s *System[R, C]) ConstraintNames() []string { return s.constraints.Names() }

// X returns the n×p design matrix.
func (s *System[R, C]) X() *matrix.Dense { return cloneDense(s.x) }

// Y returns the regressand vector.
func (s *System[R, C]) Y() []float64 { return cloneFloats(s.y) }

// Weights returns the renormalized weight vector.
func (s *System[R, C]) Weights() []float64 { return cloneFloats(s.w) }

// ConstraintMatrix returns A (m×p) with resolved category shares.
func (s *System[R, C]) ConstraintMatrix() *matrix.Dense { return cloneDense(s.a) }

// ConstraintValues returns c.
func (s *System[R, C]) ConstraintValues() []float64 { return cloneFloats(s.c) }

// CrossProduct returns XᵀWX (p×p).
func (s *System[R, C]) CrossProduct() *matrix.Dense { return cloneDense(s.xtwx) }

// WeightedRegressand returns XᵀWy.
func (s *System[R, C]) WeightedRegressand() []float64 { return cloneFloats(s.xtwy) }

// AugmentedMatrix returns M ((p+m)×(p+m)).
func (s *System[R, C]) AugmentedMatrix() *matrix.Dense { return cloneDense(s.aug) }

// AugmentedVector returns v = [XᵀWy; c].
func (s *System[R, C]) AugmentedVector() []float64 { return cloneFloats(s.augVec) }
