// SPDX-License-Identifier: MIT

package regression

import (
	"github.com/katalvlaran/lvstat/frame"
)

// Column labels of the result tables.
const (
	ColumnBeta     = "Beta"
	ColumnDual     = "Dual"
	ColumnFitted   = "Fitted"
	ColumnResidual = "Residual"
	ColumnLeverage = "Leverage"
)

// Result is the immutable output of one solve.
type Result[R, C comparable] struct {
	regressors   []C
	constraints  []string
	observations []R
	beta         []float64
	duals        []float64
	fitted       []float64
	residuals    []float64
	rss          float64
	fingerprint  uint64
	minimumNorm  bool
}

// column builds a one-column labeled table. Keys are unique by construction,
// so the constructor cannot fail.
func column[K comparable](keys []K, label string, values []float64) *frame.Frame[K, string] {
	f, _ := frame.FromColumn(keys, label, values)
	return f
}

func lookup[K comparable](keys []K, values []float64, key K) (float64, bool) {
	for i, k := range keys {
		if k == key {
			return values[i], true
		}
	}

	return 0, false
}

// Beta returns the p×1 coefficient table labeled by regressor key.
func (r *Result[R, C]) Beta() *frame.Frame[C, string] {
	return column(r.regressors, ColumnBeta, r.beta)
}

// DualValues returns the m×1 Lagrange-multiplier table labeled by constraint name.
func (r *Result[R, C]) DualValues() *frame.Frame[string, string] {
	return column(r.constraints, ColumnDual, r.duals)
}

// FittedValues returns the n×1 table of X·β labeled by observation key.
func (r *Result[R, C]) FittedValues() *frame.Frame[R, string] {
	return column(r.observations, ColumnFitted, r.fitted)
}

// Residuals returns the n×1 table of y − X·β labeled by observation key.
func (r *Result[R, C]) Residuals() *frame.Frame[R, string] {
	return column(r.observations, ColumnResidual, r.residuals)
}

// BetaVector returns a copy of β in regressor order.
func (r *Result[R, C]) BetaVector() []float64 { return cloneFloats(r.beta) }

// DualVector returns a copy of λ in constraint order.
func (r *Result[R, C]) DualVector() []float64 { return cloneFloats(r.duals) }

// FittedVector returns a copy of the fitted values in observation order.
func (r *Result[R, C]) FittedVector() []float64 { return cloneFloats(r.fitted) }

// ResidualVector returns a copy of the residuals in observation order.
func (r *Result[R, C]) ResidualVector() []float64 { return cloneFloats(r.residuals) }

// Coefficient returns β for one regressor.
func (r *Result[R, C]) Coefficient(key C) (float64, bool) { return lookup(r.regressors, r.beta, key) }

// Dual returns λ for one constraint.
func (r *Result[R, C]) Dual(name string) (float64, bool) { return lookup(r.constraints, r.duals, name) }

// WeightedRSS returns Σ w_i·(y_i − x_iᵀβ)² under the renormalized weights.
func (r *Result[R, C]) WeightedRSS() float64 { return r.rss }

// Fingerprint returns the fingerprint of the solved model.
func (r *Result[R, C]) Fingerprint() uint64 { return r.fingerprint }

// MinimumNorm reports whether the direct solve failed and the result is the
// minimum-norm pseudo-inverse solution.
func (r *Result[R, C]) MinimumNorm() bool { return r.minimumNorm }
