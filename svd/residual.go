// SPDX-License-Identifier: MIT

package svd

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/numeric"
)

// perturbation is the relative step used by IsLeastSquaresSolution.
const perturbation = 0.01

// ComputeResidual returns r = A·x − b.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch.
func ComputeResidual(a matrix.Matrix, x, b []float64) ([]float64, error) {
	ax, err := matrix.MatVec(a, x)
	if err != nil {
		return nil, fmt.Errorf("svd.ComputeResidual: %w", err)
	}
	if len(b) != len(ax) {
		return nil, fmt.Errorf("svd.ComputeResidual: rhs has %d entries, want %d: %w", len(b), len(ax), matrix.ErrDimensionMismatch)
	}
	floats.Sub(ax, b)

	return ax, nil
}

// ComputeRSS returns ‖A·x − b‖².
func ComputeRSS(a matrix.Matrix, x, b []float64) (float64, error) {
	r, err := ComputeResidual(a, x, b)
	if err != nil {
		return 0, err
	}

	return floats.Dot(r, r), nil
}

// IsExactSolution reports whether A is square and A·x equals b within cmp.
func IsExactSolution(a matrix.Matrix, x, b []float64, cmp numeric.Comparator) (bool, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return false, err
	}
	if a.Rows() != a.Cols() {
		return false, nil
	}
	ax, err := matrix.MatVec(a, x)
	if err != nil {
		return false, err
	}
	if len(b) != len(ax) {
		return false, fmt.Errorf("svd.IsExactSolution: %w", matrix.ErrDimensionMismatch)
	}

	return cmp.EqualSlices(ax, b), nil
}

// IsLeastSquaresSolution perturbs each component of x by ±1% and reports
// whether the residual sum of squares never drops below the RSS at x by more
// than cmp's tolerance. It is an oracle for tests, not a solver.
func IsLeastSquaresSolution(a matrix.Matrix, x, b []float64, cmp numeric.Comparator) (bool, error) {
	base, err := ComputeRSS(a, x, b)
	if err != nil {
		return false, err
	}
	trial := make([]float64, len(x))
	for k := range x {
		for _, sign := range [2]float64{+1, -1} {
			copy(trial, x)
			trial[k] += sign * perturbation * x[k]
			rss, err := ComputeRSS(a, trial, b)
			if err != nil {
				return false, err
			}
			if cmp.Less(rss, base) {
				return false, nil
			}
		}
	}

	return true, nil
}
