// SPDX-License-Identifier: MIT

// Package svd solves A·X = B for possibly singular, near-singular or
// non-square A through a thresholded singular value decomposition
// A = U·diag(w)·Vᵀ.
//
// The decomposition is computed once by NewSolver and never changes. The
// singular-value threshold is the only mutable state on a Solver, so callers
// can sweep thresholds without paying for a new O(n³) factorization.
//
// Kernels in this package never log; failures travel through errors.
package svd

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/numeric"
)

var (
	// ErrFactorization is returned when the underlying SVD fails to converge.
	ErrFactorization = errors.New("svd: factorization failed")

	// ErrInvalidArgument is returned for malformed thresholds or empty inputs.
	ErrInvalidArgument = numeric.ErrInvalidArgument
)

const (
	opNewSolver    = "svd.NewSolver"
	opSetThreshold = "svd.SetThreshold"
	opSolve        = "svd.Solve"
	opPinv         = "svd.PseudoInverse"
)

func svdErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Option configures a Solver at construction.
type Option func(*options)

type options struct {
	threshold    float64
	hasThreshold bool
}

// WithThreshold overrides the default singular-value threshold.
// The value is validated by NewSolver.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
		o.hasThreshold = true
	}
}

func gatherOptions(opts ...Option) options {
	var o options
	for _, set := range opts {
		set(&o)
	}

	return o
}

// Solver holds one full SVD of an m×n coefficient matrix.
//
// A Solver is not safe for concurrent use when SetThreshold races with
// readers; independent Solvers share nothing.
type Solver struct {
	m, n      int
	values    []float64 // min(m,n) singular values, decreasing
	u         *mat.Dense
	v         *mat.Dense
	threshold float64
}

// DefaultThreshold returns 0.5·sqrt(m+n+1)·wmax·ε, clamped below at ε so the
// result is always a legal threshold.
func DefaultThreshold(m, n int, wmax float64) float64 {
	t := 0.5 * math.Sqrt(float64(m+n+1)) * wmax * numeric.MachineEpsilon
	if !(t >= numeric.MachineEpsilon) { // also catches NaN
		return numeric.MachineEpsilon
	}

	return t
}

// validateThreshold enforces: finite and ≥ ε.
func validateThreshold(t float64) error {
	if !numeric.IsFinite(t) || t < numeric.MachineEpsilon {
		return fmt.Errorf("threshold %g must be finite and >= %g: %w", t, numeric.MachineEpsilon, ErrInvalidArgument)
	}

	return nil
}

// NewSolver decomposes a once.
//
// Implementation:
//   - Stage 1: reject nil, zero-area and non-finite input.
//   - Stage 2: full SVD through gonum (U is m×m, V is n×n).
//   - Stage 3: resolve the threshold (option or DefaultThreshold).
//
// Errors:
//   - matrix.ErrNilMatrix, ErrInvalidArgument (empty input, bad threshold),
//     matrix.ErrNaNInf, ErrFactorization.
//
// Complexity: O(m·n·min(m,n)).
func NewSolver(a matrix.Matrix, opts ...Option) (*Solver, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, svdErrorf(opNewSolver, err)
	}
	m, n := a.Rows(), a.Cols()
	if m == 0 || n == 0 {
		return nil, svdErrorf(opNewSolver, fmt.Errorf("empty %dx%d matrix: %w", m, n, ErrInvalidArgument))
	}
	g, err := matrix.ToGonum(a)
	if err != nil {
		return nil, svdErrorf(opNewSolver, err)
	}
	if err = matrix.ValidateFinite(g.RawMatrix().Data); err != nil {
		return nil, svdErrorf(opNewSolver, err)
	}

	var f mat.SVD
	if ok := f.Factorize(g, mat.SVDFull); !ok {
		return nil, svdErrorf(opNewSolver, ErrFactorization)
	}
	s := &Solver{m: m, n: n, values: f.Values(nil), u: new(mat.Dense), v: new(mat.Dense)}
	f.UTo(s.u)
	f.VTo(s.v)

	o := gatherOptions(opts...)
	if o.hasThreshold {
		if err = validateThreshold(o.threshold); err != nil {
			return nil, svdErrorf(opNewSolver, err)
		}
		s.threshold = o.threshold
	} else {
		s.threshold = DefaultThreshold(m, n, s.maxValue())
	}

	return s, nil
}

func (s *Solver) maxValue() float64 {
	if len(s.values) == 0 {
		return 0
	}

	return floats.Max(s.values)
}

// Dims returns the shape of the decomposed matrix.
func (s *Solver) Dims() (m, n int) { return s.m, s.n }

// Threshold returns the current singular-value threshold.
func (s *Solver) Threshold() float64 { return s.threshold }

// SetThreshold replaces the threshold without refactorizing.
//
// Errors:
//   - ErrInvalidArgument when t is non-finite or below machine epsilon;
//     the previous threshold is kept.
func (s *Solver) SetThreshold(t float64) error {
	if err := validateThreshold(t); err != nil {
		return svdErrorf(opSetThreshold, err)
	}
	s.threshold = t

	return nil
}

// Values returns a copy of the singular values in decreasing order.
func (s *Solver) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)

	return out
}

// Rank returns the number of singular values strictly above the threshold.
func (s *Solver) Rank() int {
	r := 0
	for _, w := range s.values {
		if w > s.threshold {
			r++
		}
	}

	return r
}

// InvertSingularValues returns the n×m matrix Σ⁺ whose (k,k) entry is 1/w_k
// when w_k exceeds the threshold and 0 otherwise.
func (s *Solver) InvertSingularValues() *matrix.Dense {
	out, _ := matrix.NewZeros(s.n, s.m) // m,n > 0 checked at construction
	for k, w := range s.values {
		if w > s.threshold {
			_ = out.Set(k, k, 1/w)
		}
	}

	return out
}

// pinv computes V·Σ⁺·Uᵀ on gonum storage.
func (s *Solver) pinv() *mat.Dense {
	inv := mat.NewDense(s.n, s.m, nil)
	for k, w := range s.values {
		if w > s.threshold {
			inv.Set(k, k, 1/w)
		}
	}
	var vs, out mat.Dense
	vs.Mul(s.v, inv)
	out.Mul(&vs, s.u.T())

	return &out
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse V·Σ⁺·Uᵀ (n×m)
// under the current threshold.
func (s *Solver) PseudoInverse() (*matrix.Dense, error) {
	out, err := matrix.FromGonum(s.pinv())
	if err != nil {
		return nil, svdErrorf(opPinv, err)
	}

	return out, nil
}

// Solve returns X = V·Σ⁺·Uᵀ·B for one or more right-hand-side columns.
//
// Errors:
//   - matrix.ErrNilMatrix; matrix.ErrDimensionMismatch when B.Rows() != m.
func (s *Solver) Solve(b matrix.Matrix) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, svdErrorf(opSolve, err)
	}
	if b.Rows() != s.m {
		return nil, svdErrorf(opSolve, fmt.Errorf("rhs has %d rows, want %d: %w", b.Rows(), s.m, matrix.ErrDimensionMismatch))
	}
	pinv, err := s.PseudoInverse()
	if err != nil {
		return nil, svdErrorf(opSolve, err)
	}
	x, err := matrix.Mul(pinv, b)
	if err != nil {
		return nil, svdErrorf(opSolve, err)
	}

	return x, nil
}

// SolveVec is Solve for a single right-hand side.
func (s *Solver) SolveVec(b []float64) ([]float64, error) {
	if len(b) != s.m {
		return nil, svdErrorf(opSolve, fmt.Errorf("rhs has %d entries, want %d: %w", len(b), s.m, matrix.ErrDimensionMismatch))
	}
	pinv, err := s.PseudoInverse()
	if err != nil {
		return nil, svdErrorf(opSolve, err)
	}
	x, err := matrix.MatVec(pinv, b)
	if err != nil {
		return nil, svdErrorf(opSolve, err)
	}

	return x, nil
}
