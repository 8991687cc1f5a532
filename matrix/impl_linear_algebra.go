// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation,
// including element-wise addition, subtraction, matrix multiplication,
// transpose, scalar scaling and LU-based solving. All functions perform strict
// fail-fast validation and return clear errors on dimension mismatches.
//
// Notes:
//   - Kernels use the central validators and wrap failures via matrixErrorf.
//   - Results are always fresh *Dense values; operands are never mutated.
//   - Zero-area operands are legal (e.g. a 0×p constraint block) and produce
//     zero-area results.

package matrix

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvstat/numeric"
)

// ZeroSum is the initial sum value for accumulations and substitutions.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opInverse   = "Inverse"
	opLU        = "LU"
	opSolve     = "Solve"
	opMatVec    = "MatVec"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// Fast path: both *Dense → single flat loop; otherwise At with fixed i→j order.
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	rows, cols := a.Rows(), a.Cols()
	res, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for k := range res.data {
				res.data[k] = da.data[k] + sign*db.data[k]
			}
			return res, nil
		}
	}

	var av, bv float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, err)
			}
			res.data[i*cols+j] = av + sign*bv
		}
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: pick a kernel:
//     *Dense × *Dense  → i→k→j with row-major strides, zero A[i,k] skipped;
//     *Sparse × *Dense → one row-axpy per stored entry of A;
//     otherwise        → i→j→k via At with zero-skip on A[i,k].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Determinism:
//   - Fixed loop orders; Sparse entries are visited in row-major order.
//
// Complexity:
//   - Dense: Time O(r*n*c). Sparse left operand: Time O(nnz(A)*c). Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := newDenseZeroOK(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, j, k int
	if db, okB := b.(*Dense); okB {
		switch A := a.(type) {
		case *Dense:
			var rowA, rowB, rowR int
			var av float64
			for i = 0; i < aRows; i++ {
				rowA = i * aCols
				rowR = i * bCols
				for k = 0; k < aCols; k++ {
					av = A.data[rowA+k]
					if av == 0 {
						continue
					}
					rowB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowR+j] += av * db.data[rowB+j]
					}
				}
			}
			return res, nil
		case *Sparse:
			for _, e := range A.Entries() {
				rowR := e.Row * bCols
				rowB := e.Col * bCols
				for j = 0; j < bCols; j++ {
					res.data[rowR+j] += e.Value * db.data[rowB+j]
				}
			}
			return res, nil
		}
	}

	// Fallback: generic interface triple-loop (i-j-k)
	var av, bv, current float64
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				current += av * bv
			}
			res.data[i*bCols+j] = current
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := newDenseZeroOK(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		for i = 0; i < rows; i++ {
			base := i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[base+j]
			}
		}
		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// Scale returns a new matrix whose elements are alpha * m[i,j].
//
// Errors:
//   - ErrNilMatrix; ErrNaNInf when alpha is not finite.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if !numeric.IsFinite(alpha) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	res, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for k := range res.data {
		res.data[k] *= alpha
	}

	return res, nil
}

// MatVec computes y = m * x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	if d, ok := m.(*Dense); ok {
		var acc float64
		for i := 0; i < rows; i++ {
			acc = ZeroSum
			base := i * cols
			for j := 0; j < cols; j++ {
				if x[j] != 0 {
					acc += d.data[base+j] * x[j]
				}
			}
			y[i] = acc
		}
		return y, nil
	}

	var mv float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// toDense returns a fresh *Dense copy of any Matrix.
func toDense(m Matrix) (*Dense, error) {
	switch t := m.(type) {
	case *Dense:
		return t.clone(), nil
	case *Sparse:
		return t.ToDense(), nil
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			res.data[i*cols+j] = v
		}
	}

	return res, nil
}

// AsDense returns m itself when it already is a *Dense, otherwise a dense copy.
func AsDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}

	return toDense(m)
}

// ---------- LU with partial pivoting ----------

// LUFactors holds a packed LU factorization P·A = L·U of a square matrix:
// the strict lower triangle of lu is L (unit diagonal implied), the upper
// triangle is U, and perm[i] is the row of A that became row i.
type LUFactors struct {
	n    int
	lu   *Dense
	perm []int
	sign float64
}

// singularPivotTol is the pivot threshold n·ε on the equilibrated matrix,
// whose entries are all below 1 in magnitude.
func singularPivotTol(n int) float64 {
	return float64(n) * numeric.MachineEpsilon
}

// pow2Recip returns the power of two 2^-e with x = f·2^e, f ∈ [0.5, 1).
// Zero maps to 1 so an all-zero row or column keeps a zero scale.
func pow2Recip(x float64) float64 {
	if x == 0 || !numeric.IsFinite(x) {
		return 1
	}
	_, e := math.Frexp(x)

	return math.Ldexp(1, -e)
}

// equilibrate returns row scales r and column scales c, all powers of two,
// such that every |r_i·a_ij·c_j| < 1 and each nonzero row and column of R·A·C
// has an entry of magnitude at least 1/2.
func equilibrate(a *Dense) (r, c []float64) {
	n := a.c
	r = make([]float64, a.r)
	c = make([]float64, n)
	var mx float64
	for i := 0; i < a.r; i++ {
		mx = 0
		for _, v := range a.data[i*n : (i+1)*n] {
			mx = math.Max(mx, math.Abs(v))
		}
		r[i] = pow2Recip(mx)
	}
	for j := 0; j < n; j++ {
		mx = 0
		for i := 0; i < a.r; i++ {
			mx = math.Max(mx, r[i]*math.Abs(a.data[i*n+j]))
		}
		c[j] = pow2Recip(mx)
	}

	return r, c
}

// LU computes the Doolittle factorization with scaled partial (row) pivoting.
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); copy into a working Dense.
//   - Stage 2: Compute power-of-two row and column scales r, c (equilibrate).
//   - Stage 3: For k=0..n-1 pick the row with the largest r_i·|A[i,k]|
//     (i ≥ k, first index wins on ties), swap it into place, eliminate below.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch,
//   - ErrSingular when the scaled pivot r_p·|A[p,k]|·c_k is ≤ n·ε.
//
// Determinism:
//   - Fixed k→i→j order; tie-breaking by lowest row index.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - Pivoting is required for saddle-point (KKT) matrices whose trailing
//     diagonal block is zero; plain Doolittle would stop at the first zero pivot.
//   - Scales are exact powers of two and only steer pivot choice and the
//     singular test; the factors are those of A itself. Rescaling rows or
//     columns of A by powers of two changes neither the pivot order nor the
//     outcome of the singular test.
func LU(m Matrix) (*LUFactors, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	a, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	n := a.r
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	r, c := equilibrate(a)
	tol := singularPivotTol(n)
	sign := 1.0

	var i, j, k, p int
	var pivot, f float64
	d := a.data
	for k = 0; k < n; k++ {
		// pivot search in column k, rows weighted by their scale
		p = k
		pivot = r[k] * math.Abs(d[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := r[i] * math.Abs(d[i*n+k]); v > pivot {
				p, pivot = i, v
			}
		}
		if pivot*c[k] <= tol {
			return nil, matrixErrorf(opLU, fmt.Errorf("pivot %d: %w", k, ErrSingular))
		}
		if p != k {
			for j = 0; j < n; j++ {
				d[k*n+j], d[p*n+j] = d[p*n+j], d[k*n+j]
			}
			r[k], r[p] = r[p], r[k]
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		// eliminate below the pivot
		for i = k + 1; i < n; i++ {
			f = d[i*n+k] / d[k*n+k]
			d[i*n+k] = f
			if f == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				d[i*n+j] -= f * d[k*n+j]
			}
		}
	}

	return &LUFactors{n: n, lu: a, perm: perm, sign: sign}, nil
}

// L returns the unit lower-triangular factor.
func (f *LUFactors) L() *Dense {
	out, _ := newDenseZeroOK(f.n, f.n)
	for i := 0; i < f.n; i++ {
		for j := 0; j < i; j++ {
			out.data[i*f.n+j] = f.lu.data[i*f.n+j]
		}
		out.data[i*f.n+i] = 1
	}

	return out
}

// U returns the upper-triangular factor.
func (f *LUFactors) U() *Dense {
	out, _ := newDenseZeroOK(f.n, f.n)
	for i := 0; i < f.n; i++ {
		for j := i; j < f.n; j++ {
			out.data[i*f.n+j] = f.lu.data[i*f.n+j]
		}
	}

	return out
}

// Perm returns a copy of the row permutation: row i of P·A is row Perm()[i] of A.
func (f *LUFactors) Perm() []int {
	out := make([]int, len(f.perm))
	copy(out, f.perm)

	return out
}

// Det returns the determinant of the factorized matrix.
func (f *LUFactors) Det() float64 {
	det := f.sign
	for i := 0; i < f.n; i++ {
		det *= f.lu.data[i*f.n+i]
	}

	return det
}

// SolveVec solves A·x = b for one right-hand side.
//
// Errors:
//   - ErrDimensionMismatch when len(b) != n.
func (f *LUFactors) SolveVec(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := f.n
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = b[f.perm[i]]
	}
	d := f.lu.data
	var sum float64
	// forward: L·y = P·b (unit diagonal)
	for i := 0; i < n; i++ {
		sum = x[i]
		for k := 0; k < i; k++ {
			sum -= d[i*n+k] * x[k]
		}
		x[i] = sum
	}
	// backward: U·x = y
	for i := n - 1; i >= 0; i-- {
		sum = x[i]
		for k := i + 1; k < n; k++ {
			sum -= d[i*n+k] * x[k]
		}
		x[i] = sum / d[i*n+i]
	}

	return x, nil
}

// Solve solves A·X = B column by column.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when B.Rows() != n.
func (f *LUFactors) Solve(b Matrix) (*Dense, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if b.Rows() != f.n {
		return nil, matrixErrorf(opSolve, ErrDimensionMismatch)
	}
	bd, err := AsDense(b)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	cols := bd.c
	res, err := newDenseZeroOK(f.n, cols)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	for j := 0; j < cols; j++ {
		col, _ := bd.RawCol(j)
		x, err := f.SolveVec(col)
		if err != nil {
			return nil, err
		}
		for i, v := range x {
			res.data[i*cols+j] = v
		}
	}

	return res, nil
}

// Solve solves the square system A·X = B via partial-pivoting LU.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
//
// Complexity: O(n^3 + n^2·k) for k right-hand sides.
func Solve(a, b Matrix) (*Dense, error) {
	f, err := LU(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return f.Solve(b)
}

// SolveVec solves the square system A·x = b via partial-pivoting LU.
func SolveVec(a Matrix, b []float64) ([]float64, error) {
	f, err := LU(a)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return f.SolveVec(b)
}

// Inverse computes A^{-1} by solving A·X = I with one LU factorization.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
//
// Complexity: Time O(n^3), Space O(n^2).
//
// Notes:
//   - If you only need A^{-1}·b, call Solve; forming the inverse costs more
//     and loses accuracy.
func Inverse(m Matrix) (*Dense, error) {
	f, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	id, err := NewIdentity(f.n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	inv, err := f.Solve(id)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	return inv, nil
}
