// SPDX-License-Identifier: MIT
// Package matrix - public API facades.
//
// Purpose:
//   - Provide thin entry points for common constructors.
//   - Each facade delegates to the canonical implementation.
//
// Notes:
//   - Facades never change the loop orders or numeric policy of underlying kernels.
//   - Unlike NewDense, the facades below accept zero-area shapes so callers can
//     build empty constraint or observation blocks.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Zero-area shapes are allowed; negative shapes return ErrInvalidDimensions.
func NewZeros(rows, cols int) (*Dense, error) {
	return newDenseZeroOK(rows, cols)
}

// NewIdentity returns I_n (n×n identity). NewIdentity(0) is the empty matrix.
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := newDenseZeroOK(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// CloneMatrix returns a structural clone of m.
func CloneMatrix(m Matrix) Matrix {
	return m.Clone()
}

// ZerosLike returns a new zero matrix with the same shape as m.
func ZerosLike(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}

	return newDenseZeroOK(m.Rows(), m.Cols())
}

// IdentityLike returns I with dimension = Rows(m); requires square shape.
func IdentityLike(m Matrix) (*Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, err
	}

	return NewIdentity(m.Rows())
}
