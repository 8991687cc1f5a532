// SPDX-License-Identifier: MIT
// Package: matrix
//
// Bridge to gonum's mat package. Factorizations that need LAPACK-grade
// kernels (SVD) run on *mat.Dense; everything else stays in this package.

package matrix

import (
	"gonum.org/v1/gonum/mat"
)

const (
	opToGonum   = "ToGonum"
	opFromGonum = "FromGonum"
)

// ToGonum copies m into a new *mat.Dense.
//
// Errors:
//   - ErrNilMatrix.
//   - ErrInvalidDimensions for zero-area input (gonum cannot represent it).
func ToGonum(m Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}
	if m.Rows() == 0 || m.Cols() == 0 {
		return nil, matrixErrorf(opToGonum, ErrInvalidDimensions)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opToGonum, err)
	}

	// d is a fresh copy, so its buffer can back the gonum matrix directly.
	return mat.NewDense(d.r, d.c, d.data), nil
}

// FromGonum copies any gonum matrix into a new *Dense.
//
// Errors:
//   - ErrNilMatrix when a is nil.
func FromGonum(a mat.Matrix) (*Dense, error) {
	if a == nil {
		return nil, matrixErrorf(opFromGonum, ErrNilMatrix)
	}
	r, c := a.Dims()
	out, err := newDenseZeroOK(r, c)
	if err != nil {
		return nil, matrixErrorf(opFromGonum, err)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = a.At(i, j)
		}
	}

	return out, nil
}
