// Package matrix provides the dense linear algebra used by lvstat.
//
// The matrix package provides:
//
//   - Dense (row-major) and Sparse (map-backed) implementations of Matrix,
//     with a finite-only value policy that Options can relax.
//   - Add, Sub, Mul, Transpose, Scale and MatVec with Dense fast paths and a
//     generic At/Set fallback for any Matrix.
//   - LU with partial pivoting, Solve, SolveVec and Inverse. A pivot at or
//     below n·ε·max|a_ij| is reported as ErrSingular.
//   - Block assembly of bordered systems from a grid of sub-matrices.
//   - ToGonum and FromGonum for handing data to gonum/mat.
//
// Zero-area results (0×n, n×0) are legal wherever they arise naturally, so a
// model with no constraints still yields a well-formed 0×p constraint matrix.
//
// Errors are sentinel values (ErrDimensionMismatch, ErrSingular, ...) wrapped
// with the failing operation; match them with errors.Is.
package matrix
