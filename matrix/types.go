// SPDX-License-Identifier: MIT

// Package matrix: the Matrix interface shared by dense and sparse storage.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Contract:
//   - At/Set never panic on bad indices; they return ErrOutOfRange.
//   - Clone returns an independent deep copy.
//
// Complexity notes: Rows/Cols/At/Set are expected O(1) (O(1) average for
// Sparse), Clone is O(stored entries).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid, ErrNaNInf under the
	// finite-only numeric policy.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}
