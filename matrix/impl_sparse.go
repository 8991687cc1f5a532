// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (dictionary of keys).
//
// Purpose:
//   - Hold matrices that are mostly zero (diagonal weight matrices, selector
//     matrices) without O(r*c) memory.
//   - Same safe surface as Dense: At/Set return errors, never panic.
//
// Determinism:
//   - Entries live in a map, so every kernel that walks a Sparse goes through
//     Entries(), which returns them sorted row-major.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// Sparse is a dictionary-of-keys matrix. Absent entries are zero; storing an
// exact zero removes the entry.
type Sparse struct {
	r, c           int
	entries        map[[2]int]float64
	validateNaNInf bool
}

var _ Matrix = (*Sparse)(nil)

// NewSparse returns an empty rows×cols sparse matrix. Zero-area shapes are legal.
//
// Errors:
//   - ErrInvalidDimensions for negative shapes.
func NewSparse(rows, cols int, opts ...Option) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	o := gatherOptions(opts...)

	return &Sparse{
		r:              rows,
		c:              cols,
		entries:        make(map[[2]int]float64),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// NewDiagonal returns the n×n sparse matrix diag(d), n = len(d).
//
// Errors:
//   - ErrNaNInf when d holds a non-finite value under the policy.
func NewDiagonal(d []float64, opts ...Option) (*Sparse, error) {
	s, err := NewSparse(len(d), len(d), opts...)
	if err != nil {
		return nil, err
	}
	for i, v := range d {
		if err = s.Set(i, i, v); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.c }

// At returns the entry at (i, j); absent entries read as zero.
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, fmt.Errorf("Sparse.At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return s.entries[[2]int{i, j}], nil
}

// Set stores v at (i, j). Storing 0 deletes the entry.
func (s *Sparse) Set(i, j int, v float64) error {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return fmt.Errorf("Sparse.Set(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if s.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return fmt.Errorf("Sparse.Set(%d,%d): %w", i, j, ErrNaNInf)
	}
	if v == 0 {
		delete(s.entries, [2]int{i, j})
		return nil
	}
	s.entries[[2]int{i, j}] = v

	return nil
}

// Clone returns a deep copy.
func (s *Sparse) Clone() Matrix {
	cp := make(map[[2]int]float64, len(s.entries))
	for k, v := range s.entries {
		cp[k] = v
	}

	return &Sparse{r: s.r, c: s.c, entries: cp, validateNaNInf: s.validateNaNInf}
}

// NNZ returns the number of stored (non-zero) entries.
func (s *Sparse) NNZ() int { return len(s.entries) }

// SparseEntry is one stored element of a Sparse matrix.
type SparseEntry struct {
	Row, Col int
	Value    float64
}

// Entries returns the stored entries sorted by (row, col).
// Complexity: O(nnz log nnz).
func (s *Sparse) Entries() []SparseEntry {
	out := make([]SparseEntry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, SparseEntry{Row: k[0], Col: k[1], Value: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Row != out[b].Row {
			return out[a].Row < out[b].Row
		}
		return out[a].Col < out[b].Col
	})

	return out
}

// ToDense materializes s.
func (s *Sparse) ToDense() *Dense {
	d, _ := newDenseZeroOK(s.r, s.c) // shape validated at construction
	d.validateNaNInf = s.validateNaNInf
	for k, v := range s.entries {
		d.data[k[0]*s.c+k[1]] = v
	}

	return d
}
