// SPDX-License-Identifier: MIT
// Package: matrix
//
// Block composition of a grid of matrices into one Dense.

package matrix

import "fmt"

const opBlock = "Block"

// Block assembles a grid of sub-matrices into a single *Dense:
//
//	Block([][]Matrix{{A, B}, {C, D}}) = [[A, B], [C, D]]
//
// Every block in grid row bi must share one row count, and every block in grid
// column bj must share one column count. Zero-area blocks are legal and take
// part in the shape checks like any other block, so an empty constraint block
// (0×p) stacks cleanly under a p×p block.
//
// Errors:
//   - ErrBadShape when the grid is empty or ragged.
//   - ErrNilMatrix when a block is nil.
//   - ErrDimensionMismatch when row or column counts disagree.
//
// Complexity: Time O(R*C) over the assembled shape.
func Block(grid [][]Matrix) (*Dense, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, matrixErrorf(opBlock, ErrBadShape)
	}
	nbc := len(grid[0])
	heights := make([]int, len(grid))
	widths := make([]int, nbc)

	for bi, row := range grid {
		if len(row) != nbc {
			return nil, matrixErrorf(opBlock, fmt.Errorf("grid row %d: %w", bi, ErrBadShape))
		}
		for bj, m := range row {
			if err := ValidateNotNil(m); err != nil {
				return nil, matrixErrorf(opBlock, fmt.Errorf("block (%d,%d): %w", bi, bj, err))
			}
			if bj == 0 {
				heights[bi] = m.Rows()
			} else if m.Rows() != heights[bi] {
				return nil, matrixErrorf(opBlock, fmt.Errorf("block (%d,%d) rows: %w", bi, bj, ErrDimensionMismatch))
			}
			if bi == 0 {
				widths[bj] = m.Cols()
			} else if m.Cols() != widths[bj] {
				return nil, matrixErrorf(opBlock, fmt.Errorf("block (%d,%d) cols: %w", bi, bj, ErrDimensionMismatch))
			}
		}
	}

	total := func(xs []int) int {
		s := 0
		for _, x := range xs {
			s += x
		}
		return s
	}
	rows, cols := total(heights), total(widths)
	out, err := newDenseZeroOK(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opBlock, err)
	}

	r0 := 0
	for bi, row := range grid {
		c0 := 0
		for bj, m := range row {
			if err = copyInto(out, m, r0, c0); err != nil {
				return nil, matrixErrorf(opBlock, fmt.Errorf("block (%d,%d): %w", bi, bj, err))
			}
			c0 += widths[bj]
		}
		r0 += heights[bi]
	}

	return out, nil
}

// copyInto writes src into dst starting at (r0, c0).
func copyInto(dst *Dense, src Matrix, r0, c0 int) error {
	rows, cols := src.Rows(), src.Cols()
	switch s := src.(type) {
	case *Dense:
		for i := 0; i < rows; i++ {
			copy(dst.data[(r0+i)*dst.c+c0:(r0+i)*dst.c+c0+cols], s.data[i*cols:(i+1)*cols])
		}
		return nil
	case *Sparse:
		for _, e := range s.Entries() {
			dst.data[(r0+e.Row)*dst.c+c0+e.Col] = e.Value
		}
		return nil
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := src.At(i, j)
			if err != nil {
				return err
			}
			dst.data[(r0+i)*dst.c+c0+j] = v
		}
	}

	return nil
}
