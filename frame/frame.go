// SPDX-License-Identifier: MIT

// Package frame is the small labeled-table layer the regression engine reads
// observations from and reports results through.
//
// A Table is anything that can enumerate its row and column keys and return a
// float64 for a (row, column) pair. Frame is the concrete in-memory Table:
// write-once key indexes over a row-major matrix.Dense. Missing values are NaN.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/worm"
)

// ErrUnknownKey is returned when a row or column key is not present.
var ErrUnknownKey = errors.New("frame: unknown key")

// Table is the read-only view the regression engine consumes.
type Table[R, C comparable] interface {
	// RowKeys returns the row keys in table order.
	RowKeys() []R
	// ColKeys returns the column keys in table order.
	ColKeys() []C
	// Double returns the value at (row, col), or ErrUnknownKey.
	Double(row R, col C) (float64, error)
}

// Frame is a labeled float64 table with unique row and column keys.
type Frame[R, C comparable] struct {
	rows worm.Map[R, int]
	cols worm.Map[C, int]
	data *matrix.Dense
}

var _ Table[string, string] = (*Frame[string, string])(nil)

func indexMap[K comparable](keys []K) (worm.Map[K, int], error) {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}

	return worm.FromPairs(keys, idx)
}

// New returns a rows×cols frame filled with NaN (missing).
//
// Errors:
//   - worm.ErrDuplicateKey when a row or column key repeats.
func New[R, C comparable](rows []R, cols []C) (*Frame[R, C], error) {
	rm, err := indexMap(rows)
	if err != nil {
		return nil, fmt.Errorf("frame.New: rows: %w", err)
	}
	cm, err := indexMap(cols)
	if err != nil {
		return nil, fmt.Errorf("frame.New: cols: %w", err)
	}
	data, err := matrix.NewDenseFrom(len(rows), len(cols), make([]float64, len(rows)*len(cols)), matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("frame.New: %w", err)
	}
	f := &Frame[R, C]{rows: rm, cols: cm, data: data}
	f.fill(math.NaN())

	return f, nil
}

// FromRows builds a frame from row-major values, one slice per row key.
//
// Errors:
//   - worm.ErrDuplicateKey, matrix.ErrDimensionMismatch (ragged or wrong count).
func FromRows[R, C comparable](rows []R, cols []C, values [][]float64) (*Frame[R, C], error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("frame.FromRows: %d value rows for %d keys: %w", len(values), len(rows), matrix.ErrDimensionMismatch)
	}
	f, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i, row := range values {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("frame.FromRows: row %d has %d values, want %d: %w", i, len(row), len(cols), matrix.ErrDimensionMismatch)
		}
		for j, v := range row {
			f.setAt(i, j, v)
		}
	}

	return f, nil
}

// FromColumn builds a single-column frame labeled by rows.
func FromColumn[R, C comparable](rows []R, col C, values []float64) (*Frame[R, C], error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("frame.FromColumn: %d values for %d keys: %w", len(values), len(rows), matrix.ErrDimensionMismatch)
	}
	f, err := New(rows, []C{col})
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		f.setAt(i, 0, v)
	}

	return f, nil
}

func (f *Frame[R, C]) fill(v float64) {
	_ = f.data.Apply(func(_, _ int, _ float64) float64 { return v }) // storage accepts NaN
}

// setAt writes through storage built without the finite-only policy, so
// missing values (NaN) are legal. Indexes are resolved by the caller.
func (f *Frame[R, C]) setAt(i, j int, v float64) {
	_ = f.data.Set(i, j, v)
}

// RowKeys returns a copy of the row keys in order.
func (f *Frame[R, C]) RowKeys() []R { return f.rows.Keys() }

// ColKeys returns a copy of the column keys in order.
func (f *Frame[R, C]) ColKeys() []C { return f.cols.Keys() }

// RowCount returns the number of rows.
func (f *Frame[R, C]) RowCount() int { return f.rows.Len() }

// ColCount returns the number of columns.
func (f *Frame[R, C]) ColCount() int { return f.cols.Len() }

// ContainsRow reports whether key is a row key.
func (f *Frame[R, C]) ContainsRow(key R) bool { return f.rows.Contains(key) }

// ContainsColumn reports whether key is a column key.
func (f *Frame[R, C]) ContainsColumn(key C) bool { return f.cols.Contains(key) }

func (f *Frame[R, C]) index(row R, col C) (int, int, error) {
	i, ok := f.rows.Get(row)
	if !ok {
		return 0, 0, fmt.Errorf("row %v: %w", row, ErrUnknownKey)
	}
	j, ok := f.cols.Get(col)
	if !ok {
		return 0, 0, fmt.Errorf("column %v: %w", col, ErrUnknownKey)
	}

	return i, j, nil
}

// Double returns the value at (row, col).
func (f *Frame[R, C]) Double(row R, col C) (float64, error) {
	i, j, err := f.index(row, col)
	if err != nil {
		return math.NaN(), fmt.Errorf("frame.Double: %w", err)
	}

	return f.data.At(i, j)
}

// Set stores v at (row, col). NaN marks a missing value.
func (f *Frame[R, C]) Set(row R, col C, v float64) error {
	i, j, err := f.index(row, col)
	if err != nil {
		return fmt.Errorf("frame.Set: %w", err)
	}
	f.setAt(i, j, v)

	return nil
}

// Column returns a copy of the values in column col, in row order.
func (f *Frame[R, C]) Column(col C) ([]float64, error) {
	j, ok := f.cols.Get(col)
	if !ok {
		return nil, fmt.Errorf("frame.Column %v: %w", col, ErrUnknownKey)
	}

	return f.data.RawCol(j)
}

// Row returns a copy of the values in row, in column order.
func (f *Frame[R, C]) Row(row R) ([]float64, error) {
	i, ok := f.rows.Get(row)
	if !ok {
		return nil, fmt.Errorf("frame.Row %v: %w", row, ErrUnknownKey)
	}

	return f.data.RawRow(i)
}

// Select returns a new frame restricted to rows and cols, in the given order.
//
// Errors:
//   - ErrUnknownKey, worm.ErrDuplicateKey.
func (f *Frame[R, C]) Select(rows []R, cols []C) (*Frame[R, C], error) {
	ri := make([]int, len(rows))
	for k, r := range rows {
		i, ok := f.rows.Get(r)
		if !ok {
			return nil, fmt.Errorf("frame.Select: row %v: %w", r, ErrUnknownKey)
		}
		ri[k] = i
	}
	ci := make([]int, len(cols))
	for k, c := range cols {
		j, ok := f.cols.Get(c)
		if !ok {
			return nil, fmt.Errorf("frame.Select: column %v: %w", c, ErrUnknownKey)
		}
		ci[k] = j
	}
	out, err := New(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("frame.Select: %w", err)
	}
	if out.data, err = f.data.Induced(ri, ci); err != nil {
		return nil, fmt.Errorf("frame.Select: %w", err)
	}

	return out, nil
}

// Matrix returns a copy of the values as a row-major matrix.
func (f *Frame[R, C]) Matrix() *matrix.Dense {
	return f.data.Clone().(*matrix.Dense)
}

// String renders the frame with its keys, one row per line.
func (f *Frame[R, C]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v\n", f.cols.Keys())
	f.rows.Range(func(r R, i int) bool {
		row, _ := f.data.RawRow(i)
		fmt.Fprintf(&sb, "%v %v\n", r, row)
		return true
	})

	return sb.String()
}
