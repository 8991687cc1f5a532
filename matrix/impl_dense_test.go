// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the Dense and Sparse
// implementations of the Matrix interface.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstat/matrix"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	// zero-area is legal through NewZeros, negative never is
	z, err := matrix.NewZeros(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, z.Rows())
	assert.Equal(t, 5, z.Cols())

	_, err = matrix.NewZeros(-1, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
}

func TestSetRejectsNaNInfByDefault(t *testing.T) {
	m := MustDense(t, 1, 1)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	loose, err := matrix.NewDense(1, 1, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.Inf(-1)))
}

func TestNewDenseFrom(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFrom(2, 3, src)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0), "constructor must copy")
	assert.Equal(t, 6.0, MustAt(t, m, 1, 2))

	_, err = matrix.NewDenseFrom(2, 2, src)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.NewDenseRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	col, err := matrix.NewColumn([]float64{7, 8})
	require.NoError(t, err)
	assert.Equal(t, 2, col.Rows())
	assert.Equal(t, 1, col.Cols())
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 0, 0, 2})
	clone := m.Clone()
	MustSet(t, clone, 0, 0, 3.0)

	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 3.0, MustAt(t, clone, 0, 0))
}

func TestRawRowColAndData(t *testing.T) {
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	row, err := m.RawRow(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)

	col, err := m.RawCol(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, col)

	_, err = m.RawRow(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	data := m.Data()
	data[0] = -1
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
}

func TestViewAndInduced(t *testing.T) {
	m := NewFilledDense(t, 3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	v, err := m.View(1, 1, 2, 2)
	require.NoError(t, err)
	x, err := v.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, x)

	require.NoError(t, v.Set(0, 0, 50))
	assert.Equal(t, 50.0, MustAt(t, m, 1, 1), "view writes through")
	RequireClose(t, v.Materialize(), NewFilledDense(t, 2, 2, []float64{50, 6, 8, 9}), 0)

	_, err = m.View(2, 2, 2, 2)
	require.ErrorIs(t, err, matrix.ErrBadShape)

	ind, err := m.Induced([]int{2, 0}, []int{1})
	require.NoError(t, err)
	RequireClose(t, ind, NewFilledDense(t, 2, 1, []float64{8, 2}), 0)

	empty, err := m.Induced(nil, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())

	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestDoAndApply(t *testing.T) {
	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	var visited int
	m.Do(func(_, _ int, v float64) bool {
		visited++
		return v < 2
	})
	assert.Equal(t, 2, visited)

	require.NoError(t, m.Apply(func(i, j int, v float64) float64 { return v * 10 }))
	assert.Equal(t, 40.0, MustAt(t, m, 1, 1))

	err := m.Apply(func(_, _ int, _ float64) float64 { return math.NaN() })
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestSparse(t *testing.T) {
	s, err := matrix.NewSparse(3, 2)
	require.NoError(t, err)
	require.NoError(t, s.Set(2, 1, 5))
	require.NoError(t, s.Set(0, 0, 1))
	require.NoError(t, s.Set(1, 1, 0))
	assert.Equal(t, 2, s.NNZ())

	require.NoError(t, s.Set(0, 0, 0))
	assert.Equal(t, 1, s.NNZ(), "storing zero deletes")

	_, err = s.At(3, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, s.Set(0, 0, math.NaN()), matrix.ErrNaNInf)

	d, err := matrix.NewDiagonal([]float64{3, 0, 1})
	require.NoError(t, err)
	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, matrix.SparseEntry{Row: 0, Col: 0, Value: 3}, entries[0])
	assert.Equal(t, matrix.SparseEntry{Row: 2, Col: 2, Value: 1}, entries[1])

	RequireClose(t, d.ToDense(), NewFilledDense(t, 3, 3, []float64{3, 0, 0, 0, 0, 0, 0, 0, 1}), 0)

	cp := d.Clone()
	require.NoError(t, cp.Set(1, 1, 7))
	assert.Equal(t, 2, d.NNZ())
}
