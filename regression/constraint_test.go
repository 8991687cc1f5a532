// SPDX-License-Identifier: MIT
package regression_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/regression"
)

func TestNewConstraint_Validation(t *testing.T) {
	cases := []struct {
		name  string
		cname string
		value float64
		keys  []string
		coefs []float64
		want  error
	}{
		{"empty name", "", 1, []string{"a"}, []float64{1}, regression.ErrInvalidArgument},
		{"length mismatch", "c", 1, []string{"a", "b"}, []float64{1}, regression.ErrDimensionMismatch},
		{"no terms", "c", 1, nil, nil, regression.ErrInvalidArgument},
		{"all zero", "c", 1, []string{"a", "b"}, []float64{0, 0}, regression.ErrInvalidArgument},
		{"nan coefficient", "c", 1, []string{"a"}, []float64{math.NaN()}, regression.ErrInvalidArgument},
		{"inf value", "c", math.Inf(1), []string{"a"}, []float64{1}, regression.ErrInvalidArgument},
		{"duplicate key", "c", 1, []string{"a", "a"}, []float64{1, 2}, regression.ErrDuplicateKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := regression.NewConstraint(tc.cname, tc.value, tc.keys, tc.coefs)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestConstraint_Accessors(t *testing.T) {
	c, err := regression.NewConstraint("c", 3, []string{"x1", "x2"}, []float64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, "c", c.Name())
	assert.Equal(t, 3.0, c.Value())
	assert.Equal(t, []string{"x1", "x2"}, c.Keys())
	assert.Equal(t, 2, c.Len())
	v, ok := c.Coefficient("x2")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	_, ok = c.Coefficient("x3")
	assert.False(t, ok)

	terms := c.Terms()
	terms["x1"] = 99
	v, _ = c.Coefficient("x1")
	assert.Equal(t, 1.0, v, "Terms must return a copy")
}

func TestConstraint_Evaluate(t *testing.T) {
	c, err := regression.NewConstraint("c", 3, []string{"x2", "x1"}, []float64{2, 1})
	require.NoError(t, err)

	got, err := c.Evaluate([]string{"x0", "x1", "x2"}, []float64{10, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = c.Evaluate([]string{"x1"}, []float64{1, 2})
	require.ErrorIs(t, err, regression.ErrDimensionMismatch)
	_, err = c.Evaluate([]string{"x1"}, []float64{1})
	require.ErrorIs(t, err, regression.ErrUnknownKey)
}

func TestConstraintFromRow_SkipsZeroAndMissing(t *testing.T) {
	terms, err := frame.New([]string{"c"}, []string{"a", "b", "d"})
	require.NoError(t, err)
	require.NoError(t, terms.Set("c", "a", 1))
	require.NoError(t, terms.Set("c", "d", 0))

	c, err := regression.ConstraintFromRow[string](terms, "c", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, c.Keys())
	assert.Equal(t, "c", c.Name())

	_, err = regression.ConstraintFromRow[string](terms, "missing", 5)
	require.ErrorIs(t, err, regression.ErrUnknownKey)
}

func TestCategoryConstraint_SharesSumToOne(t *testing.T) {
	table := fixtureTable(t)
	weights := make([]float64, len(fixtureW))
	for i, w := range fixtureW {
		weights[i] = w / 2
	}

	c, err := regression.CategoryConstraint("make", []string{"Ford", "GM", "BMW"}, table, fixtureRows, weights)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Value())

	var sum float64
	for _, k := range c.Keys() {
		v, _ := c.Coefficient(k)
		assert.InDelta(t, 1.0/3, v, 1e-12, k)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCategoryConstraint_UnequalShares(t *testing.T) {
	table, err := frame.FromRows(
		[]string{"a", "b", "c"},
		[]string{"red", "blue"},
		[][]float64{{1, 0}, {1, 0}, {0, 1}},
	)
	require.NoError(t, err)

	c, err := regression.CategoryConstraint("colour", []string{"red", "blue"}, table, []string{"a", "b", "c"}, []float64{1, 1, 2})
	require.NoError(t, err)
	red, _ := c.Coefficient("red")
	blue, _ := c.Coefficient("blue")
	assert.InDelta(t, 0.5, red, 1e-15)
	assert.InDelta(t, 0.5, blue, 1e-15)

	c, err = regression.CategoryConstraint("colour", []string{"red", "blue"}, table, []string{"a", "b", "c"}, []float64{3, 0, 1})
	require.NoError(t, err)
	red, _ = c.Coefficient("red")
	assert.InDelta(t, 0.75, red, 1e-15)
}

func TestCategoryConstraint_Errors(t *testing.T) {
	table, err := frame.FromRows([]string{"a"}, []string{"red", "blue"}, [][]float64{{0, 0}})
	require.NoError(t, err)
	rows := []string{"a"}

	_, err = regression.CategoryConstraint("k", nil, table, rows, []float64{1})
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
	_, err = regression.CategoryConstraint("k", []string{"red"}, table, rows, []float64{1, 2})
	require.ErrorIs(t, err, regression.ErrDimensionMismatch)
	_, err = regression.CategoryConstraint("k", []string{"red"}, table, rows, []float64{-1})
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
	_, err = regression.CategoryConstraint("k", []string{"red", "blue"}, table, rows, []float64{1})
	require.ErrorIs(t, err, regression.ErrInvalidArgument, "zero total mass")
	_, err = regression.CategoryConstraint("k", []string{"green"}, table, rows, []float64{1})
	require.ErrorIs(t, err, regression.ErrUnknownKey)
}

func TestConstraintSet_RankDeficient(t *testing.T) {
	c1, err := regression.NewConstraint("c1", 3, []string{"x1", "x2"}, []float64{1, 2})
	require.NoError(t, err)
	c2, err := regression.NewConstraint("c2", 6, []string{"x1", "x2"}, []float64{2, 4})
	require.NoError(t, err)

	_, err = regression.NewConstraintSet(c1, c2)
	require.ErrorIs(t, err, regression.ErrRankDeficient)

	set, err := regression.NewConstraintSet(c1)
	require.NoError(t, err)
	_, err = set.With(c2)
	require.ErrorIs(t, err, regression.ErrRankDeficient)
}

func TestConstraintSet_MoreConstraintsThanKeys(t *testing.T) {
	c1, _ := regression.NewConstraint("c1", 1, []string{"a"}, []float64{1})
	c2, _ := regression.NewConstraint("c2", 2, []string{"a"}, []float64{3})

	_, err := regression.NewConstraintSet(c1, c2)
	require.ErrorIs(t, err, regression.ErrRankDeficient)
}

func TestConstraintSet_DuplicateName(t *testing.T) {
	c1, _ := regression.NewConstraint("c", 1, []string{"a"}, []float64{1})
	c2, _ := regression.NewConstraint("c", 2, []string{"b"}, []float64{1})

	_, err := regression.NewConstraintSet(c1, c2)
	require.ErrorIs(t, err, regression.ErrDuplicateKey)
}

func TestConstraintSet_Empty(t *testing.T) {
	set, err := regression.NewConstraintSet[string]()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.ConstraintValues())

	a, err := set.ConstraintMatrix([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Rows())
	assert.Equal(t, 2, a.Cols())
}

func TestConstraintSet_Matrix(t *testing.T) {
	c1, _ := regression.NewConstraint("c1", 3, []string{"x2", "x1"}, []float64{2, 1})
	c2, _ := regression.NewConstraint("c2", 0, []string{"x3"}, []float64{1})
	set, err := regression.NewConstraintSet(c1, c2)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, set.Names())
	assert.Equal(t, []string{"x2", "x1", "x3"}, set.ReferencedKeys())
	assert.True(t, set.Contains("c2"))
	got, ok := set.Get("c1")
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Value())
	assert.Equal(t, []float64{3, 0}, set.ConstraintValues())

	a, err := set.ConstraintMatrix([]string{"x0", "x1", "x2", "x3"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 0, 0, 0, 0, 1}, a.Data())

	_, err = set.ConstraintMatrix([]string{"x1", "x2"})
	require.ErrorIs(t, err, regression.ErrUnknownKey)
	_, err = set.ConstraintMatrix([]string{"x1", "x1", "x2", "x3"})
	require.ErrorIs(t, err, regression.ErrDuplicateKey)
}
