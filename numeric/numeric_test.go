// SPDX-License-Identifier: MIT
package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstat/numeric"
)

func TestNewComparator_RejectsBadEpsilon(t *testing.T) {
	for _, eps := range []float64{-1e-12, math.NaN(), math.Inf(1)} {
		_, err := numeric.NewComparator(eps)
		require.ErrorIs(t, err, numeric.ErrInvalidArgument, "eps=%g", eps)
	}
	c, err := numeric.NewComparator(0)
	require.NoError(t, err)
	require.Equal(t, 0.0, c.Epsilon())
}

func TestComparator_EqualAndCompare(t *testing.T) {
	c, err := numeric.NewComparator(1e-6)
	require.NoError(t, err)

	assert.True(t, c.Equal(1.0, 1.0+5e-7))
	assert.False(t, c.Equal(1.0, 1.0+2e-6))
	assert.True(t, c.Equal(math.Inf(1), math.Inf(1)))
	assert.False(t, c.Equal(math.NaN(), math.NaN()))

	assert.Equal(t, 0, c.Compare(2, 2+1e-7))
	assert.Equal(t, -1, c.Compare(1, 2))
	assert.Equal(t, 1, c.Compare(2, 1))
	assert.Equal(t, 1, c.Compare(math.NaN(), 1))
	assert.Equal(t, -1, c.Compare(1, math.NaN()))
	assert.Equal(t, 0, c.Compare(math.NaN(), math.NaN()))

	assert.True(t, c.IsZero(-1e-7))
	assert.True(t, c.IsPositive(1e-3))
	assert.False(t, c.IsPositive(1e-7))
	assert.True(t, c.IsNegative(-1e-3))
	assert.True(t, c.Less(1, 1.1))
	assert.False(t, c.Less(1, 1+1e-9))
	assert.True(t, c.LessOrEqual(1+1e-9, 1))
}

func TestComparator_EqualSlices(t *testing.T) {
	c := numeric.Default()
	assert.True(t, c.EqualSlices([]float64{1, 2}, []float64{1, 2 + 1e-10}))
	assert.False(t, c.EqualSlices([]float64{1, 2}, []float64{1}))
	assert.False(t, numeric.Exact().EqualSlices([]float64{1}, []float64{1 + 1e-12}))
}

func TestInterval(t *testing.T) {
	_, err := numeric.NewInterval(2, 1)
	require.ErrorIs(t, err, numeric.ErrInvalidArgument)
	_, err = numeric.NewInterval(math.NaN(), 1)
	require.ErrorIs(t, err, numeric.ErrInvalidArgument)

	iv, err := numeric.NewInterval(-1, 1)
	require.NoError(t, err)
	assert.True(t, iv.Contains(1))
	assert.False(t, iv.Contains(1.1))
	assert.False(t, iv.Contains(math.NaN()))
	assert.Equal(t, 2.0, iv.Width())
	assert.True(t, iv.ContainsWithin(1+1e-10, numeric.Default()))
	assert.Equal(t, "[-1, 1]", iv.String())

	require.NoError(t, numeric.NonNegative.Check("w", 3))
	require.ErrorIs(t, numeric.NonNegative.Check("w", -0.5), numeric.ErrInvalidArgument)
	require.ErrorIs(t, numeric.NonNegative.Check("w", math.Inf(1)), numeric.ErrInvalidArgument)
	assert.True(t, numeric.Probability.Contains(0.5))
}
