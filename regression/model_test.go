// SPDX-License-Identifier: MIT
package regression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/regression"
)

func TestBuild_Errors(t *testing.T) {
	_, err := regression.Build("y", []string{})
	require.ErrorIs(t, err, regression.ErrInvalidArgument)

	_, err = regression.Build("y", []string{"a", "b", "a"})
	require.ErrorIs(t, err, regression.ErrDuplicateKey)

	_, err = regression.Build("y", []string{"a", "y"})
	require.ErrorIs(t, err, regression.ErrRegressandInRegressors)
}

func TestModel_Queries(t *testing.T) {
	m := fixtureModel(t)

	assert.Equal(t, "y", m.Regressand())
	assert.Equal(t, fixtureRegressors, m.Regressors())
	w, ok := m.Weight()
	assert.True(t, ok)
	assert.Equal(t, "w", w)
	assert.True(t, m.ContainsRegressor("GM"))
	assert.False(t, m.ContainsRegressor("y"))
	assert.Equal(t, 7, m.CountRegressors())
	assert.Equal(t, 2, m.CountConstraints())
	assert.Equal(t, []string{slopeConstraint, makeCategory}, m.ConstraintKeys())
	assert.True(t, m.ContainsConstraint(makeCategory))
	assert.True(t, m.IsCategory(makeCategory))
	assert.False(t, m.IsCategory(slopeConstraint))
	assert.False(t, m.IsCategory("nope"))
	assert.Equal(t, []float64{3, 0}, m.ConstraintValues())

	slope, ok := m.Constraint(slopeConstraint)
	require.True(t, ok)
	assert.Equal(t, []string{"x1", "x2"}, slope.Keys())
	_, ok = m.Constraint("nope")
	assert.False(t, ok)

	a := m.ConstraintMatrix()
	assert.Equal(t, 2, a.Rows())
	assert.Equal(t, 7, a.Cols())
	row, err := a.RawRow(1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0, 1.0 / 3, 1.0 / 3, 1.0 / 3}, row, 1e-15)
}

func TestModel_IsPersistent(t *testing.T) {
	base, err := regression.Build("y", []string{"a", "b"})
	require.NoError(t, err)

	weighted, err := base.WithWeight("w")
	require.NoError(t, err)
	c, err := regression.NewConstraint("c", 1, []string{"a"}, []float64{1})
	require.NoError(t, err)
	constrained, err := weighted.WithConstraint(c)
	require.NoError(t, err)

	_, ok := base.Weight()
	assert.False(t, ok)
	assert.Equal(t, 0, base.CountConstraints())
	assert.Equal(t, 0, weighted.CountConstraints())
	assert.Equal(t, 1, constrained.CountConstraints())

	a := base.ConstraintMatrix()
	assert.Equal(t, 0, a.Rows())
	assert.Equal(t, 2, a.Cols())
	assert.Empty(t, base.ConstraintValues())
}

func TestModel_WithWeightRejectsModelVariables(t *testing.T) {
	m, err := regression.Build("y", []string{"a"})
	require.NoError(t, err)

	_, err = m.WithWeight("y")
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
	_, err = m.WithWeight("a")
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
}

func TestModel_ConstraintErrors(t *testing.T) {
	m := fixtureModel(t)

	unknown, err := regression.NewConstraint("u", 1, []string{"x9"}, []float64{1})
	require.NoError(t, err)
	_, err = m.WithConstraint(unknown)
	require.ErrorIs(t, err, regression.ErrUnknownKey)

	dup, err := regression.NewConstraint(slopeConstraint, 1, []string{"x3"}, []float64{1})
	require.NoError(t, err)
	_, err = m.WithConstraint(dup)
	require.ErrorIs(t, err, regression.ErrDuplicateKey)

	multiple, err := regression.NewConstraint("twice", 6, []string{"x1", "x2"}, []float64{2, 4})
	require.NoError(t, err)
	_, err = m.WithConstraint(multiple)
	require.ErrorIs(t, err, regression.ErrRankDeficient)

	_, err = m.AddCategory(makeCategory, []string{"x1"})
	require.ErrorIs(t, err, regression.ErrDuplicateKey)
	_, err = m.AddCategory("other", []string{"x9"})
	require.ErrorIs(t, err, regression.ErrUnknownKey)
	_, err = m.AddCategory("other", []string{"x1", "x1"})
	require.ErrorIs(t, err, regression.ErrDuplicateKey)
	_, err = m.AddCategory("", []string{"x1"})
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
	_, err = m.AddCategory("other", nil)
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
}

func TestModel_AddConstraintNeedsOneRow(t *testing.T) {
	m, err := regression.Build("y", []string{"a", "b"})
	require.NoError(t, err)

	terms, err := frame.FromRows([]string{"c1", "c2"}, []string{"a", "b"}, [][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	_, err = m.AddConstraint(terms, 1)
	require.ErrorIs(t, err, regression.ErrInvalidArgument)

	empty, err := frame.FromRows([]string{"c"}, []string{"a", "b"}, [][]float64{{0, 0}})
	require.NoError(t, err)
	_, err = m.AddConstraint(empty, 1)
	require.ErrorIs(t, err, regression.ErrInvalidArgument)
}

func TestModel_Fingerprint(t *testing.T) {
	a := fixtureModel(t)
	b := fixtureModel(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	unweighted, err := regression.Build("y", fixtureRegressors)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), unweighted.Fingerprint())

	extra, err := regression.NewConstraint("fix", 0, []string{"x3"}, []float64{1})
	require.NoError(t, err)
	c, err := a.WithConstraint(extra)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	shifted, err := regression.NewConstraint("fix", 1, []string{"x3"}, []float64{1})
	require.NoError(t, err)
	d, err := a.WithConstraint(shifted)
	require.NoError(t, err)
	assert.NotEqual(t, c.Fingerprint(), d.Fingerprint())
}
