// SPDX-License-Identifier: MIT
package regression_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/regression"
)

// Car-price fixture: intercept, three continuous regressors and three
// manufacturer indicators, weighted, with one explicit constraint and one
// category constraint over the indicators.
var (
	fixtureRegressors = []string{"x0", "x1", "x2", "x3", "Ford", "GM", "BMW"}
	fixtureRows       = []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8", "r9", "r10"}

	fixtureX = [][]float64{
		{1, 2.0, 0.5, 3.1, 0, 0, 1},
		{1, 1.5, 1.2, 2.4, 1, 0, 0},
		{1, 3.2, 0.8, 1.7, 0, 1, 0},
		{1, 2.7, 2.1, 0.9, 1, 0, 0},
		{1, 0.4, 1.9, 2.2, 0, 0, 0},
		{1, 1.1, 2.6, 3.8, 0, 0, 1},
		{1, 2.2, 1.4, 0.3, 0, 0, 1},
		{1, 3.9, 0.2, 2.9, 0, 1, 0},
		{1, 0.7, 3.3, 1.1, 0, 0, 0},
		{1, 1.8, 2.9, 4.2, 0, 0, 1},
		{1, 2.5, 1.6, 2.6, 0, 0, 0},
	}
	fixtureW = []float64{1, 2, 3, 4, 0, 1, 2, 3, 1, 2, 1}
	fixtureY = []float64{
		-37.6709830552, -17.5642417824, 5.4501630977, 30.1086708912, 21.207,
		22.7036391168, 23.990497429, 7.1755369023, 8.3625381794, 52.7420695403,
		25.5930318206,
	}

	wantBeta   = []float64{15.2567, -0.4256, 1.7128, -0.9699, -1.7853, -6.0586, 7.8439}
	wantDuals  = []float64{42.7805, 0.0}
	wantFitted = []float64{
		20.09911, 12.5606, 7.55759, 15.04625, 16.207, 23.4001,
		24.27123, 5.06811, 19.54413, 23.22806, 14.41144,
	}
	wantXtWy = []float64{
		147.8183300001, 361.827150000215, 354.98048100009, 308.48399800031,
		42.6531, 18.93855, 69.2488950001,
	}
	wantLeverage = []float64{
		0.26085408, 0.42048332, 0.56434085, 0.72069664, 0.0, 0.27053665,
		0.82154734, 0.65223426, 0.68961028, 0.5386264, 0.06107018,
	}
	wantWeightedRSS = 4039.700803315559
)

const (
	slopeConstraint = "slope"
	makeCategory    = "make"
)

// fixtureTable returns the observation table: regressors, then "w" and "y".
func fixtureTable(t *testing.T) *frame.Frame[string, string] {
	t.Helper()
	cols := append(append([]string(nil), fixtureRegressors...), "w", "y")
	values := make([][]float64, len(fixtureRows))
	for i := range fixtureRows {
		values[i] = append(append([]float64(nil), fixtureX[i]...), fixtureW[i], fixtureY[i])
	}
	f, err := frame.FromRows(fixtureRows, cols, values)
	require.NoError(t, err)

	return f
}

// fixtureModel returns y ~ x0..x3 + Ford + GM + BMW, weighted by w, with
// x1 + 2·x2 = 3 and the manufacturer category.
func fixtureModel(t *testing.T) regression.Model[string] {
	t.Helper()
	m, err := regression.Build("y", fixtureRegressors)
	require.NoError(t, err)
	m, err = m.WithWeight("w")
	require.NoError(t, err)

	terms, err := frame.FromRows([]string{slopeConstraint}, fixtureRegressors,
		[][]float64{{0, 1, 2, 0, 0, 0, 0}})
	require.NoError(t, err)
	m, err = m.AddConstraint(terms, 3)
	require.NoError(t, err)
	m, err = m.AddCategory(makeCategory, []string{"Ford", "GM", "BMW"})
	require.NoError(t, err)

	return m
}
