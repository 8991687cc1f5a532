// SPDX-License-Identifier: MIT
// Package regression: sentinel error set.
//
// The engine reuses the sentinels of the packages it builds on, re-exported
// here so callers can match every failure kind through one import.

package regression

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/numeric"
	"github.com/katalvlaran/lvstat/worm"
)

var (
	// ErrRankDeficient is returned when a constraint set's coefficient matrix
	// is not full row rank.
	ErrRankDeficient = errors.New("regression: constraint set is rank deficient")

	// ErrNoObservations is returned when no observation carries a usable
	// regressand or every weight is zero.
	ErrNoObservations = errors.New("regression: no usable observations")

	// ErrRegressandInRegressors is returned when the regressand is also listed
	// as a regressor.
	ErrRegressandInRegressors = errors.New("regression: regressand listed as a regressor")
)

// Re-exported sentinels.
var (
	ErrInvalidArgument   = numeric.ErrInvalidArgument
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
	ErrUnknownKey        = frame.ErrUnknownKey
	ErrDuplicateKey      = worm.ErrDuplicateKey
	ErrSingular          = matrix.ErrSingular
)

// regressionErrorf wraps err with an operation tag.
func regressionErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
