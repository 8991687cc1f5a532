// Package regression fits weighted linear models under linear equality
// constraints.
//
// Overview:
//
//   - Model names the regressand, the regressors, an optional weight column
//     and named constraints. It is persistent: every With/Add returns a new
//     Model.
//   - Explicit constraints are fixed linear equalities Σ a_k·β_k = c.
//   - Category constraints identify a set of indicator regressors: their
//     weighted shares s_k (summing to 1) give Σ s_k·β_k = 0. Shares depend on
//     the observations, so they are resolved when a System is built.
//   - System assembles XᵀWX, XᵀWy, A, c and the bordered matrix
//     M = [[XᵀWX, Aᵀ], [A, 0]].
//   - Solver solves M·[β; λ] = [XᵀWy; c] and exposes the pseudo-inverse of M
//     and the constrained leverage h_i = w_i·x_iᵀ·P₁₁·x_i.
//
// Weights:
//
//   - Weights must be finite and non-negative. They are rescaled to sum to
//     the number of strictly positive weights. Zero-weight rows do not
//     influence the fit but still receive fitted values and residuals.
//
// Singular systems:
//
//   - By default Solve returns ErrSingular. WithSingularPolicy(MinimumNorm)
//     falls back to the SVD pseudo-inverse and flags the Result.
//
// Error handling (sentinel errors):
//
//   - ErrRankDeficient: the constraint rows are linearly dependent.
//   - ErrNoObservations: no usable rows or all weights are zero.
//   - ErrRegressandInRegressors, plus the re-exported ErrInvalidArgument,
//     ErrDimensionMismatch, ErrUnknownKey, ErrDuplicateKey and ErrSingular.
//
// Diagnostics go to a zerolog.Logger supplied with WithLogger.
package regression
