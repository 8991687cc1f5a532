// SPDX-License-Identifier: MIT

package regression

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvstat/frame"
	"github.com/katalvlaran/lvstat/matrix"
	"github.com/katalvlaran/lvstat/numeric"
	"github.com/katalvlaran/lvstat/svd"
)

const (
	opNewSolver     = "NewSolver"
	opSolve         = "Solver.Solve"
	opPseudoInverse = "Solver.PseudoInverse"
	opLeverage      = "Solver.Leverage"
)

// SingularPolicy selects what Solve does when the augmented matrix is singular.
type SingularPolicy int

const (
	// FailOnSingular returns ErrSingular. This is the default.
	FailOnSingular SingularPolicy = iota
	// MinimumNorm falls back to the SVD pseudo-inverse solution and logs a warning.
	MinimumNorm
)

// String implements fmt.Stringer.
func (p SingularPolicy) String() string {
	switch p {
	case FailOnSingular:
		return "fail"
	case MinimumNorm:
		return "minimum-norm"
	}

	return fmt.Sprintf("SingularPolicy(%d)", int(p))
}

// Option configures a Solver.
type Option func(*solverOptions)

type solverOptions struct {
	logger       zerolog.Logger
	policy       SingularPolicy
	threshold    float64
	hasThreshold bool
	cmp          numeric.Comparator
}

func gatherOptions(opts ...Option) solverOptions {
	o := solverOptions{
		logger: zerolog.Nop(),
		policy: FailOnSingular,
		cmp:    numeric.Default(),
	}
	for _, set := range opts {
		set(&o)
	}

	return o
}

// WithLogger sets the diagnostics logger (default zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(o *solverOptions) { o.logger = l }
}

// WithSingularPolicy selects the singular-system policy.
func WithSingularPolicy(p SingularPolicy) Option {
	return func(o *solverOptions) { o.policy = p }
}

// WithPseudoInverseThreshold fixes the singular-value threshold used by
// PseudoInverse, Leverage and the minimum-norm fallback.
func WithPseudoInverseThreshold(t float64) Option {
	return func(o *solverOptions) {
		o.threshold = t
		o.hasThreshold = true
	}
}

// WithComparator sets the tolerance used to check constraint satisfaction
// after a solve (default numeric.Default()).
func WithComparator(c numeric.Comparator) Option {
	return func(o *solverOptions) { o.cmp = c }
}

// Solver solves one assembled System. Independent Solvers share no state.
type Solver[R, C comparable] struct {
	system *System[R, C]
	opts   solverOptions
	log    zerolog.Logger
}

// NewSolver builds the system for model over every row of table with a
// finite regressand.
func NewSolver[R, C comparable](model Model[C], table frame.Table[R, C], opts ...Option) (*Solver[R, C], error) {
	return newSolver(func() (*System[R, C], error) { return BuildSystem(model, table) }, opts...)
}

// NewSolverFor builds the system for model over the given rows.
func NewSolverFor[R, C comparable](model Model[C], table frame.Table[R, C], rows []R, opts ...Option) (*Solver[R, C], error) {
	return newSolver(func() (*System[R, C], error) { return BuildSystemFor(model, table, rows) }, opts...)
}

func newSolver[R, C comparable](build func() (*System[R, C], error), opts ...Option) (*Solver[R, C], error) {
	o := gatherOptions(opts...)
	if o.hasThreshold && (!numeric.IsFinite(o.threshold) || o.threshold < numeric.MachineEpsilon) {
		return nil, regressionErrorf(opNewSolver, fmt.Errorf("pseudo-inverse threshold %g: %w", o.threshold, ErrInvalidArgument))
	}
	sys, err := build()
	if err != nil {
		return nil, regressionErrorf(opNewSolver, err)
	}
	s := &Solver[R, C]{
		system: sys,
		opts:   o,
		log:    o.logger.With().Str("component", "regression").Str("fingerprint", fmt.Sprintf("%016x", sys.model.Fingerprint())).Logger(),
	}
	s.log.Debug().
		Int("observations", len(sys.rows)).
		Int("regressors", len(sys.regressors)).
		Int("constraints", sys.constraints.Len()).
		Msg("regression system assembled")

	return s, nil
}

// System returns the assembled system.
func (s *Solver[R, C]) System() *System[R, C] { return s.system }

func (s *Solver[R, C]) svdSolver() (*svd.Solver, error) {
	var opts []svd.Option
	if s.opts.hasThreshold {
		opts = append(opts, svd.WithThreshold(s.opts.threshold))
	}

	return svd.NewSolver(s.system.aug, opts...)
}

// Solve solves M·[β; λ] = v directly with partial-pivoting LU.
//
// Implementation:
//   - Stage 1: LU solve; on ErrSingular apply the SingularPolicy.
//   - Stage 2: split into β (p) and λ (m).
//   - Stage 3: fitted X·β for every observation (zero weights included),
//     residuals, weighted RSS.
//   - Stage 4: warn when A·β misses c beyond the configured comparator.
//
// Errors:
//   - ErrSingular under FailOnSingular.
func (s *Solver[R, C]) Solve() (*Result[R, C], error) {
	sys := s.system
	sol, err := matrix.SolveVec(sys.aug, sys.augVec)
	minNorm := false
	if err != nil {
		if !errors.Is(err, ErrSingular) || s.opts.policy != MinimumNorm {
			return nil, regressionErrorf(opSolve, err)
		}
		s.log.Warn().Err(err).Str("policy", s.opts.policy.String()).Msg("augmented system singular, using minimum-norm solution")
		ps, perr := s.svdSolver()
		if perr != nil {
			return nil, regressionErrorf(opSolve, perr)
		}
		if sol, err = ps.SolveVec(sys.augVec); err != nil {
			return nil, regressionErrorf(opSolve, err)
		}
		minNorm = true
	}

	p := len(sys.regressors)
	beta, duals := sol[:p:p], sol[p:]
	fitted, err := matrix.MatVec(sys.x, beta)
	if err != nil {
		return nil, regressionErrorf(opSolve, err)
	}
	residuals := make([]float64, len(fitted))
	floats.SubTo(residuals, sys.y, fitted)
	wr := make([]float64, len(residuals))
	floats.MulTo(wr, sys.w, residuals)

	res := &Result[R, C]{
		regressors:   cloneKeys(sys.regressors),
		constraints:  sys.constraints.Names(),
		observations: cloneKeys(sys.rows),
		beta:         cloneFloats(beta),
		duals:        cloneFloats(duals),
		fitted:       fitted,
		residuals:    residuals,
		rss:          floats.Dot(wr, residuals),
		fingerprint:  sys.model.Fingerprint(),
		minimumNorm:  minNorm,
	}
	s.checkConstraints(beta)
	s.log.Debug().Float64("weighted_rss", res.rss).Bool("minimum_norm", minNorm).Msg("regression solved")

	return res, nil
}

// checkConstraints logs every constraint whose residual A·β − c is not zero
// under the configured comparator.
func (s *Solver[R, C]) checkConstraints(beta []float64) {
	ab, err := matrix.MatVec(s.system.a, beta)
	if err != nil {
		return
	}
	names := s.system.constraints.Names()
	for i, v := range ab {
		if !s.opts.cmp.Equal(v, s.system.c[i]) {
			s.log.Warn().Str("constraint", names[i]).Float64("lhs", v).Float64("value", s.system.c[i]).Msg("constraint not satisfied within tolerance")
		}
	}
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse of the augmented
// matrix via thresholded SVD. It is independent of Solve.
func (s *Solver[R, C]) PseudoInverse() (*matrix.Dense, error) {
	ps, err := s.svdSolver()
	if err != nil {
		return nil, regressionErrorf(opPseudoInverse, err)
	}
	pinv, err := ps.PseudoInverse()
	if err != nil {
		return nil, regressionErrorf(opPseudoInverse, err)
	}

	return pinv, nil
}

// Leverage returns the diagonal of the constrained hat matrix,
// h_i = w_i·x_iᵀ·P₁₁·x_i, where P₁₁ is the leading p×p block of the
// pseudo-inverse of the augmented matrix. Zero-weight observations get 0.
func (s *Solver[R, C]) Leverage() (*frame.Frame[R, string], error) {
	pinv, err := s.PseudoInverse()
	if err != nil {
		return nil, regressionErrorf(opLeverage, err)
	}
	p := len(s.system.regressors)
	view, err := pinv.View(0, 0, p, p)
	if err != nil {
		return nil, regressionErrorf(opLeverage, err)
	}
	p11 := view.Materialize()
	h := make([]float64, len(s.system.rows))
	for i := range h {
		if s.system.w[i] == 0 {
			continue
		}
		xi, err := s.system.x.RawRow(i)
		if err != nil {
			return nil, regressionErrorf(opLeverage, err)
		}
		px, err := matrix.MatVec(p11, xi)
		if err != nil {
			return nil, regressionErrorf(opLeverage, err)
		}
		h[i] = s.system.w[i] * floats.Dot(xi, px)
	}

	return column(s.system.rows, ColumnLeverage, h), nil
}
