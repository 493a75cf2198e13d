package sampler

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

// minStep is the shortest feasible step interval worth taking.
const minStep = 1e-12

// ctxCheckEvery is how many steps pass between context checks.
const ctxCheckEvery = 64

// Sampler holds the prepared polytope. Read-only after New.
type Sampler struct {
	ids          []string
	lower, upper []float64
	basis        *matrix.Dense // n×d orthonormal basis of the equality null space
	warmup       *matrix.Dense // one warm-up point per row
	start        []float64     // warm-up mean
	opts         Options
}

// New validates opts, computes the null-space basis and solves the
// warm-up problems.
//
// Errors:
//   - ErrInvalidOptions.
//   - ErrDegenerateSpace when the basis is empty or all warm-up points coincide.
//   - ErrUnboundedSpace when a warm-up problem is unbounded.
//   - *solver.StatusError for any other non-optimal warm-up.
func New(ctx context.Context, s solver.Solver, v *network.View, opts Options) (*Sampler, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if v == nil || v.NumReactions() == 0 {
		return nil, fmt.Errorf("sampler: %w", problem.ErrInfeasibleModel)
	}
	m := v.Model()
	n := v.NumReactions()
	sp := &Sampler{ids: m.ReactionIDs(), lower: v.Lower(), upper: v.Upper(), opts: opts}

	basis, err := equalityBasis(v)
	if err != nil {
		return nil, err
	}
	if basis == nil {
		return nil, fmt.Errorf("%w: null space has dimension 0", ErrDegenerateSpace)
	}
	sp.basis = basis

	warm, err := warmUp(ctx, s, v, opts)
	if err != nil {
		return nil, err
	}
	sp.warmup = warm
	if sp.start, err = matrix.ColumnMeans(warm); err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}

	var spread float64
	for i := 0; i < warm.Rows(); i++ {
		row := warm.RowView(i)
		for j := 0; j < n; j++ {
			spread = math.Max(spread, math.Abs(row[j]-sp.start[j]))
		}
	}
	if spread <= opts.Tolerance {
		return nil, fmt.Errorf("%w: warm-up points coincide", ErrDegenerateSpace)
	}

	opts.Logger.Debug("sampler prepared",
		zap.String("model", m.ID()),
		zap.Int("reactions", n),
		zap.Int("dimension", basis.Cols()),
		zap.Int("warmup_points", warm.Rows()),
	)
	return sp, nil
}

// Dimension returns the dimension of the equality null space.
func (sp *Sampler) Dimension() int { return sp.basis.Cols() }

// WarmUp returns a copy of the warm-up points, one per row.
func (sp *Sampler) WarmUp() *matrix.Dense { return sp.warmup.Clone().(*matrix.Dense) }

// equalityBasis returns an orthonormal basis of null([S; e_i for fixed i]),
// or nil when it is trivial.
func equalityBasis(v *network.View) (*matrix.Dense, error) {
	m := v.Model()
	n := v.NumReactions()
	var rows [][]float64
	if m.NumMetabolites() > 0 {
		s, err := m.Stoichiometry().ToDense()
		if err != nil {
			return nil, fmt.Errorf("sampler: %w", err)
		}
		for i := 0; i < s.Rows(); i++ {
			rows = append(rows, s.RowView(i))
		}
	}
	for j := 0; j < n; j++ {
		if v.Bounds(j).Fixed() {
			e := make([]float64, n)
			e[j] = 1
			rows = append(rows, e)
		}
	}
	if len(rows) == 0 {
		return matrix.Identity(n)
	}
	e, err := matrix.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	basis, _, err := matrix.NullSpace(e)
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	return basis, nil
}

// warmUp minimizes and maximizes every non-fixed reaction. Points are
// stored in reaction order (min then max) regardless of completion order.
func warmUp(ctx context.Context, s solver.Solver, v *network.View, opts Options) (*matrix.Dense, error) {
	ids := v.Model().ReactionIDs()
	var free []int
	for j := range ids {
		if !v.Bounds(j).Fixed() {
			free = append(free, j)
		}
	}
	n := len(ids)
	points := make([][]float64, 2*len(free))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for k, j := range free {
		for d, obj := range []problem.Objective{problem.MinimizeReaction(ids[j]), problem.MaximizeReaction(ids[j])} {
			slot, obj := 2*k+d, obj
			g.Go(func() error {
				p, err := problem.FBA(v, obj)
				if err != nil {
					return fmt.Errorf("sampler: warm-up: %w", err)
				}
				res, err := s.Solve(gctx, p)
				if err != nil {
					return fmt.Errorf("sampler: warm-up: %w", err)
				}
				switch res.Status {
				case solver.Optimal:
				case solver.Unbounded:
					return fmt.Errorf("%w: %s of %s", ErrUnboundedSpace, obj.Sense, ids[j])
				default:
					return &solver.StatusError{Op: "sampler warm-up " + obj.Sense.String() + " " + ids[j], Status: res.Status}
				}
				points[slot] = append([]float64(nil), res.Values[:n]...)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: every reaction is fixed", ErrDegenerateSpace)
	}
	return matrix.FromRows(points)
}
