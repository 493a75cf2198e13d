package lpsolve

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

type bbNode struct {
	lower, upper []float64
	depth        int
}

// branchAndBound runs a depth-first search over binary fixings.
// Implementation:
//   - Stage 1: solve the node's relaxation; infeasible nodes are dropped.
//   - Stage 2: prune when the relaxation cannot beat the incumbent.
//   - Stage 3: branch on the most fractional binary; the child nearer to the
//     relaxed value is explored first.
//
// An unbounded relaxation makes the whole problem Unbounded.
func (s *Solver) branchAndBound(ctx context.Context, p *problem.Problem, lower, upper []float64) (solver.Result, error) {
	var (
		incumbent []float64
		best      = math.Inf(1)
		nodes     int
		stack     = []bbNode{{lower: lower, upper: upper}}
	)
	withIncumbent := func(st solver.Status) solver.Result {
		res := solver.Result{Status: st, Nodes: nodes}
		if incumbent != nil {
			res.Values = incumbent
			res.Objective = p.Evaluate(incumbent)
		}
		return res
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return withIncumbent(solver.Timeout), nil
			}
			return solver.Result{}, err
		}
		if nodes >= s.opts.MaxNodes {
			return withIncumbent(solver.Timeout), nil
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		r := s.relax(p, nd.lower, nd.upper)
		switch r.status {
		case solver.Infeasible:
			continue
		case solver.Unbounded:
			return solver.Result{Status: solver.Unbounded, Nodes: nodes}, nil
		case solver.NumericalError:
			s.opts.Logger.Warn("relaxation failed", zap.String("problem", p.Name), zap.Int("depth", nd.depth))
			return withIncumbent(solver.NumericalError), nil
		}
		if incumbent != nil && r.minObj >= best-s.opts.Tolerance*math.Max(1, math.Abs(best)) {
			continue
		}

		branch, frac := -1, 0.0
		for i, v := range p.Vars {
			if v.Kind != problem.Binary {
				continue
			}
			if f := math.Abs(r.x[i] - math.Round(r.x[i])); f > s.opts.IntegralityTolerance && f > frac {
				branch, frac = i, f
			}
		}
		if branch < 0 {
			x := r.x
			for i, v := range p.Vars {
				if v.Kind == problem.Binary {
					x[i] = math.Round(x[i])
				}
			}
			incumbent, best = x, r.minObj
			s.opts.Logger.Debug("new incumbent",
				zap.String("problem", p.Name),
				zap.Float64("objective", p.Evaluate(x)),
				zap.Int("node", nodes),
			)
			continue
		}

		near := math.Round(r.x[branch])
		for _, val := range []float64{1 - near, near} {
			lo := append([]float64(nil), nd.lower...)
			hi := append([]float64(nil), nd.upper...)
			lo[branch], hi[branch] = val, val
			stack = append(stack, bbNode{lower: lo, upper: hi, depth: nd.depth + 1})
		}
	}

	if incumbent == nil {
		return solver.Result{Status: solver.Infeasible, Nodes: nodes}, nil
	}
	return withIncumbent(solver.Optimal), nil
}
