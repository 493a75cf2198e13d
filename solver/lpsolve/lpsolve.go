package lpsolve

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

// Solver is safe for concurrent use; it holds configuration only.
type Solver struct {
	opts Options
}

var _ solver.Solver = (*Solver)(nil)

// New returns a Solver configured by opts.
func New(opts ...Option) *Solver {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Solver{opts: o}
}

// Options returns the resolved configuration.
func (s *Solver) Options() Options { return s.opts }

// Solve implements solver.Solver.
//
// Status mapping:
//   - Infeasible: inconsistent equality rows, or simplex phase one fails.
//   - Unbounded: the LP (or the root relaxation) is unbounded.
//   - NumericalError: any other simplex failure.
//   - Timeout: ctx deadline, TimeLimit or MaxNodes reached; Values then holds
//     the best integral point found, if any.
//
// A cancelled ctx is returned as an error. Individual simplex calls are not
// interruptible, so deadlines are observed between branch-and-bound nodes.
func (s *Solver) Solve(ctx context.Context, p *problem.Problem) (solver.Result, error) {
	if err := solver.Check(p); err != nil {
		return solver.Result{}, err
	}
	if s.opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.TimeLimit)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return solver.Result{Status: solver.Timeout}, nil
		}
		return solver.Result{}, err
	}

	lower := make([]float64, len(p.Vars))
	upper := make([]float64, len(p.Vars))
	for i, v := range p.Vars {
		lower[i], upper[i] = v.Lower, v.Upper
	}
	if p.NumBinary() == 0 {
		r := s.relax(p, lower, upper)
		res := solver.Result{Status: r.status, Nodes: 1}
		if r.status == solver.Optimal {
			res.Values = r.x
			res.Objective = p.Evaluate(r.x)
		}
		return res, nil
	}

	start := time.Now()
	res, err := s.branchAndBound(ctx, p, lower, upper)
	s.opts.Logger.Debug("branch-and-bound finished",
		zap.String("problem", p.Name),
		zap.Stringer("status", res.Status),
		zap.Int("nodes", res.Nodes),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, err
}

// relaxation is the outcome of one LP solve in min-form.
type relaxation struct {
	status solver.Status
	x      []float64
	minObj float64
}

// relax solves the continuous relaxation of p under the given bounds.
func (s *Solver) relax(p *problem.Problem, lower, upper []float64) relaxation {
	tol := s.opts.Tolerance
	sf := buildStandard(p, lower, upper)
	if sf.infeasible {
		return relaxation{status: solver.Infeasible}
	}
	nc := len(sf.cost)
	y := make([]float64, nc)

	finish := func() relaxation {
		x := sf.recover(y, lower, upper)
		obj := p.Evaluate(x)
		if p.Sense == problem.Maximize {
			obj = -obj
		}
		return relaxation{status: solver.Optimal, x: x, minObj: obj}
	}

	a, b := sf.dense()
	m := len(b)
	if nc == 0 {
		for _, r := range b {
			if math.Abs(r) > tol {
				return relaxation{status: solver.Infeasible}
			}
		}
		return finish()
	}

	var red *matrix.Dense
	var rb []float64
	if m > 0 {
		am, err := matrix.NewDenseFrom(m, nc, a)
		if err != nil {
			return relaxation{status: solver.NumericalError}
		}
		red, rb, err = matrix.RowReduce(am, b, matrix.WithEpsilon(tol))
		if errors.Is(err, matrix.ErrInconsistent) {
			return relaxation{status: solver.Infeasible}
		}
		if err != nil {
			return relaxation{status: solver.NumericalError}
		}
	}

	// Split columns: gonum rejects all-zero columns, and their variables
	// only move the objective.
	var keep []int
	unboundedRay := false
	for j := 0; j < nc; j++ {
		nonzero := false
		if red != nil {
			for i := 0; i < red.Rows(); i++ {
				if red.RowView(i)[j] != 0 {
					nonzero = true
					break
				}
			}
		}
		switch {
		case nonzero:
			keep = append(keep, j)
		case sf.cost[j] < -tol:
			unboundedRay = true
		}
	}

	if red != nil && len(keep) > 0 {
		r, k := red.Rows(), len(keep)
		cRed := make([]float64, k)
		data := make([]float64, r*k)
		for jj, j := range keep {
			cRed[jj] = sf.cost[j]
			for i := 0; i < r; i++ {
				data[i*k+jj] = red.RowView(i)[j]
			}
		}
		var yRed []float64
		if r == k {
			// Full-rank square RREF is the identity.
			yRed = make([]float64, k)
			for i, v := range rb {
				if v < -tol {
					return relaxation{status: solver.Infeasible}
				}
				yRed[i] = math.Max(v, 0)
			}
		} else {
			_, xOpt, err := lp.Simplex(cRed, mat.NewDense(r, k, data), rb, tol, nil)
			switch {
			case errors.Is(err, lp.ErrInfeasible):
				return relaxation{status: solver.Infeasible}
			case errors.Is(err, lp.ErrUnbounded):
				return relaxation{status: solver.Unbounded}
			case err != nil:
				return relaxation{status: solver.NumericalError}
			}
			yRed = xOpt
		}
		for jj, j := range keep {
			y[j] = math.Max(yRed[jj], 0)
		}
	}
	if unboundedRay {
		return relaxation{status: solver.Unbounded}
	}

	return finish()
}
