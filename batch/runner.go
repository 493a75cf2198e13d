package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/solver"
)

var (
	// ErrNilSolver is returned by NewRunner for a nil solver.
	ErrNilSolver = errors.New("batch: nil solver")
	// ErrDuplicateTarget reports two targets with the same id.
	ErrDuplicateTarget = errors.New("batch: duplicate target id")
	// ErrNoJob reports a target without a Job.
	ErrNoJob = errors.New("batch: target has no job")
)

// Runner executes targets with a shared solver. It is safe for concurrent
// use when the solver is.
type Runner struct {
	s       solver.Solver
	opts    Options
	metrics *metrics
}

// NewRunner applies opts over DefaultOptions and registers the metrics.
func NewRunner(s solver.Solver, opts ...Option) (*Runner, error) {
	if s == nil {
		return nil, ErrNilSolver
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	m, err := newMetrics(o.Registerer)
	if err != nil {
		return nil, err
	}
	return &Runner{s: s, opts: o, metrics: m}, nil
}

// Options returns the effective options.
func (r *Runner) Options() Options { return r.opts }

// Report collects the outcomes of one Run in target order.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

// Count returns how many targets ended with status.
func (rep Report) Count(status solver.Status) int {
	n := 0
	for _, o := range rep.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Outcome returns the outcome of target id.
func (rep Report) Outcome(id string) (Outcome, bool) {
	for _, o := range rep.Outcomes {
		if o.Target == id {
			return o, true
		}
	}
	return Outcome{}, false
}

// Scores maps every optimal target to its objective.
func (rep Report) Scores() map[string]float64 {
	out := make(map[string]float64, len(rep.Outcomes))
	for _, o := range rep.Outcomes {
		if o.Status == solver.Optimal {
			out[o.Target] = o.Objective
		}
	}
	return out
}

// Run executes targets on at most Workers goroutines.
//
// Errors:
//   - ErrDuplicateTarget, ErrNoJob before anything runs.
//   - The first structural error of any target, unmodified; the other
//     targets are cancelled.
//   - ctx.Err() when ctx ends first.
func (r *Runner) Run(ctx context.Context, targets []Target) (Report, error) {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t.Job == nil {
			return Report{}, fmt.Errorf("%w: %q", ErrNoJob, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return Report{}, fmt.Errorf("%w: %q", ErrDuplicateTarget, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	rep := Report{RunID: uuid.NewString(), Outcomes: make([]Outcome, len(targets))}
	log := r.opts.Logger.With(zap.String("run_id", rep.RunID))
	log.Info("batch started", zap.Int("targets", len(targets)), zap.Int("workers", r.opts.Workers))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, t := range targets {
		g.Go(func() error {
			o, err := r.runTarget(gctx, t, log)
			if err != nil {
				return err
			}
			rep.Outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("batch aborted", zap.Error(err))
		return Report{RunID: rep.RunID}, err
	}

	log.Info("batch finished",
		zap.Int("optimal", rep.Count(solver.Optimal)),
		zap.Int("failed", len(targets)-rep.Count(solver.Optimal)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

func (r *Runner) runTarget(ctx context.Context, t Target, log *zap.Logger) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	tctx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.TargetTimeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, r.opts.TargetTimeout)
	}
	defer cancel()

	start := time.Now()
	o, err := t.Job(tctx, r.s)
	if err != nil {
		// Only our own deadline turns into a status; anything else,
		// including the caller's cancellation, is returned.
		if ctx.Err() != nil || !errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, err
		}
		o = Outcome{Status: solver.Timeout}
	}
	o.Target, o.Kind, o.Duration = t.ID, t.Kind, time.Since(start)
	r.metrics.observe(t.Kind, o.Status, o.Duration)

	fields := []zap.Field{
		zap.String("target", t.ID),
		zap.Stringer("kind", t.Kind),
		zap.Stringer("status", o.Status),
		zap.Duration("elapsed", o.Duration),
	}
	if o.Status == solver.Optimal {
		log.Debug("target solved", append(fields, zap.Float64("objective", o.Objective))...)
	} else {
		log.Info("target not optimal", fields...)
	}
	return o, nil
}

// Metchange scores every metabolite against weights (see
// problem.LowScoreWeights). Optimal outcomes carry the inconsistency score
// in Objective; Report.Scores collects them.
func (r *Runner) Metchange(ctx context.Context, v *network.View, metabolites []string, weights map[string]float64) (Report, error) {
	targets := make([]Target, len(metabolites))
	for i, met := range metabolites {
		targets[i] = MetchangeTarget(v, met, weights, r.opts.Metchange, r.opts.RelaxRetries, r.opts.RelaxFactor)
	}
	return r.Run(ctx, targets)
}

// IMAT solves one IMAT problem per condition, in sorted condition order.
func (r *Runner) IMAT(ctx context.Context, v *network.View, conditions map[string]map[string]float64) (Report, error) {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	targets := make([]Target, len(names))
	for i, name := range names {
		targets[i] = IMATTarget(name, v, conditions[name], r.opts.IMAT)
	}
	return r.Run(ctx, targets)
}
