package batch

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

// Kind labels a target for logs and metrics.
type Kind uint8

const (
	KindFBA Kind = iota
	KindIMAT
	KindMetchange
)

var kindNames = [...]string{"fba", "imat", "metchange"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Job performs the solver calls of one target. A returned error is
// structural and aborts the batch; solver statuses belong in the Outcome.
type Job func(ctx context.Context, s solver.Solver) (Outcome, error)

// Target is one independent unit of a batch.
type Target struct {
	ID   string
	Kind Kind
	Job  Job
}

// Outcome is the result of one target.
type Outcome struct {
	Target string
	Kind   Kind
	Status solver.Status
	// Objective is the final optimum; for Metchange it is the
	// inconsistency score.
	Objective float64
	// MaxSink is the Metchange stage-one optimum.
	MaxSink float64
	// Relaxations counts Metchange stage-two retries.
	Relaxations int
	// Fluxes holds the reaction fluxes of the final solve, when it
	// produced a point.
	Fluxes   map[string]float64
	Nodes    int
	Duration time.Duration
}

// Solve returns a Job that builds one problem and solves it once.
func Solve(build func() (*problem.Problem, error)) Job {
	return func(ctx context.Context, s solver.Solver) (Outcome, error) {
		p, err := build()
		if err != nil {
			return Outcome{}, err
		}
		res, err := s.Solve(ctx, p)
		if err != nil {
			return Outcome{}, err
		}
		return outcomeOf(p, res), nil
	}
}

func outcomeOf(p *problem.Problem, res solver.Result) Outcome {
	o := Outcome{Status: res.Status, Objective: res.Objective, Nodes: res.Nodes}
	if res.HasSolution() {
		o.Fluxes = p.Fluxes(res.Values)
	}
	return o
}

// FBATarget optimizes obj over v.
func FBATarget(id string, v *network.View, obj problem.Objective) Target {
	return Target{ID: id, Kind: KindFBA, Job: Solve(func() (*problem.Problem, error) {
		return problem.FBA(v, obj)
	})}
}

// IMATTarget solves IMAT for one set of reaction scores.
func IMATTarget(id string, v *network.View, scores map[string]float64, opts problem.IMATOptions) Target {
	return Target{ID: id, Kind: KindIMAT, Job: Solve(func() (*problem.Problem, error) {
		return problem.IMAT(v, scores, opts)
	})}
}

// MetchangeTarget runs both Metchange stages for metabolite. When stage two
// is infeasible (the stage-one optimum was only reached within solver
// tolerance) the sink lower bound is multiplied by factor and the solve is
// repeated, at most retries times.
func MetchangeTarget(v *network.View, metabolite string, weights map[string]float64, opts problem.MetchangeOptions, retries int, factor float64) Target {
	job := func(ctx context.Context, s solver.Solver) (Outcome, error) {
		maxP, err := problem.MetchangeMax(v, metabolite, opts)
		if err != nil {
			return Outcome{}, err
		}
		res, err := s.Solve(ctx, maxP)
		if err != nil {
			return Outcome{}, err
		}
		if !res.OK() {
			return Outcome{Status: res.Status, Nodes: res.Nodes}, nil
		}
		maxSink := res.Objective
		minSink := math.Min(math.Max(opts.Proportion*maxSink, 0), opts.SinkUpper)

		p, err := problem.MetchangeMin(v, metabolite, weights, minSink, opts)
		if err != nil {
			return Outcome{}, err
		}
		sink, _ := p.Var(problem.SinkName(metabolite))
		upper := p.Vars[sink].Upper
		relaxed := 0
		for {
			if res, err = s.Solve(ctx, p); err != nil {
				return Outcome{}, err
			}
			if res.Status != solver.Infeasible || relaxed == retries {
				break
			}
			minSink *= factor
			if p, err = p.WithVarBounds(sink, minSink, upper); err != nil {
				return Outcome{}, err
			}
			relaxed++
		}
		o := outcomeOf(p, res)
		o.MaxSink = maxSink
		o.Relaxations = relaxed
		return o, nil
	}
	return Target{ID: metabolite, Kind: KindMetchange, Job: job}
}
