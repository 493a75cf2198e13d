package graph

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
)

// VariabilityOptions configures FluxVariability.
type VariabilityOptions struct {
	// Objective is held within Proportion of its optimum; nil
	// Coefficients selects the model objective.
	Objective problem.Objective
	// Proportion in [0, 1]; 0 drops the objective row.
	Proportion float64
	// Workers bounds concurrent solves.
	Workers int
	Logger  *zap.Logger
}

// DefaultVariabilityOptions pins the model objective at its optimum.
func DefaultVariabilityOptions() VariabilityOptions {
	return VariabilityOptions{
		Proportion: 1,
		Workers:    runtime.GOMAXPROCS(0),
		Logger:     zap.NewNop(),
	}
}

// FluxVariability minimizes and maximizes every reaction of v, optionally
// with the objective held near its optimum, and returns the ranges in
// model order. Fixed reactions are reported from their bounds without a
// solve.
func FluxVariability(ctx context.Context, s solver.Solver, v *network.View, opts VariabilityOptions) ([]FluxRange, error) {
	if math.IsNaN(opts.Proportion) || opts.Proportion < 0 || opts.Proportion > 1 {
		return nil, fmt.Errorf("graph: %w: proportion %g", problem.ErrInvalidOptions, opts.Proportion)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var optimum float64
	if opts.Proportion > 0 {
		p, err := problem.FBA(v, opts.Objective)
		if err != nil {
			return nil, fmt.Errorf("graph: variability: %w", err)
		}
		res, err := solver.Require(ctx, s, "fva optimum", p)
		if err != nil {
			return nil, fmt.Errorf("graph: variability: %w", err)
		}
		optimum = res.Objective
		log.Debug("variability optimum", zap.Float64("optimum", optimum), zap.Float64("proportion", opts.Proportion))
	}

	ids := v.Model().ReactionIDs()
	ranges := make([]FluxRange, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for j, id := range ids {
		if b := v.Bounds(j); b.Fixed() {
			ranges[j] = FluxRange{Min: b.Lower, Max: b.Upper}
			continue
		}
		for _, target := range []problem.Objective{problem.MinimizeReaction(id), problem.MaximizeReaction(id)} {
			g.Go(func() error {
				p, err := problem.Variability(v, opts.Objective, optimum, opts.Proportion, target)
				if err != nil {
					return fmt.Errorf("graph: variability: %w", err)
				}
				res, err := solver.Require(gctx, s, "fva "+target.Sense.String()+" "+id, p)
				if err != nil {
					return fmt.Errorf("graph: variability: %w", err)
				}
				if target.Sense == problem.Minimize {
					ranges[j].Min = res.Values[j]
				} else {
					ranges[j].Max = res.Values[j]
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("variability finished", zap.Int("reactions", len(ids)))
	return ranges, nil
}
