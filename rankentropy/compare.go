package rankentropy

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/metflux/sampler"
)

// Result is the observed statistic with its bootstrap significance.
type Result struct {
	Method    Method
	Statistic float64
	PValue    float64
	// Null holds one statistic per iteration, in iteration order.
	Null []float64
}

// Compare computes the statistic selected by opts.Method for groups a and b
// and its p-value against a null drawn from the pooled rows: every
// iteration redraws groups of the same sizes and recomputes the
// statistic. Iteration i is seeded from (opts.Seed, i), so the result does
// not depend on opts.Workers.
func Compare(ctx context.Context, a, b [][]float64, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if err := validateGroups(a, b); err != nil {
		return Result{}, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	fn := statistic(opts.Method)
	obs := fn(a, b)

	pooled := make([][]float64, 0, len(a)+len(b))
	pooled = append(append(pooled, a...), b...)
	null := make([]float64, opts.Iterations)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range null {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(sampler.DeriveSeed(opts.Seed, uint64(i))))
			x, y := redraw(rng, pooled, len(a), opts.Replace)
			null[i] = fn(x, y)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("rankentropy: bootstrap: %w", err)
	}
	return Result{
		Method:    opts.Method,
		Statistic: obs,
		PValue:    pValue(obs, null, opts),
		Null:      null,
	}, nil
}

// redraw splits pooled into groups of na and len(pooled)−na rows.
func redraw(rng *rand.Rand, pooled [][]float64, na int, replace bool) (x, y [][]float64) {
	n := len(pooled)
	rows := make([][]float64, n)
	if replace {
		for k := range rows {
			rows[k] = pooled[rng.Intn(n)]
		}
	} else {
		for k, p := range rng.Perm(n) {
			rows[k] = pooled[p]
		}
	}
	return rows[:na], rows[na:]
}

// pValue reads P(null ≥ obs). The smoothed form integrates a Gaussian
// kernel density over [obs, ∞) and falls back to the empirical tail when
// the null has no spread.
func pValue(obs float64, null []float64, opts Options) float64 {
	if opts.KDE && len(null) > 1 {
		factor := opts.Bandwidth
		if factor == 0 {
			factor = math.Pow(float64(len(null)), -0.2)
		}
		if h := factor * stat.StdDev(null, nil); h > 0 && !math.IsNaN(h) {
			var p float64
			for _, x := range null {
				p += distuv.Normal{Mu: x, Sigma: h}.Survival(obs)
			}
			return p / float64(len(null))
		}
	}
	above := 0
	for _, x := range null {
		if x >= obs {
			above++
		}
	}
	return float64(above+1) / float64(len(null)+1)
}
