package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/solver"
)

// Sample is New followed by Run(ctx, opts.Seed).
func Sample(ctx context.Context, s solver.Solver, v *network.View, opts Options) (*SampleSet, error) {
	sp, err := New(ctx, s, v, opts)
	if err != nil {
		return nil, err
	}
	return sp.Run(ctx, opts.Seed)
}

// Run walks one chain seeded with seed.
//
// The chain ends with OutcomeComplete once Samples points are recorded, or
// with OutcomeTimeout (keeping the points recorded so far) when the
// iteration cap or the ctx deadline is reached. A cancelled ctx returns an
// error.
func (sp *Sampler) Run(ctx context.Context, seed int64) (*SampleSet, error) {
	o := sp.opts
	n := len(sp.ids)
	rng := rngFromSeed(seed)
	w := newWalker(sp)

	out := &SampleSet{ReactionIDs: append([]string(nil), sp.ids...), Seed: seed}
	data := make([]float64, 0, o.Samples*n)
	recorded, limit := 0, o.iterations()
	outcome := OutcomeTimeout

	for step := 1; step <= limit; step++ {
		if (step-1)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				if !errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				break
			}
		}
		if err := w.step(rng); err != nil {
			return nil, err
		}
		out.Iterations = step
		if step > o.BurnIn && (step-o.BurnIn)%o.Thin == 0 {
			data = append(data, w.point...)
			recorded++
			if recorded == o.Samples {
				outcome = OutcomeComplete
				break
			}
		}
	}
	out.Outcome = outcome
	out.Clamped = w.clamped
	if recorded > 0 {
		vals, err := matrix.NewDenseFrom(recorded, n, data)
		if err != nil {
			return nil, fmt.Errorf("sampler: %w", err)
		}
		out.Values = vals
	}

	o.Logger.Info("sampling finished",
		zap.Int64("seed", seed),
		zap.Stringer("outcome", outcome),
		zap.Int("samples", recorded),
		zap.Int("iterations", out.Iterations),
		zap.Int("clamped", w.clamped),
	)
	return out, nil
}

// Chains runs n independent chains in parallel. Chain i uses
// DeriveSeed(Options.Seed, i); results are in chain order.
func (sp *Sampler) Chains(ctx context.Context, n int) ([]*SampleSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: chains %d must be > 0", ErrInvalidOptions, n)
	}
	out := make([]*SampleSet, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sp.opts.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			set, err := sp.Run(gctx, DeriveSeed(sp.opts.Seed, uint64(i)))
			if err != nil {
				return fmt.Errorf("sampler: chain %d: %w", i, err)
			}
			out[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// walker is the mutable state of one chain.
type walker struct {
	sp       *Sampler
	point    []float64
	centroid []float64
	visits   float64
	dir      []float64
	clamped  int
}

func newWalker(sp *Sampler) *walker {
	return &walker{
		sp:       sp,
		point:    append([]float64(nil), sp.start...),
		centroid: append([]float64(nil), sp.start...),
		visits:   float64(sp.warmup.Rows()),
		dir:      make([]float64, len(sp.start)),
	}
}

// step performs one hit-and-run move. A direction with an empty feasible
// interval leaves the point in place.
func (w *walker) step(rng *rand.Rand) error {
	sp := w.sp
	target := sp.warmup.RowView(rng.Intn(sp.warmup.Rows()))
	floats.SubTo(w.dir, target, w.centroid)

	z, err := matrix.MatTVec(sp.basis, w.dir)
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	d, err := matrix.MatVec(sp.basis, z)
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	norm := floats.Norm(d, 2)
	if norm < minStep {
		w.advance()
		return nil
	}
	floats.Scale(1/norm, d)

	lo, hi, err := w.interval(d)
	if err != nil {
		return err
	}
	if hi-lo > minStep {
		alpha := lo + rng.Float64()*(hi-lo)
		floats.AddScaled(w.point, alpha, d)
		w.clamp()
	}
	w.advance()
	return nil
}

// interval is the ratio test: the α range keeping point + α·d within bounds.
func (w *walker) interval(d []float64) (float64, float64, error) {
	sp := w.sp
	lo, hi := math.Inf(-1), math.Inf(1)
	for j, dj := range d {
		if math.Abs(dj) < minStep {
			continue
		}
		a := (sp.lower[j] - w.point[j]) / dj
		b := (sp.upper[j] - w.point[j]) / dj
		if dj < 0 {
			a, b = b, a
		}
		lo = math.Max(lo, a)
		hi = math.Min(hi, b)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 0, fmt.Errorf("%w: direction leaves every bound", ErrUnboundedSpace)
	}
	// The current point may sit marginally outside a bound after clamping.
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	return lo, hi, nil
}

// clamp pulls coordinates back inside their bounds and logs each event.
func (w *walker) clamp() {
	sp := w.sp
	for j, x := range w.point {
		var bound float64
		switch {
		case x < sp.lower[j]:
			bound = sp.lower[j]
		case x > sp.upper[j]:
			bound = sp.upper[j]
		default:
			continue
		}
		violation := math.Abs(x - bound)
		w.point[j] = bound
		w.clamped++
		fields := []zap.Field{
			zap.String("reaction", sp.ids[j]),
			zap.Float64("value", x),
			zap.Float64("bound", bound),
			zap.Float64("violation", violation),
		}
		if violation <= sp.opts.Tolerance {
			sp.opts.Logger.Debug("clamped flux within tolerance", fields...)
		} else {
			sp.opts.Logger.Warn("clamped flux beyond tolerance", fields...)
		}
	}
}

// advance folds the current point into the running centroid.
func (w *walker) advance() {
	w.visits++
	inv := 1 / w.visits
	for j, x := range w.point {
		w.centroid[j] += (x - w.centroid[j]) * inv
	}
}
