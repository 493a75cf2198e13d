package sampler

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
)

const (
	DefaultSamples   = 1000
	DefaultBurnIn    = 100
	DefaultThin      = 1
	DefaultTolerance = 1e-7
)

// Options configures warm-up and the walk.
type Options struct {
	// Samples is the number of points to record.
	Samples int
	// BurnIn steps are walked but not recorded.
	BurnIn int
	// Thin records every Thin-th step after burn-in.
	Thin int
	// MaxIterations caps the walk; 0 means exactly BurnIn + Samples·Thin.
	// When the cap is hit first the run ends with OutcomeTimeout.
	MaxIterations int
	// Seed of the chain; 0 is replaced by a fixed default.
	Seed int64
	// Tolerance: bound violations up to this size are clamped and logged at
	// debug level; larger ones are clamped and logged as warnings.
	Tolerance float64
	// Workers bounds concurrent warm-up solves and concurrent chains.
	Workers int
	Logger  *zap.Logger
}

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		Samples:   DefaultSamples,
		BurnIn:    DefaultBurnIn,
		Thin:      DefaultThin,
		Tolerance: DefaultTolerance,
		Workers:   runtime.GOMAXPROCS(0),
		Logger:    zap.NewNop(),
	}
}

func (o *Options) normalize() error {
	switch {
	case o.Samples <= 0:
		return fmt.Errorf("%w: samples %d must be > 0", ErrInvalidOptions, o.Samples)
	case o.BurnIn < 0:
		return fmt.Errorf("%w: burn-in %d must be ≥ 0", ErrInvalidOptions, o.BurnIn)
	case o.Thin <= 0:
		return fmt.Errorf("%w: thin %d must be > 0", ErrInvalidOptions, o.Thin)
	case o.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations %d must be ≥ 0", ErrInvalidOptions, o.MaxIterations)
	case !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0):
		return fmt.Errorf("%w: tolerance %g must be finite and > 0", ErrInvalidOptions, o.Tolerance)
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// iterations is the effective step cap.
func (o Options) iterations() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return o.BurnIn + o.Samples*o.Thin
}
