package synleth

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// ErrInvalidOptions is returned for option values outside their domain.
var ErrInvalidOptions = errors.New("synleth: invalid options")

const (
	DefaultMaxDepth            = 3
	DefaultActiveCutoff        = 1e-7
	DefaultPFBAFraction        = 0.95
	DefaultEssentialProportion = 0.01
)

// Options configures the search.
type Options struct {
	// MaxDepth is the largest gene set considered.
	MaxDepth int
	// ActiveCutoff: reactions with |flux| above it in the parsimonious
	// solution contribute candidate genes.
	ActiveCutoff float64
	// PFBAFraction of the optimum the parsimonious solution must keep.
	PFBAFraction float64
	// EssentialProportion of the wild-type optimum at or below which a
	// knockout is lethal.
	EssentialProportion float64
	// Workers bounds concurrent solves within a level.
	Workers int
	Logger  *zap.Logger
}

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxDepth:            DefaultMaxDepth,
		ActiveCutoff:        DefaultActiveCutoff,
		PFBAFraction:        DefaultPFBAFraction,
		EssentialProportion: DefaultEssentialProportion,
		Workers:             runtime.GOMAXPROCS(0),
		Logger:              zap.NewNop(),
	}
}

func (o *Options) normalize() error {
	switch {
	case o.MaxDepth < 1:
		return fmt.Errorf("%w: max depth %d must be ≥ 1", ErrInvalidOptions, o.MaxDepth)
	case !(o.ActiveCutoff >= 0):
		return fmt.Errorf("%w: active cutoff %g must be ≥ 0", ErrInvalidOptions, o.ActiveCutoff)
	case !(o.PFBAFraction > 0 && o.PFBAFraction <= 1):
		return fmt.Errorf("%w: pFBA fraction %g must be in (0, 1]", ErrInvalidOptions, o.PFBAFraction)
	case !(o.EssentialProportion >= 0 && o.EssentialProportion < 1):
		return fmt.Errorf("%w: essential proportion %g must be in [0, 1)", ErrInvalidOptions, o.EssentialProportion)
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}
