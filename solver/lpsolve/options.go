package lpsolve

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTolerance is the feasibility and reduced-cost tolerance.
	DefaultTolerance = 1e-9
	// DefaultIntegralityTolerance is the distance from {0,1} accepted as integral.
	DefaultIntegralityTolerance = 1e-6
	// DefaultMaxNodes caps branch-and-bound.
	DefaultMaxNodes = 100000
)

// Option configures a Solver. Options panic on invalid arguments, since
// they are programmer errors caught at construction time.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	Tolerance            float64
	IntegralityTolerance float64
	MaxNodes             int
	// TimeLimit bounds one Solve call; zero means no limit beyond ctx.
	TimeLimit time.Duration
	Logger    *zap.Logger
}

// DefaultOptions returns the defaults listed above with a no-op logger.
func DefaultOptions() Options {
	return Options{
		Tolerance:            DefaultTolerance,
		IntegralityTolerance: DefaultIntegralityTolerance,
		MaxNodes:             DefaultMaxNodes,
		Logger:               zap.NewNop(),
	}
}

// WithTolerance sets the feasibility tolerance; tol must be in (0, 1e-3].
func WithTolerance(tol float64) Option {
	if !(tol > 0 && tol <= 1e-3) {
		panic("lpsolve: tolerance must be in (0, 1e-3]")
	}
	return func(o *Options) { o.Tolerance = tol }
}

// WithIntegralityTolerance sets how far from 0 or 1 a binary may be.
func WithIntegralityTolerance(tol float64) Option {
	if !(tol > 0 && tol < 0.5) {
		panic("lpsolve: integrality tolerance must be in (0, 0.5)")
	}
	return func(o *Options) { o.IntegralityTolerance = tol }
}

// WithMaxNodes caps the number of branch-and-bound nodes; n must be > 0.
func WithMaxNodes(n int) Option {
	if n <= 0 {
		panic("lpsolve: max nodes must be > 0")
	}
	return func(o *Options) { o.MaxNodes = n }
}

// WithTimeLimit bounds each Solve call. Zero disables the limit.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic("lpsolve: negative time limit")
	}
	return func(o *Options) { o.TimeLimit = d }
}

// WithLogger sets the logger used for branch-and-bound progress.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("lpsolve: nil logger")
	}
	return func(o *Options) { o.Logger = l }
}
