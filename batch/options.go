package batch

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/problem"
)

const (
	DefaultRelaxRetries = 3
	DefaultRelaxFactor  = 0.9
)

// Options configures a Runner.
type Options struct {
	// Workers bounds the number of targets in flight.
	Workers int
	// TargetTimeout bounds each target; 0 disables the limit. A target that
	// runs out of time is recorded with solver.Timeout.
	TargetTimeout time.Duration
	// Metchange configures both Metchange stages.
	Metchange problem.MetchangeOptions
	// RelaxRetries is how many times an infeasible Metchange stage two is
	// retried with a lower sink requirement.
	RelaxRetries int
	// RelaxFactor scales the sink lower bound on each retry, in (0, 1).
	RelaxFactor float64
	// IMAT configures Runner.IMAT.
	IMAT problem.IMATOptions

	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// DefaultOptions returns GOMAXPROCS workers, no timeout, the problem
// package defaults, a no-op logger and no metrics registration.
func DefaultOptions() Options {
	return Options{
		Workers:      runtime.GOMAXPROCS(0),
		Metchange:    problem.DefaultMetchangeOptions(),
		RelaxRetries: DefaultRelaxRetries,
		RelaxFactor:  DefaultRelaxFactor,
		IMAT:         problem.DefaultIMATOptions(),
		Logger:       zap.NewNop(),
	}
}

// Option mutates Options. Constructors panic on invalid values.
type Option func(*Options)

// WithWorkers sets the worker bound; n must be > 0.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic("batch: workers must be > 0")
	}
	return func(o *Options) { o.Workers = n }
}

// WithTargetTimeout bounds every target.
func WithTargetTimeout(d time.Duration) Option {
	if d < 0 {
		panic("batch: negative target timeout")
	}
	return func(o *Options) { o.TargetTimeout = d }
}

// WithMetchange replaces the Metchange options.
func WithMetchange(mo problem.MetchangeOptions) Option {
	if err := mo.Validate(); err != nil {
		panic("batch: " + err.Error())
	}
	return func(o *Options) { o.Metchange = mo }
}

// WithRelaxation sets the stage-two retry policy. retries may be 0.
func WithRelaxation(retries int, factor float64) Option {
	if retries < 0 {
		panic("batch: negative relax retries")
	}
	if !(factor > 0 && factor < 1) {
		panic("batch: relax factor must be in (0, 1)")
	}
	return func(o *Options) {
		o.RelaxRetries = retries
		o.RelaxFactor = factor
	}
}

// WithIMAT replaces the IMAT options used by Runner.IMAT.
func WithIMAT(io problem.IMATOptions) Option {
	return func(o *Options) { o.IMAT = io }
}

// WithLogger sets the logger; every run derives a child with its run id.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("batch: nil logger")
	}
	return func(o *Options) { o.Logger = l }
}

// WithRegisterer registers the Runner's collectors with reg. Collectors
// already registered by another Runner are shared.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registerer = reg }
}
