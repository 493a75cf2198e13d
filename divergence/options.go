package divergence

import (
	"fmt"
	"math"
	"runtime"
)

// Measure selects the divergence.
type Measure uint8

const (
	KL Measure = iota // Kullback-Leibler D(P‖Q), asymmetric
	JS                // Jensen-Shannon, symmetric
)

// String returns "kl" or "js".
func (m Measure) String() string {
	if m == JS {
		return "js"
	}
	return "kl"
}

// ParseMeasure accepts "kl" or "js".
func ParseMeasure(s string) (Measure, error) {
	switch s {
	case "kl":
		return KL, nil
	case "js":
		return JS, nil
	}
	return 0, fmt.Errorf("%w: measure %q", ErrUnsupported, s)
}

// Estimator selects how densities are estimated from samples.
type Estimator uint8

const (
	EstimatorHistogram Estimator = iota
	EstimatorKNN
)

// String returns "histogram" or "knn".
func (e Estimator) String() string {
	if e == EstimatorKNN {
		return "knn"
	}
	return "histogram"
}

// ParseEstimator accepts "histogram" or "knn".
func ParseEstimator(s string) (Estimator, error) {
	switch s {
	case "histogram":
		return EstimatorHistogram, nil
	case "knn":
		return EstimatorKNN, nil
	}
	return 0, fmt.Errorf("%w: estimator %q", ErrUnsupported, s)
}

const (
	DefaultBins        = 20
	DefaultPseudocount = 1e-3
	DefaultNeighbors   = 5
)

// Options configures a comparison.
type Options struct {
	Measure   Measure
	Estimator Estimator
	// Bins is the number of histogram bins.
	Bins int
	// Pseudocount is added to every bin (and every discrete outcome) of
	// both distributions before normalization.
	Pseudocount float64
	// Neighbors is k for EstimatorKNN.
	Neighbors int
	// Jitter, when > 0, adds N(0, Jitter²) noise to kNN inputs to break
	// ties. The noise is seeded by JitterSeed.
	Jitter     float64
	JitterSeed int64
	// Workers bounds the number of reactions compared concurrently.
	Workers int
}

// DefaultOptions returns histogram JS with the package defaults.
func DefaultOptions() Options {
	return Options{
		Measure:     JS,
		Estimator:   EstimatorHistogram,
		Bins:        DefaultBins,
		Pseudocount: DefaultPseudocount,
		Neighbors:   DefaultNeighbors,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

func (o Options) validate() error {
	switch {
	case o.Measure > JS:
		return fmt.Errorf("%w: measure %d", ErrUnsupported, o.Measure)
	case o.Estimator > EstimatorKNN:
		return fmt.Errorf("%w: estimator %d", ErrUnsupported, o.Estimator)
	case o.Estimator == EstimatorKNN && o.Measure == JS:
		return fmt.Errorf("%w: the kNN estimator only supports kl", ErrUnsupported)
	case o.Estimator == EstimatorHistogram && o.Bins < 1:
		return fmt.Errorf("%w: bins %d must be ≥ 1", ErrInvalidOptions, o.Bins)
	case !(o.Pseudocount > 0) || math.IsInf(o.Pseudocount, 0):
		return fmt.Errorf("%w: pseudocount %g must be finite and > 0", ErrInvalidOptions, o.Pseudocount)
	case o.Estimator == EstimatorKNN && o.Neighbors < 1:
		return fmt.Errorf("%w: neighbors %d must be ≥ 1", ErrInvalidOptions, o.Neighbors)
	case o.Jitter < 0 || math.IsNaN(o.Jitter) || math.IsInf(o.Jitter, 0):
		return fmt.Errorf("%w: jitter %g", ErrInvalidOptions, o.Jitter)
	}
	return nil
}
