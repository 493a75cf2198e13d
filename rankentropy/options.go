package rankentropy

import (
	"fmt"
	"math"
	"runtime"
)

// Method selects the statistic.
type Method uint8

const (
	Crane Method = iota
	Dirac
	DiracClassification
)

var methodNames = [...]string{
	Crane:               "crane",
	Dirac:               "dirac",
	DiracClassification: "dirac-classification",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", m)
}

// ParseMethod is the inverse of String.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: method %q", ErrInvalidOptions, s)
}

const DefaultIterations = 1000

// Options configures Compare.
type Options struct {
	Method Method
	// Iterations is the size of the bootstrap null distribution.
	Iterations int
	// Replace draws the null groups from the pooled rows with
	// replacement; otherwise every iteration is a random split.
	Replace bool
	Seed    int64
	// Workers bounds concurrent iterations. The null does not depend on it.
	Workers int
	// KDE smooths the null with a Gaussian kernel before reading the
	// p-value; otherwise the empirical tail is used.
	KDE bool
	// Bandwidth scales the null standard deviation into the kernel width;
	// 0 selects Scott's factor n^(-1/5).
	Bandwidth float64
}

// DefaultOptions returns Crane with a smoothed 1000-draw bootstrap.
func DefaultOptions() Options {
	return Options{
		Method:     Crane,
		Iterations: DefaultIterations,
		Replace:    true,
		Workers:    runtime.GOMAXPROCS(0),
		KDE:        true,
	}
}

func (o Options) validate() error {
	switch {
	case o.Method > DiracClassification:
		return fmt.Errorf("%w: method %d", ErrInvalidOptions, o.Method)
	case o.Iterations < 1:
		return fmt.Errorf("%w: iterations %d must be ≥ 1", ErrInvalidOptions, o.Iterations)
	case o.Bandwidth < 0 || math.IsNaN(o.Bandwidth) || math.IsInf(o.Bandwidth, 0):
		return fmt.Errorf("%w: bandwidth %g", ErrInvalidOptions, o.Bandwidth)
	}
	return nil
}
