package divergence

import "errors"

var (
	// ErrEmptySample is returned when a sample has no (or too few) points.
	ErrEmptySample = errors.New("divergence: empty sample")

	// ErrReactionMismatch is returned when two sample sets do not cover the same reactions.
	ErrReactionMismatch = errors.New("divergence: reaction mismatch")

	// ErrUnsupported is returned for measure/estimator combinations that are not implemented.
	ErrUnsupported = errors.New("divergence: unsupported")

	// ErrInvalidOptions is returned for option values outside their domain.
	ErrInvalidOptions = errors.New("divergence: invalid options")

	// ErrNonFinite is returned when a sample contains NaN or ±Inf.
	ErrNonFinite = errors.New("divergence: non-finite value")

	// ErrTiedSamples is returned by the kNN estimator when a neighbour
	// distance is zero; use Jitter to break ties.
	ErrTiedSamples = errors.New("divergence: tied samples")
)
