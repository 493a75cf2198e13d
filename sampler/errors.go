package sampler

import "errors"

var (
	// ErrDegenerateSpace is returned when the polytope has no free direction:
	// the equality null space is trivial or every warm-up point coincides.
	ErrDegenerateSpace = errors.New("sampler: degenerate flux space")

	// ErrUnboundedSpace is returned when a warm-up problem is unbounded.
	ErrUnboundedSpace = errors.New("sampler: unbounded flux space")

	// ErrInvalidOptions is returned for option values outside their domain.
	ErrInvalidOptions = errors.New("sampler: invalid options")
)
