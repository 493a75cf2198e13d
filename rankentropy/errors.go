package rankentropy

import "errors"

var (
	// ErrEmptyGroup is returned when a sample group has no rows.
	ErrEmptyGroup = errors.New("rankentropy: empty sample group")

	// ErrTooFewGenes is returned for gene sets with fewer than two genes.
	ErrTooFewGenes = errors.New("rankentropy: fewer than two genes")

	ErrNonFinite         = errors.New("rankentropy: non-finite value")
	ErrDimensionMismatch = errors.New("rankentropy: dimension mismatch")
	ErrInvalidOptions    = errors.New("rankentropy: invalid options")

	ErrUnknownSample = errors.New("rankentropy: unknown sample")
	ErrUnknownGene   = errors.New("rankentropy: unknown gene")
)
