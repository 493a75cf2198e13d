package problem

import (
	"errors"
	"fmt"
)

var (
	// ErrInfeasibleModel marks structurally invalid input, e.g. zero reactions.
	// It is unrelated to solver-reported infeasibility.
	ErrInfeasibleModel = errors.New("problem: structurally infeasible model")

	// ErrNoObjective is returned when no objective coefficient is given or defined by the model.
	ErrNoObjective = errors.New("problem: empty objective")

	// ErrInvalidOptions is returned for option values outside their domain.
	ErrInvalidOptions = errors.New("problem: invalid options")

	// ErrBigMTooSmall is matched by *BigMError.
	ErrBigMTooSmall = errors.New("problem: big-M smaller than a reaction bound")

	// ErrInvalidWeights is returned for empty, all-zero, negative or non-finite Metchange weights.
	ErrInvalidWeights = errors.New("problem: invalid weights")

	// ErrInvalidProblem is returned by Validate for malformed problems.
	ErrInvalidProblem = errors.New("problem: invalid problem")
)

// BigMError names the first reaction whose bound magnitude exceeds M.
type BigMError struct {
	Reaction  string
	Magnitude float64
	M         float64
}

func (e *BigMError) Error() string {
	return fmt.Sprintf("%v: reaction %q has bound magnitude %g > M=%g", ErrBigMTooSmall, e.Reaction, e.Magnitude, e.M)
}

// Unwrap lets errors.Is(err, ErrBigMTooSmall) match.
func (e *BigMError) Unwrap() error { return ErrBigMTooSmall }

// problemErrorf tags err with the builder name.
func problemErrorf(op string, err error) error {
	return fmt.Errorf("problem: %s: %w", op, err)
}
