package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/metflux/problem"
)

var (
	// ErrNilProblem is returned when Solve receives a nil problem.
	ErrNilProblem = errors.New("solver: nil problem")

	// ErrInvalidProblem wraps problem.Validate failures.
	ErrInvalidProblem = errors.New("solver: invalid problem")

	// ErrNotOptimal is matched by every *StatusError.
	ErrNotOptimal = errors.New("solver: not optimal")
)

// Status is the outcome class of one solve.
type Status uint8

const (
	Optimal Status = iota
	Infeasible
	Unbounded
	NumericalError
	Timeout
)

var statusNames = [...]string{
	Optimal:        "OPTIMAL",
	Infeasible:     "INFEASIBLE",
	Unbounded:      "UNBOUNDED",
	NumericalError: "NUMERICAL_ERROR",
	Timeout:        "TIMEOUT",
}

// String returns the upper-case status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("solver: unknown status %q", s)
}

// Result is the outcome of one solve. Values is indexed like Problem.Vars
// and is set for Optimal, and for Timeout when an incumbent exists.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
	// Nodes counts branch-and-bound nodes (1 for a pure LP).
	Nodes int
}

// OK reports Status == Optimal.
func (r Result) OK() bool { return r.Status == Optimal }

// HasSolution reports whether Values carries a feasible point.
func (r Result) HasSolution() bool { return r.Values != nil }

// Solver solves optimization problems. Implementations must be safe for
// concurrent use and must honor ctx cancellation and deadlines.
type Solver interface {
	Solve(ctx context.Context, p *problem.Problem) (Result, error)
}

// Func adapts an ordinary function to the Solver interface.
type Func func(ctx context.Context, p *problem.Problem) (Result, error)

// Solve calls f(ctx, p).
func (f Func) Solve(ctx context.Context, p *problem.Problem) (Result, error) { return f(ctx, p) }

// StatusError reports a non-optimal status where the caller cannot continue.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("solver: %s: status %v", e.Op, e.Status)
}

// Unwrap lets errors.Is(err, ErrNotOptimal) match.
func (e *StatusError) Unwrap() error { return ErrNotOptimal }

// Check validates p the way every backend must before solving.
func Check(p *problem.Problem) error {
	if p == nil {
		return ErrNilProblem
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProblem, err)
	}
	return nil
}

// Require solves p and returns an error unless the status is Optimal.
func Require(ctx context.Context, s Solver, op string, p *problem.Problem) (Result, error) {
	res, err := s.Solve(ctx, p)
	if err != nil {
		return Result{}, err
	}
	if !res.OK() {
		return res, &StatusError{Op: op, Status: res.Status}
	}
	return res, nil
}
