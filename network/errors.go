package network

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReaction is returned when an id does not name a model reaction.
	ErrUnknownReaction = errors.New("network: unknown reaction")

	// ErrUnknownMetabolite is returned when a reaction references an undeclared metabolite.
	ErrUnknownMetabolite = errors.New("network: unknown metabolite")

	// ErrUnknownGene is returned when a rule or knockout references an undeclared gene.
	ErrUnknownGene = errors.New("network: unknown gene")

	// ErrInvalidBound is returned when lower > upper or a bound is NaN.
	ErrInvalidBound = errors.New("network: invalid bound")

	// ErrDuplicateID is returned when two entities of the same kind share an id.
	ErrDuplicateID = errors.New("network: duplicate id")

	// ErrEmptyID is returned for an entity with an empty identifier.
	ErrEmptyID = errors.New("network: empty id")
)

// ReactionError attaches the offending reaction id to a sentinel.
type ReactionError struct {
	Reaction string
	Err      error
}

func (e *ReactionError) Error() string {
	return fmt.Sprintf("reaction %q: %v", e.Reaction, e.Err)
}

func (e *ReactionError) Unwrap() error { return e.Err }

// BoundError reports an invalid (lower, upper) pair for one reaction.
type BoundError struct {
	Reaction     string
	Lower, Upper float64
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%v: reaction %q has lower=%g upper=%g", ErrInvalidBound, e.Reaction, e.Lower, e.Upper)
}

// Unwrap lets errors.Is(err, ErrInvalidBound) match.
func (e *BoundError) Unwrap() error { return ErrInvalidBound }
