package graph

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for graph construction and queries.
var (
	// ErrUnknownNode indicates an operation referenced a node that is not in the graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrRangeCount indicates flux ranges that do not cover every reaction.
	ErrRangeCount = errors.New("graph: flux range count mismatch")

	// ErrInvalidRange indicates a flux range with Min > Max or a non-finite end.
	ErrInvalidRange = errors.New("graph: invalid flux range")

	// ErrEmptyGraph indicates a matrix export with no rows or no columns.
	ErrEmptyGraph = errors.New("graph: empty graph")
)

// Kind tags a node as a metabolite or a reaction.
type Kind uint8

const (
	KindMetabolite Kind = iota
	KindReaction
)

// String returns "metabolite" or "reaction".
func (k Kind) String() string {
	if k == KindReaction {
		return "reaction"
	}
	return "metabolite"
}

// Node is one vertex of the bipartite graph.
type Node struct {
	ID   string
	Kind Kind
}

// Edge connects two nodes. In undirected graphs From is always the
// metabolite.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Weighting selects how edge weights are derived.
type Weighting uint8

const (
	WeightNone Weighting = iota
	WeightStoichiometry
	WeightFlux
)

// String returns "none", "stoichiometry" or "flux".
func (w Weighting) String() string {
	switch w {
	case WeightStoichiometry:
		return "stoichiometry"
	case WeightFlux:
		return "flux"
	default:
		return "none"
	}
}

// ParseWeighting accepts the names returned by Weighting.String.
func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "none", "":
		return WeightNone, nil
	case "stoichiometry":
		return WeightStoichiometry, nil
	case "flux":
		return WeightFlux, nil
	}
	return 0, fmt.Errorf("graph: unknown weighting %q", s)
}

// DefaultThreshold is the capacity at or below which a direction counts as
// closed.
const DefaultThreshold = 1e-4

// FluxRange is the attainable flux interval of one reaction.
type FluxRange struct {
	Min float64
	Max float64
}

// Option configures Build.
type Option func(*config)

type config struct {
	directed   bool
	weighting  Weighting
	threshold  float64
	reciprocal bool
	ranges     []FluxRange
	remove     []string
}

// WithDirected draws consumption and generation edges separately.
func WithDirected() Option {
	return func(c *config) { c.directed = true }
}

// WithStoichiometryWeights weighs each edge by |S[i,j]|.
func WithStoichiometryWeights() Option {
	return func(c *config) { c.weighting = WeightStoichiometry }
}

// WithFluxWeights weighs each edge by |S[i,j]| times the directional
// capacity taken from ranges, one entry per reaction in model order.
func WithFluxWeights(ranges []FluxRange) Option {
	cp := append([]FluxRange(nil), ranges...)
	return func(c *config) {
		c.weighting = WeightFlux
		c.ranges = cp
	}
}

// WithThreshold sets the closed-direction cutoff.
// Panics if t is negative or not finite.
func WithThreshold(t float64) Option {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		panic(fmt.Sprintf("graph: WithThreshold(%g): must be finite and ≥ 0", t))
	}
	return func(c *config) { c.threshold = t }
}

// WithReciprocal stores 1/w instead of w on every edge.
func WithReciprocal() Option {
	return func(c *config) { c.reciprocal = true }
}

// WithoutNodes drops the given metabolites or reactions, and their edges,
// after construction.
func WithoutNodes(ids ...string) Option {
	cp := append([]string(nil), ids...)
	return func(c *config) { c.remove = append(c.remove, cp...) }
}
