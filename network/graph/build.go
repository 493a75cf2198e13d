package graph

import (
	"fmt"
	"math"

	"github.com/katalvlaran/metflux/network"
)

// Build constructs the graph of v's model under v's bounds.
//
// Errors: ErrRangeCount and ErrInvalidRange for bad flux ranges,
// ErrUnknownNode for WithoutNodes ids that are not in the model.
func Build(v *network.View, opts ...Option) (*Graph, error) {
	c := config{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&c)
	}
	m := v.Model()
	nm, nr := m.NumMetabolites(), m.NumReactions()

	fwd, rev, err := capacities(v, c)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, nm+nr)
	for _, id := range m.MetaboliteIDs() {
		nodes = append(nodes, Node{ID: id, Kind: KindMetabolite})
	}
	for _, id := range m.ReactionIDs() {
		nodes = append(nodes, Node{ID: id, Kind: KindReaction})
	}
	g := newGraph(c.directed, c.weighting != WeightNone, nodes)

	if s := m.Stoichiometry(); s != nil {
		for j := 0; j < nr; j++ {
			rxn := nm + j
			s.Column(j, func(met int, coef float64) {
				a := math.Abs(coef)
				consume, generate := a*fwd[j], a*rev[j]
				if coef > 0 {
					consume, generate = generate, consume
				}
				if c.weighting == WeightNone {
					consume, generate = unit(consume), unit(generate)
				}
				if !c.directed {
					if w := math.Max(consume, generate); w > 0 {
						g.link(met, rxn, w)
					}
					return
				}
				if consume > 0 {
					g.link(met, rxn, consume)
				}
				if generate > 0 {
					g.link(rxn, met, generate)
				}
			})
		}
	}

	if c.reciprocal {
		g = g.Reciprocal()
	}
	if len(c.remove) > 0 {
		return g.Without(c.remove...)
	}
	return g, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func unit(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// capacities returns, per reaction, how much each direction can carry:
// 1 or 0 from the bounds, or the FVA extremes under flux weighting. Values
// at or below the threshold are 0.
func capacities(v *network.View, c config) (fwd, rev []float64, err error) {
	n := v.NumReactions()
	fwd, rev = make([]float64, n), make([]float64, n)
	open := func(x float64) float64 {
		if x > c.threshold {
			return x
		}
		return 0
	}

	if c.weighting != WeightFlux {
		for j := 0; j < n; j++ {
			b := v.Bounds(j)
			fwd[j] = unit(open(b.Upper))
			rev[j] = unit(open(-b.Lower))
		}
		return fwd, rev, nil
	}

	if len(c.ranges) != n {
		return nil, nil, fmt.Errorf("%w: %d ranges for %d reactions", ErrRangeCount, len(c.ranges), n)
	}
	for j, r := range c.ranges {
		if !finite(r.Min) || !finite(r.Max) || r.Min > r.Max {
			id := v.Model().Reaction(j).ID
			return nil, nil, fmt.Errorf("%w: %q [%g, %g]", ErrInvalidRange, id, r.Min, r.Max)
		}
		fwd[j] = open(math.Max(r.Max, 0))
		rev[j] = open(math.Max(-r.Min, 0))
	}
	return fwd, rev, nil
}
