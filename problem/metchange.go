package problem

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/metflux/network"
)

// MetchangeOptions configures the two Metchange stages.
type MetchangeOptions struct {
	// Proportion of the maximal sink flux that stage two must keep, in (0, 1].
	Proportion float64
	// SinkUpper bounds the temporary sink reaction.
	SinkUpper float64
}

// DefaultMetchangeOptions returns Proportion 0.95 and a sink bounded by the
// conventional 1000.
func DefaultMetchangeOptions() MetchangeOptions {
	return MetchangeOptions{Proportion: 0.95, SinkUpper: network.DefaultBound}
}

// Validate checks the option domain.
func (o MetchangeOptions) Validate() error {
	if !(o.Proportion > 0 && o.Proportion <= 1) {
		return fmt.Errorf("%w: proportion %g must be in (0, 1]", ErrInvalidOptions, o.Proportion)
	}
	if !(o.SinkUpper > 0) || math.IsInf(o.SinkUpper, 0) {
		return fmt.Errorf("%w: sink upper bound %g must be finite and > 0", ErrInvalidOptions, o.SinkUpper)
	}
	return nil
}

// SinkName is the variable name of the temporary sink for metabolite.
func SinkName(metabolite string) string { return "sink_" + metabolite }

// withSink adds a sink pseudo-reaction consuming metabolite (coefficient −1).
func withSink(name string, v *network.View, metabolite string, lower float64, opts MetchangeOptions) (*fluxProblem, int, error) {
	if err := opts.Validate(); err != nil {
		return nil, 0, err
	}
	fp, err := newFluxProblem(name, v)
	if err != nil {
		return nil, 0, err
	}
	i, ok := v.Model().MetaboliteIndex(metabolite)
	if !ok {
		return nil, 0, fmt.Errorf("%w %q", network.ErrUnknownMetabolite, metabolite)
	}
	sink := fp.AddVar(Variable{Name: SinkName(metabolite), Lower: lower, Upper: opts.SinkUpper})
	if row := fp.metRow[i]; row >= 0 {
		c := &fp.Constraints[row]
		c.Terms = append(c.Terms, Term{Var: sink, Coef: -1})
	} else {
		fp.metRow[i] = fp.AddConstraint(Constraint{
			Name:  "mass_balance_" + metabolite,
			Terms: []Term{{Var: sink, Coef: -1}},
		})
	}
	return fp, sink, nil
}

// MetchangeMax builds stage one: maximize the flux through a temporary sink
// for metabolite.
func MetchangeMax(v *network.View, metabolite string, opts MetchangeOptions) (*Problem, error) {
	fp, sink, err := withSink("metchange_max", v, metabolite, 0, opts)
	if err != nil {
		return nil, problemErrorf("MetchangeMax", err)
	}
	fp.Objective = []Term{{Var: sink, Coef: 1}}
	fp.Sense = Maximize
	return fp.Problem, nil
}

// MetchangeMin builds stage two: with the sink forced to at least minSink,
// minimize Σ w_j·|v_j| over the weighted reactions. The optimum is the
// metabolite's inconsistency score.
//
// Callers normally pass minSink = Proportion × the stage-one optimum.
//
// Errors:
//   - ErrInvalidWeights for empty, all-zero, negative or non-finite weights.
//   - network.ErrUnknownReaction / ErrUnknownMetabolite.
func MetchangeMin(v *network.View, metabolite string, weights map[string]float64, minSink float64, opts MetchangeOptions) (*Problem, error) {
	if len(weights) == 0 {
		return nil, problemErrorf("MetchangeMin", fmt.Errorf("%w: no weights", ErrInvalidWeights))
	}
	if math.IsNaN(minSink) || minSink < 0 || minSink > opts.SinkUpper {
		return nil, problemErrorf("MetchangeMin", fmt.Errorf("%w: minimum sink %g outside [0, %g]", ErrInvalidOptions, minSink, opts.SinkUpper))
	}
	fp, _, err := withSink("metchange_min", v, metabolite, minSink, opts)
	if err != nil {
		return nil, problemErrorf("MetchangeMin", err)
	}
	ids := make([]string, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var terms []Term
	for _, id := range ids {
		w := weights[id]
		j, ok := v.Model().ReactionIndex(id)
		if !ok {
			return nil, problemErrorf("MetchangeMin", &network.ReactionError{Reaction: id, Err: network.ErrUnknownReaction})
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, problemErrorf("MetchangeMin", fmt.Errorf("%w: weight %g for %q", ErrInvalidWeights, w, id))
		}
		if w == 0 {
			continue
		}
		terms = append(terms, fp.absTerm(j, w))
	}
	if len(terms) == 0 {
		return nil, problemErrorf("MetchangeMin", fmt.Errorf("%w: all weights are zero", ErrInvalidWeights))
	}
	fp.Objective = terms
	fp.Sense = Minimize
	return fp.Problem, nil
}

// LowScoreWeights turns reaction scores into Metchange weights: 1 for
// reactions scoring ≤ threshold (evidence says they should carry no flux),
// 0 otherwise. NaN scores get weight 0.
func LowScoreWeights(scores map[string]float64, threshold float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for id, s := range scores {
		if s <= threshold {
			out[id] = 1
		} else {
			out[id] = 0
		}
	}
	return out
}
