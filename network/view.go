package network

import (
	"fmt"

	"github.com/katalvlaran/metflux/gpr"
)

// View is a bounded overlay of a Model: the model's reactions and
// stoichiometry with its own bound vectors. Views are immutable; every
// modifier returns a new View and leaves the receiver untouched.
type View struct {
	model *Model
	lower []float64
	upper []float64
}

// Model returns the underlying model.
func (v *View) Model() *Model { return v.model }

// NumReactions returns the number of flux variables.
func (v *View) NumReactions() int { return len(v.lower) }

// Bounds returns the bounds of reaction i.
func (v *View) Bounds(i int) Bounds { return Bounds{Lower: v.lower[i], Upper: v.upper[i]} }

// BoundsOf returns the bounds of reaction id.
func (v *View) BoundsOf(id string) (Bounds, error) {
	i, ok := v.model.rxnIndex[id]
	if !ok {
		return Bounds{}, &ReactionError{Reaction: id, Err: ErrUnknownReaction}
	}
	return v.Bounds(i), nil
}

// Lower returns a copy of the lower bound vector.
func (v *View) Lower() []float64 { return append([]float64(nil), v.lower...) }

// Upper returns a copy of the upper bound vector.
func (v *View) Upper() []float64 { return append([]float64(nil), v.upper...) }

// WithBounds returns a view with the given reactions' bounds replaced.
// Reactions not named keep the receiver's bounds exactly. Only the two bound
// vectors are copied; S is shared.
//
// Errors:
//   - *ReactionError wrapping ErrUnknownReaction for an unknown key.
//   - *BoundError (ErrInvalidBound) when lower > upper or NaN.
//
// Keys are checked in sorted order so the reported error is deterministic.
func (v *View) WithBounds(overrides map[string]Bounds) (*View, error) {
	idx := make([]int, 0, len(overrides))
	keys := sortedKeys(overrides)
	for _, id := range keys {
		i, ok := v.model.rxnIndex[id]
		if !ok {
			return nil, &ReactionError{Reaction: id, Err: ErrUnknownReaction}
		}
		if b := overrides[id]; !b.Valid() {
			return nil, &BoundError{Reaction: id, Lower: b.Lower, Upper: b.Upper}
		}
		idx = append(idx, i)
	}
	out := v.clone()
	for k, id := range keys {
		b := overrides[id]
		out.lower[idx[k]], out.upper[idx[k]] = b.Lower, b.Upper
	}

	return out, nil
}

// WithKnockouts returns a view in which every reaction whose rule is no
// longer satisfiable without the given genes is fixed to [0, 0].
// Reactions without a rule are never affected.
func (v *View) WithKnockouts(genes ...string) (*View, error) {
	knocked := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		if !v.model.HasGene(g) {
			return nil, fmt.Errorf("knockout %q: %w", g, ErrUnknownGene)
		}
		knocked[g] = struct{}{}
	}
	present := func(g string) bool {
		_, gone := knocked[g]
		return !gone
	}
	out := v.clone()
	for _, g := range genes {
		for _, j := range v.model.geneRxns[g] {
			if !gpr.Active(v.model.reactions[j].Rule, present) {
				out.lower[j], out.upper[j] = 0, 0
			}
		}
	}

	return out, nil
}

// KnockedReactions lists the reactions a knockout of genes would disable,
// in model order.
func (v *View) KnockedReactions(genes ...string) ([]string, error) {
	ko, err := v.WithKnockouts(genes...)
	if err != nil {
		return nil, err
	}
	var ids []string
	for j := range v.lower {
		if ko.lower[j] == 0 && ko.upper[j] == 0 && (v.lower[j] != 0 || v.upper[j] != 0) {
			ids = append(ids, v.model.reactions[j].ID)
		}
	}
	return ids, nil
}

func (v *View) clone() *View {
	return &View{model: v.model, lower: v.Lower(), upper: v.Upper()}
}
