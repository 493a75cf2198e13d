package network

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/metflux/matrix"
)

// Model is an immutable stoichiometric network. All methods are safe for
// concurrent use.
type Model struct {
	id string

	reactions []Reaction
	rxnIndex  map[string]int

	metabolites []Metabolite
	metIndex    map[string]int

	genes     []Gene
	geneIndex map[string]int
	geneRxns  map[string][]int // gene id → indices of reactions whose rule mentions it

	stoich *matrix.Sparse // metabolites × reactions; nil when there are no reactions
	base   *View
}

// New validates the entities and builds the model.
//
// Reaction order defines column order of S and of every flux vector derived
// from the model. Metabolite order defines the row order of S.
//
// Errors:
//   - ErrEmptyID, ErrDuplicateID for malformed identifiers.
//   - ErrUnknownMetabolite / ErrUnknownGene wrapped in *ReactionError.
//   - *BoundError (matches ErrInvalidBound) when lower > upper or NaN.
func New(id string, metabolites []Metabolite, genes []Gene, reactions []Reaction) (*Model, error) {
	m := &Model{
		id:          id,
		reactions:   make([]Reaction, len(reactions)),
		rxnIndex:    make(map[string]int, len(reactions)),
		metabolites: append([]Metabolite(nil), metabolites...),
		metIndex:    make(map[string]int, len(metabolites)),
		genes:       append([]Gene(nil), genes...),
		geneIndex:   make(map[string]int, len(genes)),
		geneRxns:    make(map[string][]int),
	}
	for i, met := range m.metabolites {
		if met.ID == "" {
			return nil, fmt.Errorf("metabolite #%d: %w", i, ErrEmptyID)
		}
		if _, dup := m.metIndex[met.ID]; dup {
			return nil, fmt.Errorf("metabolite %q: %w", met.ID, ErrDuplicateID)
		}
		m.metIndex[met.ID] = i
	}
	for i, g := range m.genes {
		if g.ID == "" {
			return nil, fmt.Errorf("gene #%d: %w", i, ErrEmptyID)
		}
		if _, dup := m.geneIndex[g.ID]; dup {
			return nil, fmt.Errorf("gene %q: %w", g.ID, ErrDuplicateID)
		}
		m.geneIndex[g.ID] = i
	}

	var entries []matrix.Triplet
	lower := make([]float64, len(reactions))
	upper := make([]float64, len(reactions))
	for j, r := range reactions {
		if r.ID == "" {
			return nil, fmt.Errorf("reaction #%d: %w", j, ErrEmptyID)
		}
		if _, dup := m.rxnIndex[r.ID]; dup {
			return nil, fmt.Errorf("reaction %q: %w", r.ID, ErrDuplicateID)
		}
		if !r.Bounds().Valid() {
			return nil, &BoundError{Reaction: r.ID, Lower: r.Lower, Upper: r.Upper}
		}
		coefs := make(map[string]float64, len(r.Metabolites))
		for _, metID := range sortedKeys(r.Metabolites) {
			row, ok := m.metIndex[metID]
			if !ok {
				return nil, &ReactionError{Reaction: r.ID, Err: fmt.Errorf("%w %q", ErrUnknownMetabolite, metID)}
			}
			coefs[metID] = r.Metabolites[metID]
			entries = append(entries, matrix.Triplet{Row: row, Col: j, Value: r.Metabolites[metID]})
		}
		if r.Rule != nil {
			if err := r.Rule.Validate(); err != nil {
				return nil, &ReactionError{Reaction: r.ID, Err: err}
			}
			for _, g := range r.Rule.Genes() {
				if _, ok := m.geneIndex[g]; !ok {
					return nil, &ReactionError{Reaction: r.ID, Err: fmt.Errorf("%w %q", ErrUnknownGene, g)}
				}
				m.geneRxns[g] = append(m.geneRxns[g], j)
			}
		}
		r.Metabolites = coefs
		m.reactions[j] = r
		m.rxnIndex[r.ID] = j
		lower[j], upper[j] = r.Lower, r.Upper
	}

	if len(reactions) > 0 {
		s, err := matrix.NewSparse(len(m.metabolites), len(reactions), entries)
		if err != nil {
			return nil, fmt.Errorf("network: stoichiometry: %w", err)
		}
		m.stoich = s
	}
	m.base = &View{model: m, lower: lower, upper: upper}

	return m, nil
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.id }

// NumReactions returns the number of reactions (columns of S).
func (m *Model) NumReactions() int { return len(m.reactions) }

// NumMetabolites returns the number of metabolites (rows of S).
func (m *Model) NumMetabolites() int { return len(m.metabolites) }

// Reaction returns reaction i in model order.
func (m *Model) Reaction(i int) Reaction { return m.reactions[i] }

// ReactionByID looks a reaction up by id.
func (m *Model) ReactionByID(id string) (Reaction, bool) {
	i, ok := m.rxnIndex[id]
	if !ok {
		return Reaction{}, false
	}
	return m.reactions[i], true
}

// ReactionIndex returns the column of reaction id.
func (m *Model) ReactionIndex(id string) (int, bool) {
	i, ok := m.rxnIndex[id]
	return i, ok
}

// ReactionIDs returns reaction ids in model order.
func (m *Model) ReactionIDs() []string {
	ids := make([]string, len(m.reactions))
	for i, r := range m.reactions {
		ids[i] = r.ID
	}
	return ids
}

// Metabolite returns metabolite i in model order.
func (m *Model) Metabolite(i int) Metabolite { return m.metabolites[i] }

// MetaboliteIndex returns the row of metabolite id.
func (m *Model) MetaboliteIndex(id string) (int, bool) {
	i, ok := m.metIndex[id]
	return i, ok
}

// MetaboliteIDs returns metabolite ids in model order.
func (m *Model) MetaboliteIDs() []string {
	ids := make([]string, len(m.metabolites))
	for i, met := range m.metabolites {
		ids[i] = met.ID
	}
	return ids
}

// Genes returns a copy of the gene list.
func (m *Model) Genes() []Gene { return append([]Gene(nil), m.genes...) }

// HasGene reports whether id is a declared gene.
func (m *Model) HasGene(id string) bool {
	_, ok := m.geneIndex[id]
	return ok
}

// GeneReactions returns the indices of reactions whose rule mentions gene.
func (m *Model) GeneReactions(gene string) []int {
	return append([]int(nil), m.geneRxns[gene]...)
}

// Stoichiometry returns S (metabolites × reactions). It is shared and must
// not be modified; nil when the model has no reactions.
func (m *Model) Stoichiometry() *matrix.Sparse { return m.stoich }

// Objective returns the model's default objective coefficients (non-zero only).
func (m *Model) Objective() map[string]float64 {
	obj := make(map[string]float64)
	for _, r := range m.reactions {
		if r.ObjectiveCoefficient != 0 {
			obj[r.ID] = r.ObjectiveCoefficient
		}
	}
	return obj
}

// View returns the base bounded view (the model's own bounds).
func (m *Model) View() *View { return m.base }

// WithBounds is shorthand for m.View().WithBounds(overrides).
func (m *Model) WithBounds(overrides map[string]Bounds) (*View, error) {
	return m.base.WithBounds(overrides)
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
