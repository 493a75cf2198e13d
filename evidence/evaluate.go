package evidence

import (
	"math"

	"github.com/katalvlaran/metflux/gpr"
	"github.com/katalvlaran/metflux/network"
)

// MissingPolicy decides what happens to a rule gene without evidence.
type MissingPolicy uint8

const (
	// MissingUseDefault substitutes Options.MissingScore.
	MissingUseDefault MissingPolicy = iota
	// MissingFail aborts with *MissingGeneError.
	MissingFail
)

// Options configures Evaluate.
type Options struct {
	Levels       Levels
	Missing      MissingPolicy
	MissingScore float64 // used under MissingUseDefault
	NoRuleScore  float64 // score of reactions without a rule
}

// DefaultOptions returns default levels with missing genes and rule-less
// reactions scored as Unknown.
func DefaultOptions() Options {
	l := DefaultLevels()
	return Options{Levels: l, Missing: MissingUseDefault, MissingScore: l.Unknown, NoRuleScore: l.Unknown}
}

// Scores maps reaction id → score. Computed fresh for each evidence set.
type Scores map[string]float64

// Evaluate scores every reaction of m.
//
// Each reaction's rule is folded with AND→min, OR→max over resolved gene
// evidence. Reactions without a rule get opts.NoRuleScore. Evidence for genes
// the model does not declare is ignored.
//
// Errors:
//   - *MissingGeneError under MissingFail (first offender in model order,
//     genes in sorted order).
func Evaluate(m *network.Model, ev Evidence, opts Options) (Scores, error) {
	out := make(Scores, m.NumReactions())
	for i := 0; i < m.NumReactions(); i++ {
		r := m.Reaction(i)
		if r.Rule == nil {
			out[r.ID] = opts.NoRuleScore
			continue
		}
		if opts.Missing == MissingFail {
			for _, g := range r.Rule.Genes() {
				if _, ok := ev[g]; !ok {
					return nil, &MissingGeneError{Reaction: r.ID, Gene: g}
				}
			}
		}
		out[r.ID] = gpr.Score(r.Rule, func(g string) float64 {
			v, ok := ev[g]
			if !ok {
				return opts.MissingScore
			}
			return v.Resolve(opts.Levels)
		})
	}

	return out, nil
}

// Categorize maps scores to High (≥ high), Low (≤ low) or Unknown.
func (s Scores) Categorize(high, low float64) map[string]Category {
	out := make(map[string]Category, len(s))
	for id, x := range s {
		switch {
		case x >= high:
			out[id] = High
		case x <= low:
			out[id] = Low
		default:
			out[id] = Unknown
		}
	}
	return out
}

// Vector returns the scores in model reaction order, NaN for absent ids.
func (s Scores) Vector(m *network.Model) []float64 {
	out := make([]float64, m.NumReactions())
	for i, id := range m.ReactionIDs() {
		x, ok := s[id]
		if !ok {
			x = math.NaN()
		}
		out[i] = x
	}
	return out
}
