package divergence

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/metflux/sampler"
)

// Result holds one divergence per reaction plus their mean.
type Result struct {
	Reactions []string
	Values    []float64
	Mean      float64
	Measure   Measure
	Estimator Estimator
}

// Value returns the divergence of reaction id.
func (r Result) Value(id string) (float64, bool) {
	for i, rid := range r.Reactions {
		if rid == id {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Compare computes D(P‖Q) per reaction for two sample sets over the same
// reactions (in any order). Reactions are reported in p's order.
func Compare(p, q *sampler.SampleSet, opts Options) (Result, error) {
	if p.Len() == 0 || q.Len() == 0 {
		return Result{}, fmt.Errorf("%w: sample sets hold %d and %d samples", ErrEmptySample, p.Len(), q.Len())
	}
	if len(p.ReactionIDs) != len(q.ReactionIDs) {
		return Result{}, fmt.Errorf("%w: %d vs %d reactions", ErrReactionMismatch, len(p.ReactionIDs), len(q.ReactionIDs))
	}
	pc, qc := p.Columns(), q.Columns()
	for _, id := range p.ReactionIDs {
		if _, ok := qc[id]; !ok {
			return Result{}, fmt.Errorf("%w: %q missing from q", ErrReactionMismatch, id)
		}
	}
	return compare(p.ReactionIDs, pc, qc, opts)
}

// CompareColumns is Compare over plain column maps. Both maps must have the
// same key set; reactions are reported in sorted id order.
func CompareColumns(p, q map[string][]float64, opts Options) (Result, error) {
	if len(p) != len(q) {
		return Result{}, fmt.Errorf("%w: %d vs %d reactions", ErrReactionMismatch, len(p), len(q))
	}
	ids := make([]string, 0, len(p))
	for id := range p {
		if _, ok := q[id]; !ok {
			return Result{}, fmt.Errorf("%w: %q missing from q", ErrReactionMismatch, id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return compare(ids, p, q, opts)
}

func compare(ids []string, p, q map[string][]float64, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if len(ids) == 0 {
		return Result{}, fmt.Errorf("%w: no reactions", ErrEmptySample)
	}
	values := make([]float64, len(ids))
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			d, err := Between(p[id], q[id], opts)
			if err != nil {
				return fmt.Errorf("divergence: reaction %q: %w", id, err)
			}
			values[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return Result{
		Reactions: append([]string(nil), ids...),
		Values:    values,
		Mean:      sum / float64(len(values)),
		Measure:   opts.Measure,
		Estimator: opts.Estimator,
	}, nil
}

// Scores compares two reaction-score vectors as discrete distributions of
// score values. NaN scores are ignored.
func Scores(p, q map[string]float64, opts Options) (float64, error) {
	values := func(m map[string]float64) []float64 {
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out := make([]float64, 0, len(ids))
		for _, id := range ids {
			if v := m[id]; !math.IsNaN(v) {
				out = append(out, v)
			}
		}
		return out
	}
	return Discrete(values(p), values(q), opts)
}
