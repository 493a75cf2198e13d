package sampler

import (
	"fmt"

	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/network"
)

// Outcome tells whether a run recorded every requested sample.
type Outcome uint8

const (
	OutcomeComplete Outcome = iota
	OutcomeTimeout
)

// String returns "COMPLETE" or "TIMEOUT".
func (o Outcome) String() string {
	if o == OutcomeTimeout {
		return "TIMEOUT"
	}
	return "COMPLETE"
}

// SampleSet is the output of one chain.
type SampleSet struct {
	// ReactionIDs name the columns of Values, in model order.
	ReactionIDs []string
	// Values holds one sample per row; nil when nothing was recorded.
	Values     *matrix.Dense
	Outcome    Outcome
	Seed       int64
	Iterations int
	// Clamped counts coordinates pulled back inside their bounds.
	Clamped int
}

// Len returns the number of recorded samples.
func (s *SampleSet) Len() int {
	if s == nil || s.Values == nil {
		return 0
	}
	return s.Values.Rows()
}

// Column returns a copy of the samples of reaction id.
func (s *SampleSet) Column(id string) ([]float64, error) {
	for j, rid := range s.ReactionIDs {
		if rid != id {
			continue
		}
		if s.Values == nil {
			return nil, nil
		}
		return s.Values.Col(j)
	}
	return nil, &network.ReactionError{Reaction: id, Err: network.ErrUnknownReaction}
}

// Columns returns every reaction's samples keyed by id.
func (s *SampleSet) Columns() map[string][]float64 {
	out := make(map[string][]float64, len(s.ReactionIDs))
	for j, id := range s.ReactionIDs {
		if s.Values == nil {
			out[id] = nil
			continue
		}
		col, _ := s.Values.Col(j)
		out[id] = col
	}
	return out
}

// Merge concatenates chains that share the same reaction order.
func Merge(sets ...*SampleSet) (*SampleSet, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrInvalidOptions)
	}
	out := &SampleSet{ReactionIDs: append([]string(nil), sets[0].ReactionIDs...), Seed: sets[0].Seed}
	n := len(out.ReactionIDs)
	var data []float64
	rows := 0
	for _, s := range sets {
		if len(s.ReactionIDs) != n {
			return nil, fmt.Errorf("%w: chains have %d and %d reactions", ErrInvalidOptions, n, len(s.ReactionIDs))
		}
		for j, id := range s.ReactionIDs {
			if out.ReactionIDs[j] != id {
				return nil, fmt.Errorf("%w: reaction order differs at column %d", ErrInvalidOptions, j)
			}
		}
		for i := 0; i < s.Len(); i++ {
			data = append(data, s.Values.RowView(i)...)
			rows++
		}
		out.Iterations += s.Iterations
		out.Clamped += s.Clamped
		if s.Outcome == OutcomeTimeout {
			out.Outcome = OutcomeTimeout
		}
	}
	if rows > 0 {
		v, err := matrix.NewDenseFrom(rows, n, data)
		if err != nil {
			return nil, err
		}
		out.Values = v
	}
	return out, nil
}
