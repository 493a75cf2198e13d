package problem

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/metflux/network"
)

// IMATOptions configures the IMAT formulation.
type IMATOptions struct {
	// HighThreshold: reactions scoring ≥ this are expected active.
	HighThreshold float64
	// LowThreshold: reactions scoring ≤ this are expected inactive.
	LowThreshold float64
	// Epsilon is the minimum |flux| counted as active.
	Epsilon float64
	// Threshold is the maximum |flux| counted as inactive.
	Threshold float64
	// BigM must be ≥ the bound magnitude of every categorized reaction.
	// Zero derives it from the largest finite bound among those reactions.
	BigM float64
}

// DefaultIMATOptions suits categorical evidence (High=1, Low=-1).
func DefaultIMATOptions() IMATOptions {
	return IMATOptions{HighThreshold: 0.5, LowThreshold: -0.5, Epsilon: 1, Threshold: 0.01}
}

func (o IMATOptions) validate() error {
	for _, x := range []float64{o.HighThreshold, o.LowThreshold, o.Epsilon, o.Threshold, o.BigM} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite IMAT option", ErrInvalidOptions)
		}
	}
	switch {
	case o.HighThreshold <= o.LowThreshold:
		return fmt.Errorf("%w: high threshold %g must exceed low threshold %g", ErrInvalidOptions, o.HighThreshold, o.LowThreshold)
	case o.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon %g must be > 0", ErrInvalidOptions, o.Epsilon)
	case o.Threshold < 0:
		return fmt.Errorf("%w: threshold %g must be ≥ 0", ErrInvalidOptions, o.Threshold)
	case o.BigM < 0:
		return fmt.Errorf("%w: big-M %g must be ≥ 0", ErrInvalidOptions, o.BigM)
	case o.BigM > 0 && (o.BigM < o.Epsilon || o.BigM <= o.Threshold):
		return fmt.Errorf("%w: big-M %g must be ≥ epsilon and > threshold", ErrInvalidOptions, o.BigM)
	}
	return nil
}

// IMAT builds the IMAT mixed-integer program.
//
// For a high reaction j with indicator binaries y⁺, y⁻:
//
//	v_j + (−M−ε)·y⁺ ≥ −M   (y⁺=1 ⇒ v_j ≥ ε)
//	v_j + ( M+ε)·y⁻ ≤  M   (y⁻=1 ⇒ v_j ≤ −ε)
//	y⁺ + y⁻ ≤ 1
//
// y⁺ is omitted when ub < ε and y⁻ when lb > −ε. For a low reaction with
// indicator y:
//
//	v_j + (M−t)·y ≤  M     (y=1 ⇒ v_j ≤ t)
//	v_j − (M−t)·y ≥ −M     (y=1 ⇒ v_j ≥ −t)
//
// The objective maximizes the sum of all indicators. With y = 0 every row
// relaxes to −M ≤ v_j ≤ M, which must never cut into the reaction's own
// bounds; hence M ≥ max(|lb|, |ub|) for each categorized reaction, else
// *BigMError. Reactions absent from scores, or scored NaN, are neutral.
func IMAT(v *network.View, scores map[string]float64, opts IMATOptions) (*Problem, error) {
	if err := opts.validate(); err != nil {
		return nil, problemErrorf("IMAT", err)
	}
	fp, err := newFluxProblem("imat", v)
	if err != nil {
		return nil, problemErrorf("IMAT", err)
	}
	m := v.Model()
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := m.ReactionIndex(id); !ok {
			return nil, problemErrorf("IMAT", &network.ReactionError{Reaction: id, Err: network.ErrUnknownReaction})
		}
	}

	var high, low []int
	for j, id := range fp.Reactions {
		s, ok := scores[id]
		if !ok || math.IsNaN(s) {
			continue
		}
		switch {
		case s >= opts.HighThreshold:
			high = append(high, j)
		case s <= opts.LowThreshold:
			low = append(low, j)
		}
	}

	bigM, err := resolveBigM(v, fp.Reactions, append(append([]int(nil), high...), low...), opts)
	if err != nil {
		return nil, problemErrorf("IMAT", err)
	}
	eps, t := opts.Epsilon, opts.Threshold

	for _, j := range high {
		id := fp.Reactions[j]
		b := v.Bounds(j)
		var ys []int
		if b.Upper >= eps {
			y := fp.AddVar(Variable{Name: "y_fwd_" + id, Lower: 0, Upper: 1, Kind: Binary})
			fp.AddConstraint(Constraint{
				Name:  "imat_fwd_" + id,
				Terms: []Term{{Var: j, Coef: 1}, {Var: y, Coef: -bigM - eps}},
				Lower: -bigM, Upper: math.Inf(1),
			})
			ys = append(ys, y)
		}
		if b.Lower <= -eps {
			y := fp.AddVar(Variable{Name: "y_rev_" + id, Lower: 0, Upper: 1, Kind: Binary})
			fp.AddConstraint(Constraint{
				Name:  "imat_rev_" + id,
				Terms: []Term{{Var: j, Coef: 1}, {Var: y, Coef: bigM + eps}},
				Lower: math.Inf(-1), Upper: bigM,
			})
			ys = append(ys, y)
		}
		if len(ys) == 2 {
			fp.AddConstraint(Constraint{
				Name:  "imat_dir_" + id,
				Terms: []Term{{Var: ys[0], Coef: 1}, {Var: ys[1], Coef: 1}},
				Lower: math.Inf(-1), Upper: 1,
			})
		}
		for _, y := range ys {
			fp.Objective = append(fp.Objective, Term{Var: y, Coef: 1})
		}
	}
	for _, j := range low {
		id := fp.Reactions[j]
		y := fp.AddVar(Variable{Name: "y_off_" + id, Lower: 0, Upper: 1, Kind: Binary})
		fp.AddConstraint(Constraint{
			Name:  "imat_off_ub_" + id,
			Terms: []Term{{Var: j, Coef: 1}, {Var: y, Coef: bigM - t}},
			Lower: math.Inf(-1), Upper: bigM,
		})
		fp.AddConstraint(Constraint{
			Name:  "imat_off_lb_" + id,
			Terms: []Term{{Var: j, Coef: 1}, {Var: y, Coef: -(bigM - t)}},
			Lower: -bigM, Upper: math.Inf(1),
		})
		fp.Objective = append(fp.Objective, Term{Var: y, Coef: 1})
	}
	fp.Sense = Maximize

	return fp.Problem, nil
}

// resolveBigM returns the M to use and enforces M ≥ bound magnitude.
func resolveBigM(v *network.View, ids []string, categorized []int, opts IMATOptions) (float64, error) {
	sort.Ints(categorized)
	if opts.BigM > 0 {
		for _, j := range categorized {
			if mag := v.Bounds(j).Magnitude(); mag > opts.BigM {
				return 0, &BigMError{Reaction: ids[j], Magnitude: mag, M: opts.BigM}
			}
		}
		return opts.BigM, nil
	}
	bigM := math.Max(opts.Epsilon, opts.Threshold*2)
	for _, j := range categorized {
		mag := v.Bounds(j).Magnitude()
		if math.IsInf(mag, 0) {
			return 0, &BigMError{Reaction: ids[j], Magnitude: mag, M: bigM}
		}
		bigM = math.Max(bigM, mag)
	}
	return bigM, nil
}
