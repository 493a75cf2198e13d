package problem

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/metflux/network"
)

// Objective selects the reactions to optimize. A nil Coefficients map means
// "use the model's objective". The zero Sense is Maximize.
type Objective struct {
	Coefficients map[string]float64
	Sense        Sense
}

// MaximizeReaction is shorthand for a single-reaction maximization.
func MaximizeReaction(id string) Objective {
	return Objective{Coefficients: map[string]float64{id: 1}, Sense: Maximize}
}

// MinimizeReaction is shorthand for a single-reaction minimization.
func MinimizeReaction(id string) Objective {
	return Objective{Coefficients: map[string]float64{id: 1}, Sense: Minimize}
}

// fluxProblem holds the shared skeleton: one variable per reaction and one
// mass-balance row per metabolite that appears in S.
type fluxProblem struct {
	*Problem
	view   *network.View
	metRow []int // metabolite index → constraint index, -1 when the metabolite has no entries
}

func newFluxProblem(name string, v *network.View) (*fluxProblem, error) {
	if v == nil || v.NumReactions() == 0 {
		return nil, ErrInfeasibleModel
	}
	m := v.Model()
	p := &Problem{Name: name, Reactions: m.ReactionIDs()}
	for j, id := range p.Reactions {
		b := v.Bounds(j)
		p.AddVar(Variable{Name: id, Lower: b.Lower, Upper: b.Upper})
	}

	rows := make([][]Term, m.NumMetabolites())
	s := m.Stoichiometry()
	for j := 0; j < m.NumReactions(); j++ {
		s.Column(j, func(row int, val float64) {
			rows[row] = append(rows[row], Term{Var: j, Coef: val})
		})
	}
	fp := &fluxProblem{Problem: p, view: v, metRow: make([]int, len(rows))}
	for i, terms := range rows {
		if len(terms) == 0 {
			fp.metRow[i] = -1
			continue
		}
		fp.metRow[i] = p.AddConstraint(Constraint{
			Name:  "mass_balance_" + m.Metabolite(i).ID,
			Terms: terms,
		})
	}

	return fp, nil
}

// objectiveTerms resolves reaction ids to flux-variable terms in sorted id order.
func (fp *fluxProblem) objectiveTerms(coefs map[string]float64) ([]Term, error) {
	if len(coefs) == 0 {
		coefs = fp.view.Model().Objective()
	}
	if len(coefs) == 0 {
		return nil, ErrNoObjective
	}
	ids := make([]string, 0, len(coefs))
	for id := range coefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	terms := make([]Term, 0, len(ids))
	for _, id := range ids {
		j, ok := fp.view.Model().ReactionIndex(id)
		if !ok {
			return nil, &network.ReactionError{Reaction: id, Err: network.ErrUnknownReaction}
		}
		c := coefs[id]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: objective coefficient %g for %q", ErrInvalidOptions, c, id)
		}
		if c != 0 {
			terms = append(terms, Term{Var: j, Coef: c})
		}
	}
	if len(terms) == 0 {
		return nil, ErrNoObjective
	}
	return terms, nil
}

// absTerm returns a term whose value equals w·|v_j| at any optimum of a
// minimization. Irreversible directions need no auxiliary variable.
func (fp *fluxProblem) absTerm(j int, w float64) Term {
	b := fp.view.Bounds(j)
	switch {
	case b.Lower >= 0:
		return Term{Var: j, Coef: w}
	case b.Upper <= 0:
		return Term{Var: j, Coef: -w}
	}
	a := fp.AddVar(Variable{Name: "abs_" + fp.Reactions[j], Lower: 0, Upper: math.Inf(1)})
	fp.AddConstraint(Constraint{
		Name:  "abs_pos_" + fp.Reactions[j],
		Terms: []Term{{Var: a, Coef: 1}, {Var: j, Coef: -1}},
		Lower: 0, Upper: math.Inf(1),
	})
	fp.AddConstraint(Constraint{
		Name:  "abs_neg_" + fp.Reactions[j],
		Terms: []Term{{Var: a, Coef: 1}, {Var: j, Coef: 1}},
		Lower: 0, Upper: math.Inf(1),
	})
	return Term{Var: a, Coef: w}
}

// FBA builds a flux balance analysis LP: optimize the objective subject to
// S·v = 0 and the view's bounds.
//
// Errors: ErrInfeasibleModel, ErrNoObjective, network.ErrUnknownReaction.
func FBA(v *network.View, obj Objective) (*Problem, error) {
	fp, err := newFluxProblem("fba", v)
	if err != nil {
		return nil, problemErrorf("FBA", err)
	}
	terms, err := fp.objectiveTerms(obj.Coefficients)
	if err != nil {
		return nil, problemErrorf("FBA", err)
	}
	fp.Objective = terms
	fp.Sense = obj.Sense

	return fp.Problem, nil
}

// Parsimonious builds the second stage of parsimonious FBA: keep the
// objective within fraction of optimum and minimize the total absolute flux.
// For maximization the objective row is ≥ optimum − (1−fraction)·|optimum|;
// for minimization it is ≤ optimum + (1−fraction)·|optimum|.
func Parsimonious(v *network.View, obj Objective, optimum, fraction float64) (*Problem, error) {
	if fraction <= 0 || fraction > 1 || math.IsNaN(optimum) || math.IsInf(optimum, 0) {
		return nil, problemErrorf("Parsimonious", fmt.Errorf("%w: fraction=%g optimum=%g", ErrInvalidOptions, fraction, optimum))
	}
	fp, err := newFluxProblem("pfba", v)
	if err != nil {
		return nil, problemErrorf("Parsimonious", err)
	}
	terms, err := fp.objectiveTerms(obj.Coefficients)
	if err != nil {
		return nil, problemErrorf("Parsimonious", err)
	}
	fp.AddConstraint(objectiveRow(terms, obj.Sense, optimum, fraction))

	var total []Term
	for j := range fp.Reactions {
		if b := v.Bounds(j); b.Lower == 0 && b.Upper == 0 {
			continue
		}
		total = append(total, fp.absTerm(j, 1))
	}
	fp.Objective = total
	fp.Sense = Minimize

	return fp.Problem, nil
}

// objectiveRow keeps the objective within fraction of optimum in the
// direction of sense.
func objectiveRow(terms []Term, sense Sense, optimum, fraction float64) Constraint {
	slack := (1 - fraction) * math.Abs(optimum)
	if sense == Minimize {
		return Constraint{Name: "objective_ceiling", Terms: terms, Lower: math.Inf(-1), Upper: optimum + slack}
	}
	return Constraint{Name: "objective_floor", Terms: terms, Lower: optimum - slack, Upper: math.Inf(1)}
}

// Variability builds one flux variability LP: optimize target while obj
// stays within fraction of optimum, bounded as in Parsimonious. A zero
// fraction leaves obj unconstrained and optimum is ignored.
//
// Errors: ErrInvalidOptions, ErrInfeasibleModel, ErrNoObjective,
// network.ErrUnknownReaction.
func Variability(v *network.View, obj Objective, optimum, fraction float64, target Objective) (*Problem, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return nil, problemErrorf("Variability", fmt.Errorf("%w: fraction=%g", ErrInvalidOptions, fraction))
	}
	if fraction > 0 && (math.IsNaN(optimum) || math.IsInf(optimum, 0)) {
		return nil, problemErrorf("Variability", fmt.Errorf("%w: optimum=%g", ErrInvalidOptions, optimum))
	}
	if len(target.Coefficients) == 0 {
		return nil, problemErrorf("Variability", ErrNoObjective)
	}
	fp, err := newFluxProblem("fva", v)
	if err != nil {
		return nil, problemErrorf("Variability", err)
	}
	if fraction > 0 {
		terms, err := fp.objectiveTerms(obj.Coefficients)
		if err != nil {
			return nil, problemErrorf("Variability", err)
		}
		fp.AddConstraint(objectiveRow(terms, obj.Sense, optimum, fraction))
	}
	terms, err := fp.objectiveTerms(target.Coefficients)
	if err != nil {
		return nil, problemErrorf("Variability", err)
	}
	fp.Objective = terms
	fp.Sense = target.Sense

	return fp.Problem, nil
}
