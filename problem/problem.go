package problem

import (
	"fmt"
	"math"
)

// Kind distinguishes continuous from binary variables.
type Kind uint8

const (
	Continuous Kind = iota
	Binary
)

// Sense is the optimization direction.
type Sense uint8

const (
	Maximize Sense = iota
	Minimize
)

// String returns "max" or "min".
func (s Sense) String() string {
	if s == Minimize {
		return "min"
	}
	return "max"
}

// Variable is one decision variable with closed bounds (±Inf allowed).
type Variable struct {
	Name  string
	Lower float64
	Upper float64
	Kind  Kind
}

// Term is coef·x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Constraint is Lower ≤ Σ terms ≤ Upper. Equality rows have Lower == Upper;
// one-sided rows use ±Inf on the open side.
type Constraint struct {
	Name  string
	Terms []Term
	Lower float64
	Upper float64
}

// Problem is a linear or mixed-integer program.
type Problem struct {
	Name        string
	Vars        []Variable
	Constraints []Constraint
	Objective   []Term
	Sense       Sense

	// Reactions names the flux variables, which occupy Vars[0:len(Reactions)].
	Reactions []string

	byName map[string]int
}

// AddVar appends a variable and returns its index.
func (p *Problem) AddVar(v Variable) int {
	if p.byName == nil {
		p.reindex()
	}
	p.Vars = append(p.Vars, v)
	idx := len(p.Vars) - 1
	p.byName[v.Name] = idx
	return idx
}

// AddConstraint appends a row and returns its index.
func (p *Problem) AddConstraint(c Constraint) int {
	p.Constraints = append(p.Constraints, c)
	return len(p.Constraints) - 1
}

// Var returns the index of the variable called name.
func (p *Problem) Var(name string) (int, bool) {
	if p.byName == nil {
		p.reindex()
	}
	i, ok := p.byName[name]
	return i, ok
}

func (p *Problem) reindex() {
	p.byName = make(map[string]int, len(p.Vars))
	for i, v := range p.Vars {
		p.byName[v.Name] = i
	}
}

// NumBinary counts binary variables.
func (p *Problem) NumBinary() int {
	n := 0
	for _, v := range p.Vars {
		if v.Kind == Binary {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (p *Problem) Clone() *Problem {
	out := &Problem{
		Name:      p.Name,
		Vars:      append([]Variable(nil), p.Vars...),
		Objective: append([]Term(nil), p.Objective...),
		Sense:     p.Sense,
		Reactions: append([]string(nil), p.Reactions...),
	}
	out.Constraints = make([]Constraint, len(p.Constraints))
	for i, c := range p.Constraints {
		c.Terms = append([]Term(nil), c.Terms...)
		out.Constraints[i] = c
	}
	return out
}

// WithVarBounds returns a copy of p in which variable idx has bounds
// [lower, upper]. It is the only sanctioned post-build change (bound
// relaxation retries); p itself is not modified.
func (p *Problem) WithVarBounds(idx int, lower, upper float64) (*Problem, error) {
	if idx < 0 || idx >= len(p.Vars) {
		return nil, fmt.Errorf("%w: variable index %d out of range", ErrInvalidProblem, idx)
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return nil, fmt.Errorf("%w: bounds [%g, %g] for %q", ErrInvalidProblem, lower, upper, p.Vars[idx].Name)
	}
	out := p.Clone()
	out.Vars[idx].Lower, out.Vars[idx].Upper = lower, upper
	return out, nil
}

// Validate checks indices, bound ordering and finiteness of coefficients.
func (p *Problem) Validate() error {
	n := len(p.Vars)
	if n == 0 {
		return fmt.Errorf("%w: no variables", ErrInvalidProblem)
	}
	if len(p.Reactions) > n {
		return fmt.Errorf("%w: %d reactions but %d variables", ErrInvalidProblem, len(p.Reactions), n)
	}
	for i, v := range p.Vars {
		if math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || v.Lower > v.Upper {
			return fmt.Errorf("%w: variable %d (%s) bounds [%g, %g]", ErrInvalidProblem, i, v.Name, v.Lower, v.Upper)
		}
		if v.Kind == Binary && (v.Lower < 0 || v.Upper > 1) {
			return fmt.Errorf("%w: binary variable %s bounds [%g, %g]", ErrInvalidProblem, v.Name, v.Lower, v.Upper)
		}
	}
	check := func(where string, terms []Term) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= n {
				return fmt.Errorf("%w: %s references variable %d", ErrInvalidProblem, where, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%w: %s has non-finite coefficient", ErrInvalidProblem, where)
			}
		}
		return nil
	}
	if err := check("objective", p.Objective); err != nil {
		return err
	}
	for i, c := range p.Constraints {
		if math.IsNaN(c.Lower) || math.IsNaN(c.Upper) || c.Lower > c.Upper {
			return fmt.Errorf("%w: constraint %d (%s) bounds [%g, %g]", ErrInvalidProblem, i, c.Name, c.Lower, c.Upper)
		}
		if err := check(fmt.Sprintf("constraint %d (%s)", i, c.Name), c.Terms); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate returns the objective value of x.
func (p *Problem) Evaluate(x []float64) float64 {
	var s float64
	for _, t := range p.Objective {
		s += t.Coef * x[t.Var]
	}
	return s
}

// Fluxes maps reaction ids to the flux part of a solution vector.
func (p *Problem) Fluxes(x []float64) map[string]float64 {
	out := make(map[string]float64, len(p.Reactions))
	for i, id := range p.Reactions {
		out[id] = x[i]
	}
	return out
}
