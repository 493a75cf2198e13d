package lpsolve

import (
	"math"

	"github.com/katalvlaran/metflux/problem"
)

// yTerm is coef·y[col] in standard-form space.
type yTerm struct {
	col  int
	coef float64
}

type stdRow struct {
	terms []yTerm
	rhs   float64
}

// standardForm maps a problem with general bounds and ranged rows onto
// min cᵀy, A·y = b, y ≥ 0.
//
// Each original variable is x_i = offset_i + Σ coef·y[col]:
//
//	lb finite          x = lb + p   (plus p + s = ub − lb when ub is finite)
//	lb = −Inf, ub fin. x = ub − p
//	free               x = p − q
//	lb == ub           x = lb, no column
//
// Ranged rows get one slack per finite side.
type standardForm struct {
	offset     []float64
	vars       [][]yTerm
	cost       []float64
	rows       []stdRow
	constant   float64 // objective contribution of the offsets, min-form
	infeasible bool
}

func (sf *standardForm) newCol(cost float64) int {
	sf.cost = append(sf.cost, cost)
	return len(sf.cost) - 1
}

// buildStandard converts p using the bound vectors lower/upper in place of
// the variables' own bounds. The objective is always expressed as a
// minimization.
func buildStandard(p *problem.Problem, lower, upper []float64) *standardForm {
	n := len(p.Vars)
	sf := &standardForm{offset: make([]float64, n), vars: make([][]yTerm, n)}
	c := make([]float64, n)
	sign := 1.0
	if p.Sense == problem.Maximize {
		sign = -1
	}
	for _, t := range p.Objective {
		c[t.Var] += sign * t.Coef
	}

	for i := 0; i < n; i++ {
		lo, hi := lower[i], upper[i]
		switch {
		case lo == hi:
			if math.IsInf(lo, 0) {
				sf.infeasible = true
				continue
			}
			sf.offset[i] = lo
		case !math.IsInf(lo, -1):
			sf.offset[i] = lo
			pc := sf.newCol(c[i])
			sf.vars[i] = []yTerm{{col: pc, coef: 1}}
			if !math.IsInf(hi, 1) {
				s := sf.newCol(0)
				sf.rows = append(sf.rows, stdRow{terms: []yTerm{{col: pc, coef: 1}, {col: s, coef: 1}}, rhs: hi - lo})
			}
		case !math.IsInf(hi, 1):
			sf.offset[i] = hi
			pc := sf.newCol(-c[i])
			sf.vars[i] = []yTerm{{col: pc, coef: -1}}
		default:
			pc := sf.newCol(c[i])
			qc := sf.newCol(-c[i])
			sf.vars[i] = []yTerm{{col: pc, coef: 1}, {col: qc, coef: -1}}
		}
		sf.constant += c[i] * sf.offset[i]
	}

	for _, con := range p.Constraints {
		var terms []yTerm
		var k float64
		for _, t := range con.Terms {
			k += t.Coef * sf.offset[t.Var]
			for _, y := range sf.vars[t.Var] {
				terms = append(terms, yTerm{col: y.col, coef: t.Coef * y.coef})
			}
		}
		if con.Lower == con.Upper {
			if math.IsInf(con.Lower, 0) {
				sf.infeasible = true
				continue
			}
			sf.rows = append(sf.rows, stdRow{terms: terms, rhs: con.Lower - k})
			continue
		}
		if !math.IsInf(con.Lower, -1) {
			s := sf.newCol(0)
			row := append(append([]yTerm(nil), terms...), yTerm{col: s, coef: -1})
			sf.rows = append(sf.rows, stdRow{terms: row, rhs: con.Lower - k})
		}
		if !math.IsInf(con.Upper, 1) {
			s := sf.newCol(0)
			row := append(append([]yTerm(nil), terms...), yTerm{col: s, coef: 1})
			sf.rows = append(sf.rows, stdRow{terms: row, rhs: con.Upper - k})
		}
	}

	return sf
}

// dense returns A (row-major) and b.
func (sf *standardForm) dense() ([]float64, []float64) {
	nc := len(sf.cost)
	a := make([]float64, len(sf.rows)*nc)
	b := make([]float64, len(sf.rows))
	for i, r := range sf.rows {
		for _, t := range r.terms {
			a[i*nc+t.col] += t.coef
		}
		b[i] = r.rhs
	}
	return a, b
}

// recover maps y back to x and clips x into [lower, upper].
func (sf *standardForm) recover(y, lower, upper []float64) []float64 {
	x := make([]float64, len(sf.offset))
	for i := range x {
		v := sf.offset[i]
		for _, t := range sf.vars[i] {
			v += t.coef * y[t.col]
		}
		x[i] = math.Min(math.Max(v, lower[i]), upper[i])
	}
	return x
}
