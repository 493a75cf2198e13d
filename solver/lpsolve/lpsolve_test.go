package lpsolve_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/networktest"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/solver"
	"github.com/katalvlaran/metflux/solver/lpsolve"
)

const tol = 1e-6

func solve(t *testing.T, p *problem.Problem, opts ...lpsolve.Option) solver.Result {
	t.Helper()
	res, err := lpsolve.New(opts...).Solve(context.Background(), p)
	require.NoError(t, err)
	return res
}

func flux(t *testing.T, p *problem.Problem, res solver.Result, id string) float64 {
	t.Helper()
	v, ok := p.Fluxes(res.Values)[id]
	require.True(t, ok, id)
	return v
}

func TestSolve_ToyFBA(t *testing.T) {
	m := networktest.Toy()
	p, err := problem.FBA(m.View(), problem.Objective{})
	require.NoError(t, err)

	res := solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, networktest.Optimum, res.Objective, tol)
	assert.Less(t, networktest.Residual(m, res.Values[:m.NumReactions()]), tol)
	for j := 0; j < m.NumReactions(); j++ {
		b := m.View().Bounds(j)
		assert.GreaterOrEqual(t, res.Values[j], b.Lower-tol)
		assert.LessOrEqual(t, res.Values[j], b.Upper+tol)
	}
}

func TestSolve_ToyFBAZeroOverride(t *testing.T) {
	m := networktest.Toy()
	v, err := m.WithBounds(map[string]network.Bounds{networktest.RDG: {Lower: 0, Upper: 0}})
	require.NoError(t, err)
	p, err := problem.FBA(v, problem.Objective{})
	require.NoError(t, err)

	res := solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, 0, res.Objective, tol)
	assert.InDelta(t, 0, flux(t, p, res, networktest.RDG), tol)

	// The base view is untouched.
	base, err := problem.FBA(m.View(), problem.Objective{})
	require.NoError(t, err)
	assert.InDelta(t, networktest.Optimum, solve(t, base).Objective, tol)
}

func TestSolve_ToyMinimize(t *testing.T) {
	m := networktest.Toy()
	p, err := problem.FBA(m.View(), problem.MinimizeReaction(networktest.ExA))
	require.NoError(t, err)
	res := solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, -networktest.Uptake, res.Objective, tol)
}

func TestSolve_ToyIMAT(t *testing.T) {
	m := networktest.Toy()
	scores := map[string]float64{
		networktest.RAD:   1,
		networktest.RDG:   1,
		networktest.RABDE: -1,
		networktest.RCEF:  -1,
	}
	p, err := problem.IMAT(m.View(), scores, problem.DefaultIMATOptions())
	require.NoError(t, err)

	res := solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, 4, res.Objective, tol)
	assert.GreaterOrEqual(t, res.Nodes, 1)
	assert.InDelta(t, 0, flux(t, p, res, networktest.RABDE), 0.01+tol)
	assert.GreaterOrEqual(t, flux(t, p, res, networktest.RAD), 1-tol)
	assert.GreaterOrEqual(t, flux(t, p, res, networktest.RDG), 1-tol)
	assert.Less(t, networktest.Residual(m, res.Values[:m.NumReactions()]), tol)
}

func TestSolve_ToyMetchange(t *testing.T) {
	m := networktest.Toy()
	opts := problem.DefaultMetchangeOptions()
	maxP, err := problem.MetchangeMax(m.View(), "D_c", opts)
	require.NoError(t, err)
	res := solve(t, maxP)
	require.Equal(t, solver.Optimal, res.Status)
	require.InDelta(t, 50, res.Objective, tol)

	minSink := opts.Proportion * res.Objective
	both := map[string]float64{networktest.RABDE: 1, networktest.RAD: 1}
	p, err := problem.MetchangeMin(m.View(), "D_c", both, minSink, opts)
	require.NoError(t, err)
	res = solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, 47.5, res.Objective, tol)

	one := map[string]float64{networktest.RABDE: 1}
	p, err = problem.MetchangeMin(m.View(), "D_c", one, minSink, opts)
	require.NoError(t, err)
	res = solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, 0, res.Objective, tol)
}

func TestSolve_Parsimonious(t *testing.T) {
	m := networktest.Toy()
	p, err := problem.Parsimonious(m.View(), problem.Objective{}, networktest.Optimum, 1)
	require.NoError(t, err)
	res := solve(t, p)
	require.Equal(t, solver.Optimal, res.Status)
	// The A → D shortcut avoids the B uptake and the C/E/F branch.
	assert.InDelta(t, 0, flux(t, p, res, networktest.RABDE), tol)
	assert.InDelta(t, 50, flux(t, p, res, networktest.RAD), tol)
	assert.InDelta(t, 50, flux(t, p, res, networktest.ExG), tol)
}

// lpProblem: variables x, y with the given bounds.
func lpProblem(sense problem.Sense, obj []problem.Term, vars ...problem.Variable) *problem.Problem {
	p := &problem.Problem{Name: "t", Sense: sense, Objective: obj}
	for _, v := range vars {
		p.AddVar(v)
	}
	return p
}

func TestSolve_StatusMapping(t *testing.T) {
	inf := math.Inf(1)

	t.Run("infeasible row", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Lower: 0, Upper: 1})
		p.AddConstraint(problem.Constraint{Terms: []problem.Term{{Var: 0, Coef: 1}}, Lower: 2, Upper: inf})
		assert.Equal(t, solver.Infeasible, solve(t, p).Status)
	})
	t.Run("inconsistent equalities", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Upper: 10}, problem.Variable{Name: "y", Upper: 10})
		sum := []problem.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}
		p.AddConstraint(problem.Constraint{Terms: sum, Lower: 1, Upper: 1})
		p.AddConstraint(problem.Constraint{Terms: sum, Lower: 2, Upper: 2})
		assert.Equal(t, solver.Infeasible, solve(t, p).Status)
	})
	t.Run("fixed variables only", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 2}},
			problem.Variable{Name: "x", Lower: 3, Upper: 3})
		p.AddConstraint(problem.Constraint{Terms: []problem.Term{{Var: 0, Coef: 1}}, Lower: 3, Upper: 3})
		res := solve(t, p)
		require.Equal(t, solver.Optimal, res.Status)
		assert.Equal(t, 6.0, res.Objective)

		p.Constraints[0].Lower, p.Constraints[0].Upper = 4, 4
		assert.Equal(t, solver.Infeasible, solve(t, p).Status)
	})
	t.Run("unbounded without rows", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Lower: 0, Upper: inf})
		assert.Equal(t, solver.Unbounded, solve(t, p).Status)
	})
	t.Run("unbounded with rows", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Upper: inf}, problem.Variable{Name: "y", Upper: inf})
		p.AddConstraint(problem.Constraint{Terms: []problem.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: -1}}})
		assert.Equal(t, solver.Unbounded, solve(t, p).Status)
	})
	t.Run("free variable", func(t *testing.T) {
		p := lpProblem(problem.Minimize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Lower: math.Inf(-1), Upper: inf})
		p.AddConstraint(problem.Constraint{Terms: []problem.Term{{Var: 0, Coef: 1}}, Lower: -3, Upper: inf})
		res := solve(t, p)
		require.Equal(t, solver.Optimal, res.Status)
		assert.InDelta(t, -3, res.Values[0], tol)
	})
	t.Run("upper bound only", func(t *testing.T) {
		p := lpProblem(problem.Maximize, []problem.Term{{Var: 0, Coef: 1}},
			problem.Variable{Name: "x", Lower: math.Inf(-1), Upper: 7})
		res := solve(t, p)
		require.Equal(t, solver.Optimal, res.Status)
		assert.InDelta(t, 7, res.Objective, tol)
	})
}

// knapsack: max 5a + 4b + 3c, 2a + 3b + c ≤ 5; optimum a=b=1 (9), LP bound 10.67.
func knapsack() *problem.Problem {
	p := &problem.Problem{Name: "knapsack", Sense: problem.Maximize}
	for _, name := range []string{"a", "b", "c"} {
		p.AddVar(problem.Variable{Name: name, Upper: 1, Kind: problem.Binary})
	}
	p.Objective = []problem.Term{{Var: 0, Coef: 5}, {Var: 1, Coef: 4}, {Var: 2, Coef: 3}}
	p.AddConstraint(problem.Constraint{
		Terms: []problem.Term{{Var: 0, Coef: 2}, {Var: 1, Coef: 3}, {Var: 2, Coef: 1}},
		Lower: math.Inf(-1), Upper: 5,
	})
	return p
}

func TestSolve_BranchAndBound(t *testing.T) {
	res := solve(t, knapsack())
	require.Equal(t, solver.Optimal, res.Status)
	assert.InDelta(t, 9, res.Objective, tol)
	assert.Equal(t, []float64{1, 1, 0}, res.Values)
	assert.Greater(t, res.Nodes, 1)
}

func TestSolve_BranchAndBoundInfeasible(t *testing.T) {
	p := knapsack()
	// 2a + 3b + c ≥ 6.5 cannot be met with binaries (max 6).
	p.AddConstraint(problem.Constraint{Terms: p.Constraints[0].Terms, Lower: 6.5, Upper: math.Inf(1)})
	p.Constraints[0].Upper = 10
	assert.Equal(t, solver.Infeasible, solve(t, p).Status)
}

func TestSolve_NodeLimitTimeout(t *testing.T) {
	res := solve(t, knapsack(), lpsolve.WithMaxNodes(1))
	assert.Equal(t, solver.Timeout, res.Status)
	assert.Equal(t, 1, res.Nodes)
	assert.False(t, res.HasSolution())
}

func TestSolve_Context(t *testing.T) {
	s := lpsolve.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Solve(ctx, knapsack())
	assert.ErrorIs(t, err, context.Canceled)

	dl, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	res, err := s.Solve(dl, knapsack())
	require.NoError(t, err)
	assert.Equal(t, solver.Timeout, res.Status)
}

func TestSolve_InvalidInput(t *testing.T) {
	s := lpsolve.New()
	_, err := s.Solve(context.Background(), nil)
	assert.ErrorIs(t, err, solver.ErrNilProblem)
	_, err = s.Solve(context.Background(), &problem.Problem{})
	assert.ErrorIs(t, err, solver.ErrInvalidProblem)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { lpsolve.WithTolerance(0) })
	assert.Panics(t, func() { lpsolve.WithMaxNodes(0) })
	assert.Panics(t, func() { lpsolve.WithIntegralityTolerance(0.5) })
	assert.Panics(t, func() { lpsolve.WithTimeLimit(-time.Second) })
	assert.Panics(t, func() { lpsolve.WithLogger(nil) })
	assert.Equal(t, 10, lpsolve.New(lpsolve.WithMaxNodes(10)).Options().MaxNodes)
}
