package problem_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/networktest"
	"github.com/katalvlaran/metflux/problem"
)

func TestMetchangeMax_AddsSink(t *testing.T) {
	m := networktest.Toy()
	p, err := problem.MetchangeMax(m.View(), "D_c", problem.DefaultMetchangeOptions())
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	sink, ok := p.Var(problem.SinkName("D_c"))
	require.True(t, ok)
	assert.Equal(t, m.NumReactions(), sink)
	assert.Equal(t, []problem.Term{{Var: sink, Coef: 1}}, p.Objective)

	found := false
	for _, c := range p.Constraints {
		if c.Name == "mass_balance_D_c" {
			assert.Contains(t, c.Terms, problem.Term{Var: sink, Coef: -1})
			found = true
		}
	}
	assert.True(t, found)
	// The base model has no sink.
	_, ok = m.ReactionIndex(problem.SinkName("D_c"))
	assert.False(t, ok)
}

func TestMetchangeMin_Objective(t *testing.T) {
	m := networktest.Toy()
	weights := map[string]float64{networktest.RABDE: 2, networktest.RAD: 0, networktest.ExG: 1}
	p, err := problem.MetchangeMin(m.View(), "D_c", weights, 47.5, problem.DefaultMetchangeOptions())
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, problem.Minimize, p.Sense)
	assert.Len(t, p.Objective, 2)

	sink, _ := p.Var(problem.SinkName("D_c"))
	assert.Equal(t, 47.5, p.Vars[sink].Lower)

	// ExG is irreversible: weighted directly, no auxiliary variable.
	_, ok := p.Var("abs_" + networktest.ExG)
	assert.False(t, ok)
	_, ok = p.Var("abs_" + networktest.RABDE)
	assert.True(t, ok)
}

func TestMetchange_Errors(t *testing.T) {
	m := networktest.Toy()
	opts := problem.DefaultMetchangeOptions()

	_, err := problem.MetchangeMax(m.View(), "Z_c", opts)
	assert.ErrorIs(t, err, network.ErrUnknownMetabolite)

	_, err = problem.MetchangeMin(m.View(), "D_c", nil, 1, opts)
	assert.ErrorIs(t, err, problem.ErrInvalidWeights)
	_, err = problem.MetchangeMin(m.View(), "D_c", map[string]float64{networktest.RAD: 0}, 1, opts)
	assert.ErrorIs(t, err, problem.ErrInvalidWeights)
	_, err = problem.MetchangeMin(m.View(), "D_c", map[string]float64{networktest.RAD: -1}, 1, opts)
	assert.ErrorIs(t, err, problem.ErrInvalidWeights)
	_, err = problem.MetchangeMin(m.View(), "D_c", map[string]float64{"ghost": 1}, 1, opts)
	assert.ErrorIs(t, err, network.ErrUnknownReaction)
	_, err = problem.MetchangeMin(m.View(), "D_c", map[string]float64{networktest.RAD: 1}, math.NaN(), opts)
	assert.ErrorIs(t, err, problem.ErrInvalidOptions)

	opts.Proportion = 1.5
	_, err = problem.MetchangeMax(m.View(), "D_c", opts)
	assert.ErrorIs(t, err, problem.ErrInvalidOptions)
}

func TestLowScoreWeights(t *testing.T) {
	w := problem.LowScoreWeights(map[string]float64{"a": -1, "b": 1, "c": math.NaN()}, -0.5)
	assert.Equal(t, map[string]float64{"a": 1, "b": 0, "c": 0}, w)
}
