package problem_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/networktest"
	"github.com/katalvlaran/metflux/problem"
)

func TestIMAT_Structure(t *testing.T) {
	m := networktest.Toy()
	scores := map[string]float64{
		networktest.RAD:   1,
		networktest.RABDE: -1,
		networktest.RDG:   0,
	}
	p, err := problem.IMAT(m.View(), scores, problem.DefaultIMATOptions())
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	// RAD is reversible: two binaries; RABDE low: one binary; RDG neutral.
	assert.Equal(t, 3, p.NumBinary())
	assert.Len(t, p.Objective, 3)
	assert.Equal(t, problem.Maximize, p.Sense)

	fwd, ok := p.Var("y_fwd_" + networktest.RAD)
	require.True(t, ok)
	for _, c := range p.Constraints {
		if c.Name == "imat_fwd_"+networktest.RAD {
			// Auto big-M equals the largest categorized bound magnitude (1000).
			assert.Equal(t, -network.DefaultBound, c.Lower)
			assert.Contains(t, c.Terms, problem.Term{Var: fwd, Coef: -network.DefaultBound - 1})
		}
	}
}

func TestIMAT_IrreversibleHighHasOneIndicator(t *testing.T) {
	m := networktest.Toy()
	p, err := problem.IMAT(m.View(), map[string]float64{networktest.ExG: 1}, problem.DefaultIMATOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, p.NumBinary())
	_, ok := p.Var("y_rev_" + networktest.ExG)
	assert.False(t, ok)
}

func TestIMAT_BigMInvariant(t *testing.T) {
	m := networktest.Toy()
	v, err := m.WithBounds(map[string]network.Bounds{networktest.RAD: {Lower: -100, Upper: 100}})
	require.NoError(t, err)
	scores := map[string]float64{networktest.RAD: 1}

	opts := problem.DefaultIMATOptions()
	opts.BigM = 99.5
	_, err = problem.IMAT(v, scores, opts)
	require.ErrorIs(t, err, problem.ErrBigMTooSmall)
	var bm *problem.BigMError
	require.ErrorAs(t, err, &bm)
	assert.Equal(t, networktest.RAD, bm.Reaction)
	assert.Equal(t, 100.0, bm.Magnitude)

	opts.BigM = 100
	_, err = problem.IMAT(v, scores, opts)
	assert.NoError(t, err)

	// A low-score reaction is held to the same invariant.
	opts.BigM = 50
	_, err = problem.IMAT(v, map[string]float64{networktest.RAD: -1}, opts)
	assert.ErrorIs(t, err, problem.ErrBigMTooSmall)
}

func TestIMAT_AutoBigMRejectsInfiniteBounds(t *testing.T) {
	m := networktest.Toy()
	v, err := m.WithBounds(map[string]network.Bounds{networktest.RAD: {Lower: math.Inf(-1), Upper: math.Inf(1)}})
	require.NoError(t, err)
	_, err = problem.IMAT(v, map[string]float64{networktest.RAD: 1}, problem.DefaultIMATOptions())
	assert.ErrorIs(t, err, problem.ErrBigMTooSmall)

	// Neutral reactions may keep infinite bounds.
	_, err = problem.IMAT(v, map[string]float64{networktest.RDG: 1}, problem.DefaultIMATOptions())
	assert.NoError(t, err)
}

func TestIMAT_OptionErrors(t *testing.T) {
	m := networktest.Toy()
	bad := []problem.IMATOptions{
		{HighThreshold: 0, LowThreshold: 0, Epsilon: 1},
		{HighThreshold: 1, LowThreshold: -1, Epsilon: 0},
		{HighThreshold: 1, LowThreshold: -1, Epsilon: 1, Threshold: -1},
		{HighThreshold: 1, LowThreshold: -1, Epsilon: 1, BigM: 0.5},
		{HighThreshold: math.NaN(), LowThreshold: -1, Epsilon: 1},
	}
	for _, o := range bad {
		_, err := problem.IMAT(m.View(), nil, o)
		assert.ErrorIs(t, err, problem.ErrInvalidOptions)
	}
	_, err := problem.IMAT(m.View(), map[string]float64{"ghost": 1}, problem.DefaultIMATOptions())
	assert.ErrorIs(t, err, network.ErrUnknownReaction)
	assert.True(t, strings.Contains(err.Error(), "ghost"))
}
