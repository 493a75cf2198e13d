package network_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/gpr"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/networktest"
)

func TestNew_ToyShape(t *testing.T) {
	m := networktest.Toy()
	assert.Equal(t, 14, m.NumReactions())
	assert.Equal(t, 12, m.NumMetabolites())

	s := m.Stoichiometry()
	require.NotNil(t, s)
	assert.Equal(t, 12, s.Rows())
	assert.Equal(t, 14, s.Cols())

	j, ok := m.ReactionIndex(networktest.RABDE)
	require.True(t, ok)
	row, ok := m.MetaboliteIndex("D_c")
	require.True(t, ok)
	v, err := s.At(row, j)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	assert.Equal(t, map[string]float64{networktest.ExG: 1}, m.Objective())
	r, ok := m.ReactionByID(networktest.ExA)
	require.True(t, ok)
	assert.True(t, r.Reversible())
	assert.Len(t, m.GeneReactions("g_A_D_sub"), 1)
}

func TestNew_Validation(t *testing.T) {
	mets := []network.Metabolite{{ID: "a"}}
	genes := []network.Gene{{ID: "g1"}}

	_, err := network.New("x", mets, genes, []network.Reaction{
		{ID: "r", Metabolites: map[string]float64{"zzz": 1}, Upper: 1},
	})
	assert.ErrorIs(t, err, network.ErrUnknownMetabolite)
	var re *network.ReactionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "r", re.Reaction)

	_, err = network.New("x", mets, genes, []network.Reaction{
		{ID: "r", Metabolites: map[string]float64{"a": 1}, Upper: 1, Rule: gpr.MustParse("g1 and g2")},
	})
	assert.ErrorIs(t, err, network.ErrUnknownGene)

	_, err = network.New("x", mets, genes, []network.Reaction{
		{ID: "r", Metabolites: map[string]float64{"a": 1}, Upper: 1, Rule: &gpr.Expr{Op: gpr.OpOr}},
	})
	assert.ErrorIs(t, err, gpr.ErrEmptyNode)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "r", re.Reaction)

	_, err = network.New("x", mets, genes, []network.Reaction{
		{ID: "r", Metabolites: map[string]float64{"a": 1}, Lower: 5, Upper: 1},
	})
	assert.ErrorIs(t, err, network.ErrInvalidBound)

	_, err = network.New("x", mets, genes, []network.Reaction{
		{ID: "r", Upper: 1}, {ID: "r", Upper: 1},
	})
	assert.ErrorIs(t, err, network.ErrDuplicateID)

	_, err = network.New("x", []network.Metabolite{{ID: ""}}, nil, nil)
	assert.ErrorIs(t, err, network.ErrEmptyID)
}

func TestNew_EmptyModel(t *testing.T) {
	m, err := network.New("empty", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumReactions())
	assert.Nil(t, m.Stoichiometry())
	assert.Equal(t, 0, m.View().NumReactions())
}

func TestNew_InfiniteBoundsAllowed(t *testing.T) {
	m, err := network.New("inf", []network.Metabolite{{ID: "a"}}, nil, []network.Reaction{
		{ID: "r", Metabolites: map[string]float64{"a": -1}, Lower: math.Inf(-1), Upper: math.Inf(1)},
	})
	require.NoError(t, err)
	b := m.View().Bounds(0)
	assert.True(t, math.IsInf(b.Lower, -1))
	assert.True(t, math.IsInf(b.Magnitude(), 1))
}
