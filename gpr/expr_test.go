package gpr_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/metflux/gpr"
)

func lookup(values map[string]float64) func(string) float64 {
	return func(g string) float64 { return values[g] }
}

func TestScore_HandBuiltTrees(t *testing.T) {
	values := map[string]float64{"a": 3, "b": -1, "c": 7, "d": 0.5}

	assert.Equal(t, -1.0, gpr.Score(gpr.And(gpr.Gene("a"), gpr.Gene("b")), lookup(values)))
	assert.Equal(t, 7.0, gpr.Score(gpr.Or(gpr.Gene("a"), gpr.Gene("c")), lookup(values)))

	// (a and b) or (c and d) = max(min(3,-1), min(7,0.5)) = 0.5
	e := gpr.Or(gpr.And(gpr.Gene("a"), gpr.Gene("b")), gpr.And(gpr.Gene("c"), gpr.Gene("d")))
	assert.Equal(t, 0.5, gpr.Score(e, lookup(values)))
}

func TestActive_Knockouts(t *testing.T) {
	e := gpr.And(gpr.Gene("a"), gpr.Or(gpr.Gene("b"), gpr.Gene("c")))
	present := func(knocked ...string) func(string) bool {
		return func(g string) bool {
			for _, k := range knocked {
				if k == g {
					return false
				}
			}
			return true
		}
	}
	assert.True(t, gpr.Active(e, present()))
	assert.True(t, gpr.Active(e, present("b")))
	assert.False(t, gpr.Active(e, present("b", "c")))
	assert.False(t, gpr.Active(e, present("a")))
}

func TestConstructors_Flatten(t *testing.T) {
	e := gpr.And(gpr.Gene("a"), gpr.And(gpr.Gene("b"), gpr.Gene("c")))
	assert.Equal(t, gpr.OpAnd, e.Op)
	assert.Len(t, e.Children, 3)
	assert.Equal(t, "a", gpr.Or(gpr.Gene("a")).Gene)
	assert.Equal(t, []string{"a", "b", "c"}, gpr.Or(gpr.Gene("c"), e).Genes())
}

func TestConstructors_Empty(t *testing.T) {
	assert.Nil(t, gpr.And())
	assert.Nil(t, gpr.Or(nil, nil))
	assert.Equal(t, "a", gpr.And(nil, gpr.Gene("a")).Gene)
	assert.Len(t, gpr.Or(gpr.Gene("a"), nil, gpr.Gene("b")).Children, 2)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, gpr.MustParse("a and (b or c)").Validate())
	for name, e := range map[string]*gpr.Expr{
		"and":  {Op: gpr.OpAnd},
		"or":   {Op: gpr.OpOr, Children: []*gpr.Expr{}},
		"leaf": {Op: gpr.OpGene},
		"nil":  {Op: gpr.OpAnd, Children: []*gpr.Expr{gpr.Gene("a"), nil}},
		"deep": {Op: gpr.OpOr, Children: []*gpr.Expr{gpr.Gene("a"), {Op: gpr.OpAnd}}},
	} {
		assert.ErrorIs(t, e.Validate(), gpr.ErrEmptyNode, name)
	}
	assert.ErrorIs(t, (&gpr.Expr{Op: 9, Gene: "a"}).Validate(), gpr.ErrSyntax)
}

func TestScore_ForAllAndIsMinOrIsMax(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	leaves := func(xs []float64) ([]*gpr.Expr, map[string]float64) {
		nodes := make([]*gpr.Expr, len(xs))
		values := make(map[string]float64, len(xs))
		for i, x := range xs {
			id := fmt.Sprintf("g%d", i)
			nodes[i] = gpr.Gene(id)
			values[id] = x
		}
		return nodes, values
	}

	properties.Property("AND equals min of evidence", prop.ForAll(
		func(xs []float64) bool {
			nodes, values := leaves(xs)
			want := math.Inf(1)
			for _, x := range xs {
				want = math.Min(want, x)
			}
			return gpr.Score(gpr.And(nodes...), lookup(values)) == want
		},
		gen.SliceOfN(6, gen.Float64Range(-100, 100)),
	))

	properties.Property("OR equals max of evidence", prop.ForAll(
		func(xs []float64) bool {
			nodes, values := leaves(xs)
			want := math.Inf(-1)
			for _, x := range xs {
				want = math.Max(want, x)
			}
			return gpr.Score(gpr.Or(nodes...), lookup(values)) == want
		},
		gen.SliceOfN(6, gen.Float64Range(-100, 100)),
	))

	properties.Property("OR-only rule on uniform high evidence yields that level", prop.ForAll(
		func(n int) bool {
			xs := make([]float64, n)
			for i := range xs {
				xs[i] = 1
			}
			nodes, values := leaves(xs)
			return gpr.Score(gpr.Or(nodes...), lookup(values)) == 1
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
