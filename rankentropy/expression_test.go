package rankentropy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/matrix"
	"github.com/katalvlaran/metflux/rankentropy"
)

func TestExpression_Select(t *testing.T) {
	values, err := matrix.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	e := &rankentropy.Expression{Samples: []string{"s1", "s2"}, Genes: []string{"g1", "g2", "g3"}, Values: values}

	got, err := e.Select([]string{"s2", "s1"}, []string{"g3", "g1"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{6, 4}, {3, 1}}, got)

	all, err := e.Select([]string{"s1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, all)
	all[0][0] = 99
	v, _ := values.At(0, 0)
	assert.Equal(t, 1.0, v, "rows are copies")

	_, err = e.Select([]string{"s3"}, nil)
	assert.ErrorIs(t, err, rankentropy.ErrUnknownSample)
	_, err = e.Select([]string{"s1"}, []string{"g9"})
	assert.ErrorIs(t, err, rankentropy.ErrUnknownGene)
}
