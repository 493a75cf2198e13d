// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/matrix"
)

func TestRowReduce_DropsDependentRows(t *testing.T) {
	a := mustDense(t, 3, 3, []float64{
		1, 1, 0,
		2, 2, 0,
		0, 1, 1,
	})
	r, b, err := matrix.RowReduce(a, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Rows())
	assert.Len(t, b, 2)

	// x = (1, 0, 3) solves the original system; it must solve the reduced one too.
	y, err := matrix.MatVec(r, []float64{1, 0, 3})
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, b[i], y[i], 1e-12)
	}
}

func TestRowReduce_Inconsistent(t *testing.T) {
	a := mustDense(t, 2, 2, []float64{1, 1, 2, 2})
	_, _, err := matrix.RowReduce(a, []float64{1, 3})
	assert.ErrorIs(t, err, matrix.ErrInconsistent)
}

func TestRowReduce_AllZero(t *testing.T) {
	a, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	r, b, err := matrix.RowReduce(a, []float64{0, 0})
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Nil(t, b)

	_, _, err = matrix.RowReduce(a, []float64{0})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
