// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/matrix"
)

func TestNewDense_InvalidShape(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestDense_AccessorsAndClone(t *testing.T) {
	d := mustDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	v, err := d.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	_, err = d.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, d.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	c := d.Clone()
	require.NoError(t, c.Set(0, 0, 42))
	v, _ = d.At(0, 0)
	assert.Equal(t, 1.0, v, "clone must not alias")

	row, err := d.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)
	col, err := d.Col(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, col)

	view := d.RowView(0)
	view[1] = -2
	v, _ = d.At(0, 1)
	assert.Equal(t, -2.0, v, "RowView aliases storage")
}

func TestFromRows(t *testing.T) {
	d, err := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Rows())
	assert.Equal(t, 2, d.Cols())

	_, err = matrix.FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.FromRows(nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestMatVec_FastAndFallback(t *testing.T) {
	d := mustDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	x := []float64{1, 0, -1}

	fast, err := matrix.MatVec(d, x)
	require.NoError(t, err)
	slow, err := matrix.MatVec(hide{d}, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, fast)
	assert.Equal(t, fast, slow)

	yt, err := matrix.MatTVec(d, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, yt)
	ytSlow, err := matrix.MatTVec(hide{d}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, yt, ytSlow)

	_, err = matrix.MatVec(d, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(nil, x)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTranspose(t *testing.T) {
	d := mustDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	tr, err := matrix.Transpose(d)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Rows())
	row, _ := tr.Row(2)
	assert.Equal(t, []float64{3, 6}, row)
}
