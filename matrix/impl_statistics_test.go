// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/matrix"
)

func TestColumnMeans_FastAndFallback(t *testing.T) {
	X := mustDense(t, 2, 3, []float64{1, 2, 3, 10, 20, 30})

	fast, err := matrix.ColumnMeans(X)
	require.NoError(t, err)
	slow, err := matrix.ColumnMeans(hide{X})
	require.NoError(t, err)
	assert.Equal(t, []float64{5.5, 11, 16.5}, fast)
	assert.Equal(t, fast, slow)
}

func TestCenterColumns(t *testing.T) {
	X := mustDense(t, 2, 2, []float64{1, 4, 3, 8})
	Y, means, err := matrix.CenterColumns(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 6}, means)
	row, _ := Y.Row(0)
	assert.Equal(t, []float64{-1, -2}, row)
}
