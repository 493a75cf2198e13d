// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/metflux/matrix"
)

// hide wraps any Matrix to hide its concrete type and force the non-*Dense paths.
type hide struct{ matrix.Matrix }

// mustDense builds an r×c Dense from row-major data or fails the test.
func mustDense(t *testing.T, r, c int, data []float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(t, err)

	return d
}
