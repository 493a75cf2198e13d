package divergence

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKthDistance(t *testing.T) {
	s := []float64{0, 1, 1, 4, 9}
	assert.Equal(t, 0.0, kthDistance(s, 1, 1))
	assert.Equal(t, 0.0, kthDistance(s, 1, 2))
	assert.Equal(t, 1.0, kthDistance(s, 1, 3))
	assert.Equal(t, 3.0, kthDistance(s, 1, 4))
	assert.Equal(t, 2.0, kthDistance(s, 2, 3))
	assert.Equal(t, 9.0, kthDistance(s, -1, 5)-1)
	assert.Equal(t, 1.0, kthDistance(s, 10, 1))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []float64{-1, 0, 2}, dedupe([]float64{-1, -1, 0, 2, 2}))
	assert.Empty(t, dedupe(nil))
}

func TestEdges(t *testing.T) {
	d := edges(0, 10, 5)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, math.Nextafter(10, 11)}, d)

	d = edges(-math.MaxFloat64, math.MaxFloat64, 4)
	assert.Len(t, d, 5)
	assert.True(t, sort.Float64sAreSorted(d))
	assert.Equal(t, -math.MaxFloat64, d[0])
	assert.Equal(t, 0.0, d[2])
	assert.True(t, math.IsInf(d[4], 1))

	hi := math.Nextafter(1, 2)
	d = edges(1, hi, 16)
	assert.True(t, sort.Float64sAreSorted(d))
	assert.Equal(t, 1.0, d[0])
	assert.Greater(t, d[16], hi)
}
