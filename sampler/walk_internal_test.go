package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWalker_ClampLogsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sp := &Sampler{
		ids:   []string{"r1", "r2", "r3"},
		lower: []float64{0, 0, 0},
		upper: []float64{1, 1, 1},
		opts:  Options{Tolerance: 1e-7, Logger: zap.New(core)},
	}
	w := &walker{sp: sp, point: []float64{-1e-9, 0.5, 1.5}}
	w.clamp()

	assert.Equal(t, []float64{0, 0.5, 1}, w.point)
	assert.Equal(t, 2, w.clamped)
	require.Equal(t, 2, logs.Len())

	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "r1", entries[0].ContextMap()["reaction"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "r3", entries[1].ContextMap()["reaction"])
}

func TestWalker_Interval(t *testing.T) {
	sp := &Sampler{lower: []float64{0, -1}, upper: []float64{2, 1}}
	w := &walker{sp: sp, point: []float64{0.5, 0}}

	lo, hi, err := w.interval([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, -0.5, lo)
	assert.Equal(t, 1.5, hi)

	lo, hi, err = w.interval([]float64{-1, 1})
	require.NoError(t, err)
	assert.Equal(t, -1.0, lo) // second coordinate hits -1
	assert.Equal(t, 0.5, hi)  // first coordinate hits 0

	sp.upper[0] = math.Inf(1)
	_, _, err = w.interval([]float64{1, 0})
	assert.ErrorIs(t, err, ErrUnboundedSpace)
}

func TestDeriveSeed_Distinct(t *testing.T) {
	seen := map[int64]bool{}
	for i := uint64(0); i < 100; i++ {
		s := DeriveSeed(42, i)
		assert.False(t, seen[s])
		seen[s] = true
	}
	assert.Equal(t, rngFromSeed(0).Int63(), rngFromSeed(defaultSeed).Int63())
}
