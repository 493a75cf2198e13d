package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/config"
	"github.com/katalvlaran/metflux/divergence"
	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/rankentropy"
	"github.com/katalvlaran/metflux/sampler"
	"github.com/katalvlaran/metflux/synleth"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metflux.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_MatchesPackageDefaults(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.Equal(t, problem.DefaultIMATOptions(), cfg.IMATOptions())
	assert.Equal(t, problem.DefaultMetchangeOptions(), cfg.MetchangeOptions())
	assert.Equal(t, evidence.DefaultOptions(), cfg.EvidenceOptions())

	so := cfg.SamplerOptions(zap.NewNop())
	assert.Equal(t, sampler.DefaultSamples, so.Samples)
	assert.Equal(t, sampler.DefaultBurnIn, so.BurnIn)
	assert.Greater(t, so.Workers, 0)

	do := cfg.DivergenceOptions()
	assert.Equal(t, divergence.JS, do.Measure)
	assert.Equal(t, divergence.EstimatorHistogram, do.Estimator)
	assert.Equal(t, divergence.DefaultBins, do.Bins)

	sl := cfg.SynlethOptions(zap.NewNop())
	assert.Equal(t, synleth.DefaultMaxDepth, sl.MaxDepth)
	assert.Equal(t, synleth.DefaultPFBAFraction, sl.PFBAFraction)
	assert.Len(t, cfg.SolverOptions(zap.NewNop()), 5)
	assert.Len(t, cfg.BatchOptions(zap.NewNop()), 6)

	assert.Len(t, cfg.GraphOptions(nil), 1)
	vo := cfg.VariabilityOptions(zap.NewNop())
	assert.Equal(t, 1.0, vo.Proportion)
	assert.Greater(t, vo.Workers, 0)

	ro := cfg.RankEntropyOptions()
	want := rankentropy.DefaultOptions()
	assert.Equal(t, want.Method, ro.Method)
	assert.Equal(t, want.Iterations, ro.Iterations)
	assert.Equal(t, want.Replace, ro.Replace)
	assert.Equal(t, want.KDE, ro.KDE)
	assert.Zero(t, ro.Bandwidth)
}

func TestLoad_GraphAndRankEntropy(t *testing.T) {
	path := writeConfig(t, `
graph:
  directed: true
  weight: flux
  reciprocal: true
  proportion: 0.5
rank_entropy:
  method: dirac-classification
  iterations: 40
  replace: false
`)
	t.Setenv("METFLUX_RANK_ENTROPY_SEED", "9")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	// Threshold, directed, flux weights, reciprocal.
	assert.Len(t, cfg.GraphOptions(nil), 4)
	assert.Equal(t, 0.5, cfg.VariabilityOptions(zap.NewNop()).Proportion)

	ro := cfg.RankEntropyOptions()
	assert.Equal(t, rankentropy.DiracClassification, ro.Method)
	assert.Equal(t, 40, ro.Iterations)
	assert.False(t, ro.Replace)
	assert.Equal(t, int64(9), ro.Seed)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
sampler:
  samples: 250
  seed: 42
divergence:
  measure: kl
  estimator: knn
evidence:
  missing: fail
batch:
  workers: 3
  target_timeout: 2s
`)
	t.Setenv("METFLUX_SAMPLER_BURN_IN", "7")
	t.Setenv("METFLUX_IMAT_BIG_M", "500")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250, cfg.Sampler.Samples)
	assert.Equal(t, int64(42), cfg.Sampler.Seed)
	assert.Equal(t, 7, cfg.Sampler.BurnIn)
	assert.Equal(t, 500.0, cfg.IMATOptions().BigM)
	assert.Equal(t, evidence.MissingFail, cfg.EvidenceOptions().Missing)
	assert.Equal(t, 2*time.Second, cfg.Batch.TargetTimeout)

	do := cfg.DivergenceOptions()
	assert.Equal(t, divergence.KL, do.Measure)
	assert.Equal(t, divergence.EstimatorKNN, do.Estimator)
	assert.Equal(t, 3, do.Workers)
	assert.Equal(t, 3, cfg.SamplerOptions(zap.NewNop()).Workers)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("METFLUX_SYNLETH_MAX_DEPTH", "2")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Synleth.MaxDepth)
}

func TestLoad_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"level":      "log:\n  level: loud\n",
		"proportion": "metchange:\n  proportion: 1.5\n",
		"thresholds": "imat:\n  high_threshold: -1\n  low_threshold: 0\n",
		"measure":    "divergence:\n  measure: hellinger\n",
		"samples":    "sampler:\n  samples: 0\n",
		"tolerance":  "solver:\n  tolerance: 0.5\n",
		"weight":     "graph:\n  weight: degree\n",
		"method":     "rank_entropy:\n  method: crane2\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}
