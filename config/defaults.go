package config

import (
	"github.com/spf13/viper"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/divergence"
	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/network/graph"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/rankentropy"
	"github.com/katalvlaran/metflux/sampler"
	"github.com/katalvlaran/metflux/solver/lpsolve"
	"github.com/katalvlaran/metflux/synleth"
)

// setDefaults registers every key. Besides supplying values, registration
// is what lets AutomaticEnv see a key during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("solver.tolerance", lpsolve.DefaultTolerance)
	v.SetDefault("solver.integrality_tolerance", lpsolve.DefaultIntegralityTolerance)
	v.SetDefault("solver.max_nodes", lpsolve.DefaultMaxNodes)
	v.SetDefault("solver.time_limit", "0s")

	levels := evidence.DefaultLevels()
	v.SetDefault("evidence.categorical", false)
	v.SetDefault("evidence.missing", "default")
	v.SetDefault("evidence.high", levels.High)
	v.SetDefault("evidence.low", levels.Low)
	v.SetDefault("evidence.unknown", levels.Unknown)

	imat := problem.DefaultIMATOptions()
	v.SetDefault("imat.high_threshold", imat.HighThreshold)
	v.SetDefault("imat.low_threshold", imat.LowThreshold)
	v.SetDefault("imat.epsilon", imat.Epsilon)
	v.SetDefault("imat.threshold", imat.Threshold)
	v.SetDefault("imat.big_m", imat.BigM)

	mc := problem.DefaultMetchangeOptions()
	v.SetDefault("metchange.proportion", mc.Proportion)
	v.SetDefault("metchange.sink_upper", network.DefaultBound)
	v.SetDefault("metchange.low_threshold", imat.LowThreshold)
	v.SetDefault("metchange.relax_retries", batch.DefaultRelaxRetries)
	v.SetDefault("metchange.relax_factor", batch.DefaultRelaxFactor)

	v.SetDefault("sampler.samples", sampler.DefaultSamples)
	v.SetDefault("sampler.burn_in", sampler.DefaultBurnIn)
	v.SetDefault("sampler.thin", sampler.DefaultThin)
	v.SetDefault("sampler.max_iterations", 0)
	v.SetDefault("sampler.seed", 0)
	v.SetDefault("sampler.tolerance", sampler.DefaultTolerance)
	v.SetDefault("sampler.chains", 1)
	v.SetDefault("sampler.workers", 0)

	v.SetDefault("divergence.measure", "js")
	v.SetDefault("divergence.estimator", "histogram")
	v.SetDefault("divergence.bins", divergence.DefaultBins)
	v.SetDefault("divergence.pseudocount", divergence.DefaultPseudocount)
	v.SetDefault("divergence.neighbors", divergence.DefaultNeighbors)
	v.SetDefault("divergence.jitter", 0.0)
	v.SetDefault("divergence.jitter_seed", 0)

	v.SetDefault("synleth.max_depth", synleth.DefaultMaxDepth)
	v.SetDefault("synleth.active_cutoff", synleth.DefaultActiveCutoff)
	v.SetDefault("synleth.pfba_fraction", synleth.DefaultPFBAFraction)
	v.SetDefault("synleth.essential_proportion", synleth.DefaultEssentialProportion)

	v.SetDefault("graph.directed", false)
	v.SetDefault("graph.weight", graph.WeightNone.String())
	v.SetDefault("graph.threshold", graph.DefaultThreshold)
	v.SetDefault("graph.reciprocal", false)
	v.SetDefault("graph.proportion", 1.0)

	ro := rankentropy.DefaultOptions()
	v.SetDefault("rank_entropy.method", ro.Method.String())
	v.SetDefault("rank_entropy.iterations", ro.Iterations)
	v.SetDefault("rank_entropy.replace", ro.Replace)
	v.SetDefault("rank_entropy.seed", 0)
	v.SetDefault("rank_entropy.kde", ro.KDE)
	v.SetDefault("rank_entropy.bandwidth", 0.0)

	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.target_timeout", "0s")
}
