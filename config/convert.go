package config

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/divergence"
	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/network/graph"
	"github.com/katalvlaran/metflux/problem"
	"github.com/katalvlaran/metflux/rankentropy"
	"github.com/katalvlaran/metflux/sampler"
	"github.com/katalvlaran/metflux/solver/lpsolve"
	"github.com/katalvlaran/metflux/synleth"
)

func (c *Config) workers() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SolverOptions returns the lpsolve options for c.Solver.
func (c *Config) SolverOptions(log *zap.Logger) []lpsolve.Option {
	return []lpsolve.Option{
		lpsolve.WithTolerance(c.Solver.Tolerance),
		lpsolve.WithIntegralityTolerance(c.Solver.IntegralityTolerance),
		lpsolve.WithMaxNodes(c.Solver.MaxNodes),
		lpsolve.WithTimeLimit(c.Solver.TimeLimit),
		lpsolve.WithLogger(log),
	}
}

// EvidenceOptions returns the evaluation options.
func (c *Config) EvidenceOptions() evidence.Options {
	levels := evidence.Levels{High: c.Evidence.High, Low: c.Evidence.Low, Unknown: c.Evidence.Unknown}
	o := evidence.Options{Levels: levels, MissingScore: levels.Unknown, NoRuleScore: levels.Unknown}
	if c.Evidence.Missing == "fail" {
		o.Missing = evidence.MissingFail
	}
	return o
}

// IMATOptions returns the IMAT formulation options.
func (c *Config) IMATOptions() problem.IMATOptions {
	return problem.IMATOptions{
		HighThreshold: c.IMAT.HighThreshold,
		LowThreshold:  c.IMAT.LowThreshold,
		Epsilon:       c.IMAT.Epsilon,
		Threshold:     c.IMAT.Threshold,
		BigM:          c.IMAT.BigM,
	}
}

// MetchangeOptions returns the Metchange formulation options.
func (c *Config) MetchangeOptions() problem.MetchangeOptions {
	return problem.MetchangeOptions{Proportion: c.Metchange.Proportion, SinkUpper: c.Metchange.SinkUpper}
}

// SamplerOptions returns the sampler options.
func (c *Config) SamplerOptions(log *zap.Logger) sampler.Options {
	workers := c.Sampler.Workers
	if workers <= 0 {
		workers = c.workers()
	}
	return sampler.Options{
		Samples:       c.Sampler.Samples,
		BurnIn:        c.Sampler.BurnIn,
		Thin:          c.Sampler.Thin,
		MaxIterations: c.Sampler.MaxIterations,
		Seed:          c.Sampler.Seed,
		Tolerance:     c.Sampler.Tolerance,
		Workers:       workers,
		Logger:        log,
	}
}

// DivergenceOptions returns the divergence options. The measure and
// estimator names were checked by Validate.
func (c *Config) DivergenceOptions() divergence.Options {
	m, _ := divergence.ParseMeasure(c.Divergence.Measure)
	e, _ := divergence.ParseEstimator(c.Divergence.Estimator)
	return divergence.Options{
		Measure:     m,
		Estimator:   e,
		Bins:        c.Divergence.Bins,
		Pseudocount: c.Divergence.Pseudocount,
		Neighbors:   c.Divergence.Neighbors,
		Jitter:      c.Divergence.Jitter,
		JitterSeed:  c.Divergence.JitterSeed,
		Workers:     c.workers(),
	}
}

// SynlethOptions returns the synthetic lethality options.
func (c *Config) SynlethOptions(log *zap.Logger) synleth.Options {
	return synleth.Options{
		MaxDepth:            c.Synleth.MaxDepth,
		ActiveCutoff:        c.Synleth.ActiveCutoff,
		PFBAFraction:        c.Synleth.PFBAFraction,
		EssentialProportion: c.Synleth.EssentialProportion,
		Workers:             c.workers(),
		Logger:              log,
	}
}

// GraphOptions returns the graph construction options. ranges is only
// read when the weighting is flux.
func (c *Config) GraphOptions(ranges []graph.FluxRange) []graph.Option {
	opts := []graph.Option{graph.WithThreshold(c.Graph.Threshold)}
	if c.Graph.Directed {
		opts = append(opts, graph.WithDirected())
	}
	switch w, _ := graph.ParseWeighting(c.Graph.Weight); w {
	case graph.WeightStoichiometry:
		opts = append(opts, graph.WithStoichiometryWeights())
	case graph.WeightFlux:
		opts = append(opts, graph.WithFluxWeights(ranges))
	}
	if c.Graph.Reciprocal {
		opts = append(opts, graph.WithReciprocal())
	}
	return opts
}

// VariabilityOptions returns the options of the variability run behind
// flux weights.
func (c *Config) VariabilityOptions(log *zap.Logger) graph.VariabilityOptions {
	o := graph.DefaultVariabilityOptions()
	o.Proportion = c.Graph.Proportion
	o.Workers = c.workers()
	o.Logger = log
	return o
}

// RankEntropyOptions returns the rank entropy options. The method name was
// checked by Validate.
func (c *Config) RankEntropyOptions() rankentropy.Options {
	m, _ := rankentropy.ParseMethod(c.RankEntropy.Method)
	return rankentropy.Options{
		Method:     m,
		Iterations: c.RankEntropy.Iterations,
		Replace:    c.RankEntropy.Replace,
		Seed:       c.RankEntropy.Seed,
		Workers:    c.workers(),
		KDE:        c.RankEntropy.KDE,
		Bandwidth:  c.RankEntropy.Bandwidth,
	}
}

// BatchOptions returns the batch runner options.
func (c *Config) BatchOptions(log *zap.Logger) []batch.Option {
	return []batch.Option{
		batch.WithWorkers(c.workers()),
		batch.WithTargetTimeout(c.Batch.TargetTimeout),
		batch.WithMetchange(c.MetchangeOptions()),
		batch.WithRelaxation(c.Metchange.RelaxRetries, c.Metchange.RelaxFactor),
		batch.WithIMAT(c.IMATOptions()),
		batch.WithLogger(log),
	}
}
