// Package config loads metflux settings from a YAML file and METFLUX_*
// environment variables, validates them and converts them into the option
// structs of the computational packages.
//
// Every key has a registered default, so a missing file section (or a
// missing file) yields the package defaults, and every key can be overridden
// from the environment: sampler.burn_in ↔ METFLUX_SAMPLER_BURN_IN.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/katalvlaran/metflux/logging"
)

const envPrefix = "METFLUX"

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full configuration tree.
type Config struct {
	Log         logging.Config    `mapstructure:"log"`
	Solver      SolverConfig      `mapstructure:"solver"`
	Evidence    EvidenceConfig    `mapstructure:"evidence"`
	IMAT        IMATConfig        `mapstructure:"imat"`
	Metchange   MetchangeConfig   `mapstructure:"metchange"`
	Sampler     SamplerConfig     `mapstructure:"sampler"`
	Divergence  DivergenceConfig  `mapstructure:"divergence"`
	Synleth     SynlethConfig     `mapstructure:"synleth"`
	Graph       GraphConfig       `mapstructure:"graph"`
	RankEntropy RankEntropyConfig `mapstructure:"rank_entropy"`
	Batch       BatchConfig       `mapstructure:"batch"`
}

// SolverConfig configures the reference LP/MILP backend.
type SolverConfig struct {
	Tolerance            float64       `mapstructure:"tolerance" validate:"gt=0,lte=0.001"`
	IntegralityTolerance float64       `mapstructure:"integrality_tolerance" validate:"gt=0,lt=0.5"`
	MaxNodes             int           `mapstructure:"max_nodes" validate:"gt=0"`
	TimeLimit            time.Duration `mapstructure:"time_limit" validate:"gte=0"`
}

// EvidenceConfig configures the gene-to-reaction evaluation.
type EvidenceConfig struct {
	Categorical bool    `mapstructure:"categorical"`
	Missing     string  `mapstructure:"missing" validate:"oneof=default fail"`
	High        float64 `mapstructure:"high"`
	Low         float64 `mapstructure:"low" validate:"ltfield=High"`
	Unknown     float64 `mapstructure:"unknown"`
}

// IMATConfig mirrors problem.IMATOptions.
type IMATConfig struct {
	HighThreshold float64 `mapstructure:"high_threshold"`
	LowThreshold  float64 `mapstructure:"low_threshold" validate:"ltfield=HighThreshold"`
	Epsilon       float64 `mapstructure:"epsilon" validate:"gt=0"`
	Threshold     float64 `mapstructure:"threshold" validate:"gte=0"`
	BigM          float64 `mapstructure:"big_m" validate:"gte=0"`
}

// MetchangeConfig mirrors problem.MetchangeOptions plus the weighting and
// retry policy.
type MetchangeConfig struct {
	Proportion   float64 `mapstructure:"proportion" validate:"gt=0,lte=1"`
	SinkUpper    float64 `mapstructure:"sink_upper" validate:"gt=0"`
	LowThreshold float64 `mapstructure:"low_threshold"`
	RelaxRetries int     `mapstructure:"relax_retries" validate:"gte=0"`
	RelaxFactor  float64 `mapstructure:"relax_factor" validate:"gt=0,lt=1"`
}

// SamplerConfig mirrors sampler.Options.
type SamplerConfig struct {
	Samples       int     `mapstructure:"samples" validate:"gt=0"`
	BurnIn        int     `mapstructure:"burn_in" validate:"gte=0"`
	Thin          int     `mapstructure:"thin" validate:"gt=0"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"gte=0"`
	Seed          int64   `mapstructure:"seed"`
	Tolerance     float64 `mapstructure:"tolerance" validate:"gt=0"`
	Chains        int     `mapstructure:"chains" validate:"gte=1"`
	Workers       int     `mapstructure:"workers" validate:"gte=0"`
}

// DivergenceConfig mirrors divergence.Options.
type DivergenceConfig struct {
	Measure     string  `mapstructure:"measure" validate:"oneof=kl js"`
	Estimator   string  `mapstructure:"estimator" validate:"oneof=histogram knn"`
	Bins        int     `mapstructure:"bins" validate:"gt=0"`
	Pseudocount float64 `mapstructure:"pseudocount" validate:"gt=0"`
	Neighbors   int     `mapstructure:"neighbors" validate:"gt=0"`
	Jitter      float64 `mapstructure:"jitter" validate:"gte=0"`
	JitterSeed  int64   `mapstructure:"jitter_seed"`
}

// SynlethConfig mirrors synleth.Options.
type SynlethConfig struct {
	MaxDepth            int     `mapstructure:"max_depth" validate:"gte=1"`
	ActiveCutoff        float64 `mapstructure:"active_cutoff" validate:"gte=0"`
	PFBAFraction        float64 `mapstructure:"pfba_fraction" validate:"gt=0,lte=1"`
	EssentialProportion float64 `mapstructure:"essential_proportion" validate:"gte=0,lt=1"`
}

// GraphConfig configures network graph construction. Proportion applies
// to the variability run behind flux weights.
type GraphConfig struct {
	Directed   bool    `mapstructure:"directed"`
	Weight     string  `mapstructure:"weight" validate:"oneof=none stoichiometry flux"`
	Threshold  float64 `mapstructure:"threshold" validate:"gte=0"`
	Reciprocal bool    `mapstructure:"reciprocal"`
	Proportion float64 `mapstructure:"proportion" validate:"gte=0,lte=1"`
}

// RankEntropyConfig mirrors rankentropy.Options.
type RankEntropyConfig struct {
	Method     string  `mapstructure:"method" validate:"oneof=crane dirac dirac-classification"`
	Iterations int     `mapstructure:"iterations" validate:"gt=0"`
	Replace    bool    `mapstructure:"replace"`
	Seed       int64   `mapstructure:"seed"`
	KDE        bool    `mapstructure:"kde"`
	Bandwidth  float64 `mapstructure:"bandwidth" validate:"gte=0"`
}

// BatchConfig configures the batch runner.
type BatchConfig struct {
	// Workers bounds concurrent targets, warm-up solves and synleth
	// knockouts; 0 means GOMAXPROCS.
	Workers       int           `mapstructure:"workers" validate:"gte=0"`
	TargetTimeout time.Duration `mapstructure:"target_timeout" validate:"gte=0"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads path (skipped when empty), applies METFLUX_* overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}
	return decode(v)
}

// Default returns the validated defaults, ignoring the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, len(ve))
			for i, fe := range ve {
				msgs[i] = fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
