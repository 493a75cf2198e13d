// Package cli implements the metflux command tree.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/config"
	"github.com/katalvlaran/metflux/logging"
	"github.com/katalvlaran/metflux/solver/lpsolve"
)

// Version is injected at build time with -ldflags.
var Version = "dev"

// app carries what PersistentPreRunE initialises into the subcommands.
type app struct {
	configPath string
	logLevel   string
	timeout    time.Duration

	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand builds the metflux command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "metflux",
		Short: "Integrate omics evidence with metabolic network models",
		Long: "metflux builds and solves flux balance, IMAT and Metchange problems on COBRA\n" +
			"models, samples steady-state flux spaces, compares flux distributions and\n" +
			"gene rank conservation, and exports the metabolite-reaction graph.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file (METFLUX_* variables override it)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")
	pf.DurationVar(&a.timeout, "timeout", 0, "abort the command after this long (0 = no limit)")

	cmd.AddCommand(
		newFBACommand(a),
		newIMATCommand(a),
		newMetchangeCommand(a),
		newSampleCommand(a),
		newDivergenceCommand(a),
		newSynlethCommand(a),
		newGraphCommand(a),
		newRankEntropyCommand(a),
	)
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// context applies --timeout to the command context.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}

func (a *app) solver() *lpsolve.Solver {
	return lpsolve.New(a.cfg.SolverOptions(a.log.Named("lpsolve"))...)
}

func cliErrorf(cmd string, err error) error {
	return fmt.Errorf("%s: %w", cmd, err)
}

// Execute runs the command tree with ctx and returns the first error.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
