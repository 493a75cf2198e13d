package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/sampler"
)

func newSampleCommand(a *app) *cobra.Command {
	var (
		vf      viewFlags
		samples int
		chains  int
		seed    int64
		out     string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample the steady-state flux space with ACHR",
		Long: "sample warms up on per-reaction FBA extremes, then runs independent ACHR\n" +
			"chains and writes every recorded point as one CSV row.",
		Example: `  metflux sample -m model.json --samples 2000 --chains 4 -o wt.csv
  metflux sample -m model.json -k g_A_D -o ko.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			v, err := vf.view()
			if err != nil {
				return cliErrorf("sample", err)
			}
			opts := a.cfg.SamplerOptions(a.log.Named("sampler"))
			fs := cmd.Flags()
			if fs.Changed("samples") {
				opts.Samples = samples
			}
			if fs.Changed("seed") {
				opts.Seed = seed
			}
			n := a.cfg.Sampler.Chains
			if fs.Changed("chains") {
				n = chains
			}

			sp, err := sampler.New(ctx, a.solver(), v, opts)
			if err != nil {
				return cliErrorf("sample", err)
			}
			sets, err := sp.Chains(ctx, n)
			if err != nil {
				return cliErrorf("sample", err)
			}
			merged, err := sampler.Merge(sets...)
			if err != nil {
				return cliErrorf("sample", err)
			}
			a.log.Info("sampling finished",
				zap.Int("chains", n),
				zap.Int("samples", merged.Len()),
				zap.Int("clamped", merged.Clamped),
				zap.Stringer("outcome", merged.Outcome),
			)

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("sample", err)
			}
			if err := modelio.WriteSamplesCSV(w, merged); err != nil {
				_ = closeFn()
				return cliErrorf("sample", err)
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&samples, "samples", 0, "points per chain (default from config)")
	fs.IntVar(&chains, "chains", 0, "independent chains (default from config)")
	fs.Int64Var(&seed, "seed", 0, "base seed; chain i uses a seed derived from it")
	fs.StringVarP(&out, "out", "o", "", "samples CSV destination (default stdout)")
	return cmd
}
