package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/solver"
)

func newFBACommand(a *app) *cobra.Command {
	var (
		vf       viewFlags
		obj      string
		minimize bool
		out      string
	)
	cmd := &cobra.Command{
		Use:   "fba",
		Short: "Solve flux balance analysis and print the flux vector",
		Example: `  metflux fba -m model.json
  metflux fba -m model.json --objective R_biomass -b EX_glc=-10:inf -k g1,g2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			v, err := vf.view()
			if err != nil {
				return cliErrorf("fba", err)
			}
			r, err := batch.NewRunner(a.solver(), a.cfg.BatchOptions(a.log)...)
			if err != nil {
				return cliErrorf("fba", err)
			}
			rep, err := r.Run(ctx, []batch.Target{batch.FBATarget("fba", v, objective(obj, minimize))})
			if err != nil {
				return cliErrorf("fba", err)
			}
			o := rep.Outcomes[0]
			fmt.Fprintf(cmd.ErrOrStderr(), "status=%s objective=%g\n", o.Status, o.Objective)
			if o.Status != solver.Optimal {
				return cliErrorf("fba", &solver.StatusError{Op: "fba", Status: o.Status})
			}
			a.log.Info("fba solved", zap.Float64("objective", o.Objective), zap.Duration("took", o.Duration))

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("fba", err)
			}
			if err := modelio.WriteScoresCSV(w, "flux", o.Fluxes); err != nil {
				_ = closeFn()
				return cliErrorf("fba", err)
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&obj, "objective", "", "reaction to optimize (default: model objective)")
	fs.BoolVar(&minimize, "minimize", false, "minimize instead of maximize")
	fs.StringVarP(&out, "out", "o", "", "flux CSV destination (default stdout)")
	return cmd
}
