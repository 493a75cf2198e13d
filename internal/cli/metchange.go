package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/problem"
)

func newMetchangeCommand(a *app) *cobra.Command {
	var (
		vf          viewFlags
		evPath      string
		condition   string
		metabolites []string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "metchange",
		Short: "Score metabolites by their inconsistency with an evidence condition",
		Long: "metchange maximizes production of each metabolite through a temporary sink,\n" +
			"then minimizes the weighted flux through low-evidence reactions while keeping\n" +
			"a proportion of that maximum.",
		Example: `  metflux metchange -m model.json -e expression.csv --condition tumour
  metflux metchange -m model.json -e expression.csv --condition tumour --metabolite atp_c,nad_c`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			v, err := vf.view()
			if err != nil {
				return cliErrorf("metchange", err)
			}
			var selected []string
			if condition != "" {
				selected = []string{condition}
			}
			byCondition, err := a.conditionScores(v.Model(), evPath, selected)
			if err != nil {
				return cliErrorf("metchange", err)
			}
			if len(byCondition) != 1 {
				return cliErrorf("metchange", fmt.Errorf("%w: %d conditions in evidence, pick one with --condition", ErrUsage, len(byCondition)))
			}
			var scores map[string]float64
			for _, s := range byCondition {
				scores = s
			}
			weights := problem.LowScoreWeights(scores, a.cfg.Metchange.LowThreshold)

			mets := metabolites
			if len(mets) == 0 {
				mets = v.Model().MetaboliteIDs()
			}
			r, err := batch.NewRunner(a.solver(), a.cfg.BatchOptions(a.log)...)
			if err != nil {
				return cliErrorf("metchange", err)
			}
			rep, err := r.Metchange(ctx, v, mets, weights)
			if err != nil {
				return cliErrorf("metchange", err)
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("metchange", err)
			}
			if err := writeReport(w, rep); err != nil {
				_ = closeFn()
				return cliErrorf("metchange", err)
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&evPath, "evidence", "e", "", "gene evidence CSV")
	fs.StringVar(&condition, "condition", "", "evidence column to use (optional when the CSV has one)")
	fs.StringSliceVar(&metabolites, "metabolite", nil, "metabolites to score (default: all)")
	fs.StringVarP(&out, "out", "o", "", "report CSV destination (default stdout)")
	_ = cmd.MarkFlagRequired("evidence")
	return cmd
}
