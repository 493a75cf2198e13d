package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/metflux/synleth"
)

func newSynlethCommand(a *app) *cobra.Command {
	var (
		vf        viewFlags
		depth     int
		essential bool
		out       string
	)
	cmd := &cobra.Command{
		Use:   "synleth",
		Short: "Find minimal lethal gene knockout sets",
		Long: "synleth knocks out genes that carry flux in a parsimonious solution, level by\n" +
			"level, and reports every minimal set whose knockout drops the objective\n" +
			"below the essentiality cutoff. One set per line, genes comma separated.",
		Example: `  metflux synleth -m model.json --depth 2
  metflux synleth -m model.json --essential`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			v, err := vf.view()
			if err != nil {
				return cliErrorf("synleth", err)
			}
			opts := a.cfg.SynlethOptions(a.log.Named("synleth"))
			if cmd.Flags().Changed("depth") {
				opts.MaxDepth = depth
			}

			var sets [][]string
			if essential {
				genes, err := synleth.EssentialGenes(ctx, a.solver(), v, opts)
				if err != nil {
					return cliErrorf("synleth", err)
				}
				for _, g := range genes {
					sets = append(sets, []string{g})
				}
			} else {
				res, err := synleth.Find(ctx, a.solver(), v, opts)
				if err != nil {
					return cliErrorf("synleth", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "optimum=%g cutoff=%g evaluated=%d\n", res.Optimum, res.Cutoff, res.Evaluated)
				sets = res.Sets
			}

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("synleth", err)
			}
			for _, s := range sets {
				if _, err := fmt.Fprintln(w, strings.Join(s, ",")); err != nil {
					_ = closeFn()
					return cliErrorf("synleth", err)
				}
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&depth, "depth", 0, "largest knockout set size (default from config)")
	fs.BoolVar(&essential, "essential", false, "only test single-gene knockouts of every model gene")
	fs.StringVarP(&out, "out", "o", "", "destination (default stdout)")
	return cmd
}
