package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/network/graph"
)

func newGraphCommand(a *app) *cobra.Command {
	var (
		vf         viewFlags
		weight     string
		directed   bool
		reciprocal bool
		threshold  float64
		proportion float64
		remove     []string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the metabolite-reaction graph and print its edges",
		Long: "graph connects every reaction to the metabolites it consumes or produces in\n" +
			"a direction its bounds allow. Edges are written as from,to,weight rows.\n" +
			"Flux weights come from a flux variability run at --proportion of the optimum.",
		Example: `  metflux graph -m model.json --directed
  metflux graph -m model.json --weight flux --proportion 0.9 --remove h2o_c,atp_c`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			c := *a.cfg
			fs := cmd.Flags()
			if fs.Changed("weight") {
				c.Graph.Weight = weight
			}
			if fs.Changed("directed") {
				c.Graph.Directed = directed
			}
			if fs.Changed("reciprocal") {
				c.Graph.Reciprocal = reciprocal
			}
			if fs.Changed("threshold") {
				c.Graph.Threshold = threshold
			}
			if fs.Changed("proportion") {
				c.Graph.Proportion = proportion
			}
			if err := c.Validate(); err != nil {
				return cliErrorf("graph", fmt.Errorf("%w: %w", ErrUsage, err))
			}

			v, err := vf.view()
			if err != nil {
				return cliErrorf("graph", err)
			}
			var ranges []graph.FluxRange
			if w, _ := graph.ParseWeighting(c.Graph.Weight); w == graph.WeightFlux {
				ranges, err = graph.FluxVariability(ctx, a.solver(), v, c.VariabilityOptions(a.log.Named("graph")))
				if err != nil {
					return cliErrorf("graph", err)
				}
			}
			opts := c.GraphOptions(ranges)
			if len(remove) > 0 {
				opts = append(opts, graph.WithoutNodes(remove...))
			}
			g, err := graph.Build(v, opts...)
			if err != nil {
				return cliErrorf("graph", err)
			}
			a.log.Info("graph built",
				zap.Int("nodes", g.NumNodes()),
				zap.Int("edges", g.NumEdges()),
				zap.Bool("directed", g.Directed()),
				zap.String("weight", c.Graph.Weight),
			)

			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("graph", err)
			}
			if err := modelio.WriteEdgesCSV(w, g); err != nil {
				_ = closeFn()
				return cliErrorf("graph", err)
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&weight, "weight", "", "none, stoichiometry or flux (default from config)")
	fs.BoolVar(&directed, "directed", false, "follow reaction direction")
	fs.BoolVar(&reciprocal, "reciprocal", false, "replace every weight w by 1/w")
	fs.Float64Var(&threshold, "threshold", graph.DefaultThreshold, "capacity at or below which a direction is closed")
	fs.Float64Var(&proportion, "proportion", 1, "fraction of the optimum held during the flux variability run")
	fs.StringSliceVar(&remove, "remove", nil, "metabolites or reactions to drop from the graph")
	fs.StringVarP(&out, "out", "o", "", "edge CSV destination (default stdout)")
	return cmd
}
