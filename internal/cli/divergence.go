package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/metflux/divergence"
	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/sampler"
)

func readSamples(path string) (*sampler.SampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := modelio.ReadSamplesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func newDivergenceCommand(a *app) *cobra.Command {
	var (
		measure, estimator string
		out                string
	)
	cmd := &cobra.Command{
		Use:   "divergence P.csv Q.csv",
		Short: "Compare two flux sample sets reaction by reaction",
		Long: "divergence reads two sample CSVs written by the sample command and reports\n" +
			"D(P‖Q) per reaction for the reactions both files share.",
		Example: `  metflux divergence wt.csv ko.csv
  metflux divergence wt.csv ko.csv --measure kl --estimator knn`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.DivergenceOptions()
			var err error
			if measure != "" {
				if opts.Measure, err = divergence.ParseMeasure(measure); err != nil {
					return cliErrorf("divergence", err)
				}
			}
			if estimator != "" {
				if opts.Estimator, err = divergence.ParseEstimator(estimator); err != nil {
					return cliErrorf("divergence", err)
				}
			}
			p, err := readSamples(args[0])
			if err != nil {
				return cliErrorf("divergence", err)
			}
			q, err := readSamples(args[1])
			if err != nil {
				return cliErrorf("divergence", err)
			}
			res, err := divergence.Compare(p, q, opts)
			if err != nil {
				return cliErrorf("divergence", err)
			}
			a.log.Info("divergence computed",
				zap.Stringer("measure", res.Measure),
				zap.Stringer("estimator", res.Estimator),
				zap.Int("reactions", len(res.Reactions)),
				zap.Float64("mean", res.Mean),
			)

			values := make(map[string]float64, len(res.Reactions))
			for i, id := range res.Reactions {
				values[id] = res.Values[i]
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("divergence", err)
			}
			if err := modelio.WriteScoresCSV(w, res.Measure.String(), values); err != nil {
				_ = closeFn()
				return cliErrorf("divergence", err)
			}
			return closeFn()
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&measure, "measure", "", "kl or js (default from config)")
	fs.StringVar(&estimator, "estimator", "", "histogram or knn (default from config)")
	fs.StringVarP(&out, "out", "o", "", "divergence CSV destination (default stdout)")
	return cmd
}
