package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/network"
)

// conditionScores evaluates the selected evidence columns against m.
// An empty selection means every column.
func (a *app) conditionScores(m *network.Model, path string, selected []string) (map[string]map[string]float64, error) {
	all, err := readEvidence(path, a.cfg.Evidence.Categorical)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		for name := range all {
			selected = append(selected, name)
		}
		sort.Strings(selected)
	}
	opts := a.cfg.EvidenceOptions()
	out := make(map[string]map[string]float64, len(selected))
	for _, name := range selected {
		ev, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("%w: condition %q not in %s", ErrUsage, name, path)
		}
		scores, err := evidence.Evaluate(m, ev, opts)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}
		out[name] = scores
	}
	return out, nil
}

func newIMATCommand(a *app) *cobra.Command {
	var (
		vf         viewFlags
		evPath     string
		conditions []string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "imat",
		Short: "Fit IMAT for every evidence condition",
		Long: "imat scores reactions from a gene evidence CSV (first column gene ids, one\n" +
			"column per condition) and solves one IMAT problem per condition.",
		Example: `  metflux imat -m model.json -e expression.csv
  metflux imat -m model.json -e expression.csv --condition tumour`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			v, err := vf.view()
			if err != nil {
				return cliErrorf("imat", err)
			}
			scores, err := a.conditionScores(v.Model(), evPath, conditions)
			if err != nil {
				return cliErrorf("imat", err)
			}
			r, err := batch.NewRunner(a.solver(), a.cfg.BatchOptions(a.log)...)
			if err != nil {
				return cliErrorf("imat", err)
			}
			rep, err := r.IMAT(ctx, v, scores)
			if err != nil {
				return cliErrorf("imat", err)
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return cliErrorf("imat", err)
			}
			if err := writeReport(w, rep); err != nil {
				_ = closeFn()
				return cliErrorf("imat", err)
			}
			return closeFn()
		},
	}
	vf.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&evPath, "evidence", "e", "", "gene evidence CSV")
	fs.StringSliceVar(&conditions, "condition", nil, "conditions to fit (default: every column)")
	fs.StringVarP(&out, "out", "o", "", "report CSV destination (default stdout)")
	_ = cmd.MarkFlagRequired("evidence")
	return cmd
}
