package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/metflux/evidence"
	"github.com/katalvlaran/metflux/modelio"
	"github.com/katalvlaran/metflux/network"
	"github.com/katalvlaran/metflux/problem"
)

// ErrUsage reports malformed flag values.
var ErrUsage = errors.New("cli: invalid argument")

// viewFlags are shared by every command that works on a model.
type viewFlags struct {
	model     string
	bounds    []string
	knockouts []string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.model, "model", "m", "", "COBRA model (.json, .yaml or .yml)")
	fs.StringArrayVarP(&f.bounds, "bound", "b", nil, "bound override id=lower:upper (repeatable, inf allowed)")
	fs.StringSliceVarP(&f.knockouts, "knockout", "k", nil, "genes to knock out")
	_ = cmd.MarkFlagRequired("model")
}

// view reads the model and applies bound overrides, then knockouts.
func (f *viewFlags) view() (*network.View, error) {
	m, err := modelio.ReadModel(f.model)
	if err != nil {
		return nil, err
	}
	v := m.View()
	if len(f.bounds) > 0 {
		overrides, err := parseBounds(f.bounds)
		if err != nil {
			return nil, err
		}
		if v, err = v.WithBounds(overrides); err != nil {
			return nil, err
		}
	}
	if len(f.knockouts) > 0 {
		return v.WithKnockouts(f.knockouts...)
	}
	return v, nil
}

// parseBounds parses "id=lower:upper" overrides.
func parseBounds(specs []string) (map[string]network.Bounds, error) {
	out := make(map[string]network.Bounds, len(specs))
	for _, s := range specs {
		id, rng, ok := strings.Cut(s, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: bound %q: want id=lower:upper", ErrUsage, s)
		}
		lo, hi, ok := strings.Cut(rng, ":")
		if !ok {
			return nil, fmt.Errorf("%w: bound %q: want id=lower:upper", ErrUsage, s)
		}
		lower, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bound %q: %v", ErrUsage, s, err)
		}
		upper, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bound %q: %v", ErrUsage, s, err)
		}
		out[strings.TrimSpace(id)] = network.Bounds{Lower: lower, Upper: upper}
	}
	return out, nil
}

// objective maps --objective/--minimize onto a problem objective. An empty
// id keeps the model objective.
func objective(id string, minimize bool) problem.Objective {
	switch {
	case id == "" && minimize:
		return problem.Objective{Sense: problem.Minimize}
	case id == "":
		return problem.Objective{}
	case minimize:
		return problem.MinimizeReaction(id)
	default:
		return problem.MaximizeReaction(id)
	}
}

// output opens path for writing, or returns the command's stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readEvidence loads one condition per CSV column.
func readEvidence(path string, categorical bool) (map[string]evidence.Evidence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return modelio.ReadEvidenceCSV(f, categorical)
}
