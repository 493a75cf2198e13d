package cli

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/katalvlaran/metflux/batch"
	"github.com/katalvlaran/metflux/solver"
)

var reportHeader = []string{"target", "kind", "status", "objective", "max_sink", "relaxations", "nodes"}

// writeReport renders one CSV row per outcome, in report order.
// Objectives of non-optimal targets are left empty.
func writeReport(w io.Writer, rep batch.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, o := range rep.Outcomes {
		obj, sink := "", ""
		if o.Status == solver.Optimal {
			obj = strconv.FormatFloat(o.Objective, 'g', -1, 64)
		}
		if o.Kind == batch.KindMetchange && o.MaxSink != 0 {
			sink = strconv.FormatFloat(o.MaxSink, 'g', -1, 64)
		}
		row := []string{
			o.Target,
			o.Kind.String(),
			o.Status.String(),
			obj,
			sink,
			strconv.Itoa(o.Relaxations),
			strconv.Itoa(o.Nodes),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
