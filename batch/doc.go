// Package batch runs many independent optimization targets against one
// network model and collects their outcomes.
//
// A Target is a unit of work (one FBA objective, one IMAT condition, one
// Metchange metabolite) that builds its own Problem and makes its own
// solver calls. The Runner executes targets on a bounded pool of
// goroutines:
//
//	r, err := batch.NewRunner(lpsolve.New(), batch.WithWorkers(8))
//	rep, err := r.Metchange(ctx, model.View(), []string{"D_c", "F_c"}, weights)
//
// Solver statuses other than Optimal are recorded per target and never stop
// the batch. Errors from building a problem (unknown ids, bad options) are
// structural: the first one cancels the remaining targets and is returned
// as is.
//
// Every Run gets a fresh uuid run id, attached to its log lines and its
// Report. The Runner exports two Prometheus collectors:
//
//	metflux_batch_targets_total{kind,status}
//	metflux_batch_target_duration_seconds{kind}
package batch
