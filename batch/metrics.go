package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/metflux/solver"
)

type metrics struct {
	targets  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		targets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metflux_batch_targets_total",
				Help: "Targets finished, by kind and solver status.",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metflux_batch_target_duration_seconds",
				Help:    "Wall time per target in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
			},
			[]string{"kind"},
		),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	if m.targets, err = register(reg, m.targets); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("batch: register metrics: %w", err)
	}
	return c, nil
}

func (m *metrics) observe(kind Kind, status solver.Status, d time.Duration) {
	m.targets.WithLabelValues(kind.String(), status.String()).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(d.Seconds())
}
