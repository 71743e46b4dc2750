// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments a caller can scrape locally by
// wiring Registry into its own HTTP server. Nothing in this package
// starts a listener itself — an offline device may never run one.
type Metrics struct {
	Registry *prometheus.Registry

	FoldTotal                 *prometheus.CounterVec
	DivergenceViolationsTotal *prometheus.CounterVec
	ActiveAxes                prometheus.Gauge
	ReconcileTotal            prometheus.Counter
}

// NewMetrics builds and registers a fresh set of instruments against a
// new, private Registry (never the global default one, so multiple
// Device instances in one process never collide on metric names).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		FoldTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isa_fold_total",
			Help: "Total number of RecordEvent folds applied, by axis label.",
		}, []string{"axis"}),
		DivergenceViolationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isa_divergence_violations_total",
			Help: "Total number of policy threshold or constraint violations observed, by kind.",
		}, []string{"kind"}),
		ActiveAxes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "isa_active_axes",
			Help: "Current number of dimensions in the device's integrity state.",
		}),
		ReconcileTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "isa_reconcile_total",
			Help: "Total number of convergence reconciliations applied.",
		}),
	}

	reg.MustRegister(m.FoldTotal, m.DivergenceViolationsTotal, m.ActiveAxes, m.ReconcileTotal)
	return m
}
