// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"testing"
)

func TestInitRejectsNilContext(t *testing.T) {
	if _, err := Init(nil, DefaultConfig()); err != ErrNilContext { //nolint:staticcheck
		t.Fatalf("Init(nil, ...) = %v, want ErrNilContext", err)
	}
}

func TestInitAndShutdown(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewMetricsRegistersAllInstruments(t *testing.T) {
	m := NewMetrics()
	m.FoldTotal.WithLabelValues("finance").Inc()
	m.DivergenceViolationsTotal.WithLabelValues("threshold").Inc()
	m.ActiveAxes.Set(3)
	m.ReconcileTotal.Inc()

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("Gather returned %d metric families, want 4", len(families))
	}
}
