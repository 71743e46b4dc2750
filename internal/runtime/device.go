// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package runtime wires the pure, total core (pkg/ring through pkg/wire)
// together with I/O, randomness, the wall clock and logging into the
// single object an offline terminal actually holds: Device. Every
// operation that touches a Store, an entropy source, a clock or a
// logger lives here; the core packages underneath never do.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mouhamed1296/isa-project/internal/audit"
	"github.com/mouhamed1296/isa-project/internal/clock"
	"github.com/mouhamed1296/isa-project/internal/entropy"
	"github.com/mouhamed1296/isa-project/internal/store"
	"github.com/mouhamed1296/isa-project/internal/telemetry"
	"github.com/mouhamed1296/isa-project/pkg/divergence"
	"github.com/mouhamed1296/isa-project/pkg/integrity"
	"github.com/mouhamed1296/isa-project/pkg/logging"
	"github.com/mouhamed1296/isa-project/pkg/policy"
	"github.com/mouhamed1296/isa-project/pkg/profile"
	"github.com/mouhamed1296/isa-project/pkg/ring"
	"github.com/mouhamed1296/isa-project/pkg/wire"
)

// Config collects a Device's dependencies. Policies is required; every
// other field has a workable default (see fillDefaults), except that
// Persist and LoadDevice fail without a non-nil Store.
type Config struct {
	Store       store.Store
	Key         string
	Entropy     entropy.Source
	Clock       *clock.Monotonic
	Policies    *policy.Set
	Profile     profile.Profile
	Logger      *logging.Logger
	Metrics     *telemetry.Metrics
	Tracer      trace.Tracer
	RateLimiter *rate.Limiter
}

// Device is the orchestration object combining a dynamic integrity
// state, a policy set, a persistence backend, an entropy source, a
// clock, a domain profile, and a recovery audit log. RecordEvent (a
// fold, exclusive) and the read-only operations (Snapshot, DivergeFrom)
// share d.mu's discipline: reads may run concurrently with each
// other, writes never run concurrently with anything.
type Device struct {
	mu sync.RWMutex

	state    *integrity.DynamicState
	policies *policy.Set
	profile  profile.Profile
	audit    *audit.Log

	store store.Store
	key   string

	entropy entropy.Source
	clk     *clock.Monotonic

	logger  *logging.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	limiter *rate.Limiter

	lastTimestamp uint64
	quarantined   map[int]bool
}

func fillDefaults(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewMonotonic()
	}
	if cfg.Policies == nil {
		panic("runtime: Config.Policies must not be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NewMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = telemetry.Tracer("isa.runtime")
	}
	return cfg
}

// NewDevice constructs a Device with n fresh dimensions derived from
// masterSeed.
func NewDevice(masterSeed [32]byte, n int, cfg Config) *Device {
	cfg = fillDefaults(cfg)
	return &Device{
		state:       integrity.NewDynamic(masterSeed, n),
		policies:    cfg.Policies,
		profile:     cfg.Profile,
		audit:       audit.NewLog(),
		store:       cfg.Store,
		key:         cfg.Key,
		entropy:     cfg.Entropy,
		clk:         cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
		limiter:     cfg.RateLimiter,
		quarantined: make(map[int]bool),
	}
}

// LoadDevice reconstructs a Device from a previously Persist-ed blob in
// cfg.Store under cfg.Key.
func LoadDevice(ctx context.Context, masterSeed [32]byte, cfg Config) (*Device, error) {
	cfg = fillDefaults(cfg)
	if cfg.Store == nil {
		return nil, fmt.Errorf("runtime: LoadDevice requires a non-nil Store")
	}
	blob, err := cfg.Store.Load(ctx, cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("runtime: load state blob: %w", err)
	}
	states, counters, err := wire.DecodeDynamic(blob)
	if err != nil {
		return nil, fmt.Errorf("runtime: decode state blob: %w", err)
	}
	dyn, err := integrity.LoadDynamic(masterSeed, states, counters)
	if err != nil {
		return nil, fmt.Errorf("runtime: reconstruct dynamic state: %w", err)
	}
	return &Device{
		state:       dyn,
		policies:    cfg.Policies,
		profile:     cfg.Profile,
		audit:       audit.NewLog(),
		store:       cfg.Store,
		key:         cfg.Key,
		entropy:     cfg.Entropy,
		clk:         cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
		limiter:     cfg.RateLimiter,
		quarantined: make(map[int]bool),
	}, nil
}

func (d *Device) axisLabel(i int) string {
	if label, ok := d.profile.LabelFor(i); ok {
		return label
	}
	return fmt.Sprintf("axis-%d", i)
}

// RecordEvent folds one event into the axis at index i. It is the only
// operation in this package that folds events into state; it takes the exclusive
// lock and is serialized against every other RecordEvent and against
// Reconcile.
func (d *Device) RecordEvent(ctx context.Context, i int, event []byte) error {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("runtime: rate limit: %w", err)
		}
	}

	_, span := d.tracer.Start(ctx, "Device.RecordEvent", trace.WithAttributes(
		attribute.Int("isa.axis", i),
	))
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.quarantined[i] {
		return &QuarantinedError{Axis: i}
	}

	ent, err := d.entropy.Gather32()
	if err != nil {
		return fmt.Errorf("runtime: gather entropy: %w", err)
	}
	now, err := d.clk.Now()
	if err != nil {
		return fmt.Errorf("runtime: read clock: %w", err)
	}
	deltaT := now - d.lastTimestamp
	if now < d.lastTimestamp {
		deltaT = 0
	}

	if err := d.state.Fold(i, event, ent[:], deltaT); err != nil {
		return fmt.Errorf("runtime: fold axis %d: %w", i, err)
	}
	d.lastTimestamp = now

	d.metrics.FoldTotal.WithLabelValues(d.axisLabel(i)).Inc()
	d.metrics.ActiveAxes.Set(float64(d.state.N()))
	d.logger.Debug("folded event", "axis", i, "label", d.axisLabel(i), "delta_t", deltaT)
	return nil
}

// Snapshot returns a read-only copy of the current state vector. It may
// run concurrently with other Snapshot, DivergeFrom calls and with
// itself, but never overlaps a RecordEvent or Reconcile.
func (d *Device) Snapshot() []ring.Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.StateVector()
}

// DivergeFrom computes the per-axis circular distance between the
// current state and a trusted reference vector, fanning the (pure,
// side-effect-free) per-axis computations out across goroutines with
// errgroup since they only read an immutable snapshot.
func (d *Device) DivergeFrom(ctx context.Context, trusted []ring.Element) ([]ring.Element, error) {
	ctx, span := d.tracer.Start(ctx, "Device.DivergeFrom")
	defer span.End()

	current := d.Snapshot()
	if len(current) != len(trusted) {
		return nil, fmt.Errorf("runtime: trusted vector has %d axes, state has %d", len(trusted), len(current))
	}

	div := make([]ring.Element, len(current))
	g, _ := errgroup.WithContext(ctx)
	for i := range current {
		i := i
		g.Go(func() error {
			div[i] = divergence.Distance(current[i], trusted[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return div, nil
}

// Reconcile computes the divergence against trusted, evaluates it
// against the policy set, and applies the configured strategy per
// violated axis: ImmediateHeal converges the axis back to trusted,
// Quarantine blocks further folds on it until ClearQuarantine is called,
// MonitorOnly and GracefulDegrade only record the violation. A call that
// finds at least one violation appends one audit record for the whole
// batch (pre-state, axis-wise convergence vector toward trusted,
// post-state), whichever strategies were applied.
func (d *Device) Reconcile(ctx context.Context, trusted []ring.Element) ([]policy.ThresholdViolation, error) {
	ctx, span := d.tracer.Start(ctx, "Device.Reconcile")
	defer span.End()

	div, err := d.DivergeFrom(ctx, trusted)
	if err != nil {
		return nil, err
	}
	violations := d.policies.EvaluateThresholds(div)
	if len(violations) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	pre := d.state.StateVector()
	conv := make([]ring.Element, len(pre))
	for i := range pre {
		conv[i] = divergence.K(trusted[i], pre[i])
	}
	for _, v := range violations {
		switch v.Policy.Strategy {
		case policy.ImmediateHeal:
			k := divergence.K(trusted[v.Index], pre[v.Index])
			if err := d.state.ApplyConvergence(v.Index, k); err != nil {
				return violations, fmt.Errorf("runtime: apply convergence on axis %d: %w", v.Index, err)
			}
			d.metrics.ReconcileTotal.Inc()
		case policy.Quarantine:
			d.quarantined[v.Index] = true
		case policy.MonitorOnly, policy.GracefulDegrade:
			// No state mutation: the violation is recorded below and left
			// for the caller (or a dashboard reading the audit log) to act on.
		}
		d.metrics.DivergenceViolationsTotal.WithLabelValues("threshold").Inc()
	}

	post := d.state.StateVector()
	d.audit.Append(time.Now(), pre, conv, post, fmt.Sprintf("%d threshold violation(s) evaluated", len(violations)))
	d.logger.Info("reconciled", "violations", len(violations))
	return violations, nil
}

// ClearQuarantine lifts a quarantine previously imposed by Reconcile,
// allowing RecordEvent to fold into the axis again.
func (d *Device) ClearQuarantine(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.quarantined, i)
}

// IsQuarantined reports whether axis i is currently blocked from
// further folds.
func (d *Device) IsQuarantined(i int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.quarantined[i]
}

// AuditLog returns the device's recovery audit log.
func (d *Device) AuditLog() *audit.Log {
	return d.audit
}

// Persist serializes the current state (dynamic-N wire format) and
// saves it to the configured Store under Key.
func (d *Device) Persist(ctx context.Context) error {
	if d.store == nil {
		return fmt.Errorf("runtime: Persist requires a non-nil Store")
	}
	d.mu.RLock()
	vec := d.state.StateVector()
	counters := d.state.Counters()
	d.mu.RUnlock()

	blob, err := wire.EncodeDynamic(vec, counters)
	if err != nil {
		return fmt.Errorf("runtime: encode state: %w", err)
	}
	if err := d.store.Save(ctx, d.key, blob); err != nil {
		return fmt.Errorf("runtime: save state: %w", err)
	}
	return nil
}

// Close releases the master seed held by the underlying dynamic state.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Close()
}

