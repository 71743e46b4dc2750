// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package runtime

import (
	"context"
	"testing"

	"github.com/mouhamed1296/isa-project/internal/entropy"
	"github.com/mouhamed1296/isa-project/internal/store"
	"github.com/mouhamed1296/isa-project/pkg/policy"
	"github.com/mouhamed1296/isa-project/pkg/ring"
)

func onePolicySet(t *testing.T, strategy policy.Strategy, threshold ring.Element) *policy.Set {
	t.Helper()
	set, err := policy.NewSet(1, []policy.DimensionPolicy{
		{Name: "x", Threshold: threshold, Strategy: strategy, Weight: 1.0},
	}, nil)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func testSeed(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func TestRecordEventAndSnapshot(t *testing.T) {
	cfg := Config{
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.MonitorOnly, ring.Zero),
	}
	dev := NewDevice(testSeed(1), 1, cfg)
	defer dev.Close()

	before := dev.Snapshot()
	if err := dev.RecordEvent(context.Background(), 0, []byte("evt")); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	after := dev.Snapshot()
	if ring.Equal(before[0], after[0]) {
		t.Fatalf("RecordEvent did not change axis 0's state")
	}
}

func TestRecordEventRejectsOutOfRangeAxis(t *testing.T) {
	cfg := Config{
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.MonitorOnly, ring.Zero),
	}
	dev := NewDevice(testSeed(2), 1, cfg)
	defer dev.Close()

	if err := dev.RecordEvent(context.Background(), 5, []byte("x")); err == nil {
		t.Fatalf("expected an error folding an out-of-range axis")
	}
}

func TestDivergeFromIdenticalStateIsZero(t *testing.T) {
	cfg := Config{
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.MonitorOnly, ring.Zero),
	}
	dev := NewDevice(testSeed(3), 1, cfg)
	defer dev.Close()

	trusted := dev.Snapshot()
	div, err := dev.DivergeFrom(context.Background(), trusted)
	if err != nil {
		t.Fatalf("DivergeFrom: %v", err)
	}
	if !ring.IsZero(div[0]) {
		t.Fatalf("divergence from an identical state = %x, want zero", div[0])
	}
}

func TestReconcileHealsImmediateHealViolation(t *testing.T) {
	cfg := Config{
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.ImmediateHeal, ring.Zero),
	}
	dev := NewDevice(testSeed(4), 1, cfg)
	defer dev.Close()

	trusted := dev.Snapshot()
	if err := dev.RecordEvent(context.Background(), 0, []byte("drift")); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	violations, err := dev.Reconcile(context.Background(), trusted)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("Reconcile reported %d violations, want 1", len(violations))
	}
	if !ring.Equal(dev.Snapshot()[0], trusted[0]) {
		t.Fatalf("Reconcile did not restore the drifted axis to the trusted value")
	}
	if dev.AuditLog().Len() != 1 {
		t.Fatalf("Reconcile did not append an audit record")
	}
}

func TestReconcileQuarantinesViolatingAxis(t *testing.T) {
	cfg := Config{
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.Quarantine, ring.Zero),
	}
	dev := NewDevice(testSeed(5), 1, cfg)
	defer dev.Close()

	trusted := dev.Snapshot()
	if err := dev.RecordEvent(context.Background(), 0, []byte("drift")); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if _, err := dev.Reconcile(context.Background(), trusted); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !dev.IsQuarantined(0) {
		t.Fatalf("expected axis 0 to be quarantined after a Quarantine-strategy violation")
	}
	if err := dev.RecordEvent(context.Background(), 0, []byte("more")); err == nil {
		t.Fatalf("expected RecordEvent on a quarantined axis to fail")
	}
	dev.ClearQuarantine(0)
	if err := dev.RecordEvent(context.Background(), 0, []byte("more")); err != nil {
		t.Fatalf("RecordEvent after ClearQuarantine: %v", err)
	}
}

func TestPersistAndLoadDeviceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer fs.Close()

	cfg := Config{
		Store:    fs,
		Key:      "device-1",
		Entropy:  entropy.New(),
		Policies: onePolicySet(t, policy.MonitorOnly, ring.Zero),
	}
	dev := NewDevice(testSeed(6), 1, cfg)
	if err := dev.RecordEvent(context.Background(), 0, []byte("evt")); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	want := dev.Snapshot()
	if err := dev.Persist(context.Background()); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	dev.Close()

	loaded, err := LoadDevice(context.Background(), testSeed(6), cfg)
	if err != nil {
		t.Fatalf("LoadDevice: %v", err)
	}
	defer loaded.Close()

	got := loaded.Snapshot()
	if len(got) != len(want) || !ring.Equal(got[0], want[0]) {
		t.Fatalf("LoadDevice state = %x, want %x", got, want)
	}
}
