// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package integrity

import (
	"sync"

	"github.com/awnumar/memguard"

	"github.com/mouhamed1296/isa-project/pkg/accumulator"
	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// DynamicState is a multi-dimensional integrity state whose axis count can
// grow or shrink at runtime. Unlike State, it retains the master seed for
// the lifetime of the object, since growth requires deriving a fresh axis
// from it. The seed is held in a memguard.LockedBuffer (mlocked, guard
// paged, and explicitly zeroed on Close) rather than a plain byte slice.
type DynamicState struct {
	mu   sync.Mutex
	axes []accumulator.Axis
	seed *memguard.LockedBuffer
}

// NewDynamic constructs a dynamic state with n initial dimensions derived
// from masterSeed. n must be at least 1.
func NewDynamic(masterSeed [32]byte, n int) *DynamicState {
	if n < 1 {
		panic("integrity: NewDynamic requires n >= 1")
	}
	seed := memguard.NewBuffer(32)
	copy(seed.Bytes(), masterSeed[:])
	for i := range masterSeed {
		masterSeed[i] = 0
	}

	axes := make([]accumulator.Axis, n)
	for i := 0; i < n; i++ {
		var s [32]byte
		copy(s[:], seed.Bytes())
		axes[i] = deriveInitialAxis(s, uint64(i))
	}
	return &DynamicState{axes: axes, seed: seed}
}

// LoadDynamic reconstructs a dynamic state from previously persisted axis
// states and counters (see pkg/wire), retaining masterSeed for further
// growth exactly as NewDynamic does. len(states) must equal len(counters).
func LoadDynamic(masterSeed [32]byte, states []ring.Element, counters []uint64) (*DynamicState, error) {
	if len(states) != len(counters) {
		return nil, &LengthMismatchError{States: len(states), Counters: len(counters)}
	}
	seed := memguard.NewBuffer(32)
	copy(seed.Bytes(), masterSeed[:])
	for i := range masterSeed {
		masterSeed[i] = 0
	}
	axes := make([]accumulator.Axis, len(states))
	for i := range states {
		axes[i] = accumulator.NewWithCounter(states[i], counters[i])
	}
	return &DynamicState{axes: axes, seed: seed}, nil
}

// N returns the current number of axes.
func (d *DynamicState) N() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.axes)
}

// Axis returns a copy of the axis accumulator at index i.
func (d *DynamicState) Axis(i int) (accumulator.Axis, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.axes) {
		return accumulator.Axis{}, &AxisRangeError{Index: i, N: len(d.axes)}
	}
	return d.axes[i], nil
}

// Fold advances the axis at index i with one event.
func (d *DynamicState) Fold(i int, event, entropy []byte, deltaT uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.axes) {
		return &AxisRangeError{Index: i, N: len(d.axes)}
	}
	d.axes[i] = d.axes[i].Fold(event, entropy, deltaT)
	return nil
}

// AddDimension appends a fresh axis at index N, derived from the retained
// master seed under the next unused dimension tag. It returns the new
// axis's index.
func (d *DynamicState) AddDimension() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	var s [32]byte
	copy(s[:], d.seed.Bytes())
	idx := uint64(len(d.axes))
	d.axes = append(d.axes, deriveInitialAxis(s, idx))
	return int(idx)
}

// RemoveDimension drops the highest-indexed axis. Axes below that index are
// never renumbered. It fails with ErrEmptyState if the state already has
// zero dimensions.
func (d *DynamicState) RemoveDimension() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.axes) == 0 {
		return ErrEmptyState
	}
	d.axes = d.axes[:len(d.axes)-1]
	return nil
}

// ApplyConvergence adds a convergence constant (see pkg/divergence.K)
// directly to the axis at index i's ring state, bypassing the PRF fold
// path entirely. This is the single-addition recovery operation: it does
// not advance the axis's fold counter, since no event occurred.
func (d *DynamicState) ApplyConvergence(i int, k ring.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.axes) {
		return &AxisRangeError{Index: i, N: len(d.axes)}
	}
	restored := ring.Add(d.axes[i].State(), k)
	d.axes[i] = accumulator.NewWithCounter(restored, d.axes[i].Counter())
	return nil
}

// StateVector returns a snapshot copy of every axis's current ring state.
func (d *DynamicState) StateVector() []ring.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	vec := make([]ring.Element, len(d.axes))
	for i, a := range d.axes {
		vec[i] = a.State()
	}
	return vec
}

// Counters returns a snapshot copy of every axis's current fold counter.
func (d *DynamicState) Counters() []uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := make([]uint64, len(d.axes))
	for i, a := range d.axes {
		c[i] = a.Counter()
	}
	return c
}

// Close destroys the retained master seed, zeroing its backing memory. The
// state's axes remain readable afterward; only further growth becomes
// impossible.
func (d *DynamicState) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seed != nil {
		d.seed.Destroy()
		d.seed = nil
	}
}
