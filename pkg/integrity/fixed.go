// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package integrity implements the multi-dimensional integrity state: a
// fixed-N or dynamic-N vector of axis accumulators, all derived from one
// master seed under distinct dimension tags. It is the only package that
// combines pkg/kdf, pkg/ring and pkg/accumulator into a multi-axis object;
// axis isolation is enforced structurally by never letting one axis's
// state or counter influence another's Fold call.
package integrity

import (
	"github.com/mouhamed1296/isa-project/pkg/accumulator"
	"github.com/mouhamed1296/isa-project/pkg/kdf"
	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// State is a fixed-N integrity state: N is chosen at construction and never
// changes for the lifetime of the object.
type State struct {
	axes []accumulator.Axis
}

// deriveInitialAxis computes the initial state for the axis at index i,
// given the master seed, per §6: derive(salt=master_seed, info="isa.dim"
// || tag_i).
func deriveInitialAxis(masterSeed [32]byte, i uint64) accumulator.Axis {
	info := derivationInfo(TagForIndex(i))
	initial := kdf.Derive(masterSeed, info)
	return accumulator.New(ring.Element(initial))
}

// NewFixed constructs an N-dimensional fixed state from a 32-byte master
// seed. n must be at least 1.
func NewFixed(masterSeed [32]byte, n int) *State {
	if n < 1 {
		panic("integrity: NewFixed requires n >= 1")
	}
	axes := make([]accumulator.Axis, n)
	for i := 0; i < n; i++ {
		axes[i] = deriveInitialAxis(masterSeed, uint64(i))
	}
	return &State{axes: axes}
}

// N returns the number of axes in the state.
func (s *State) N() int { return len(s.axes) }

// Axis returns a copy of the axis accumulator at index i.
func (s *State) Axis(i int) (accumulator.Axis, error) {
	if i < 0 || i >= len(s.axes) {
		return accumulator.Axis{}, &AxisRangeError{Index: i, N: len(s.axes)}
	}
	return s.axes[i], nil
}

// Fold advances the axis at index i with one event. Folding axis i can
// never observe or alter any other axis's state or counter.
func (s *State) Fold(i int, event, entropy []byte, deltaT uint64) error {
	if i < 0 || i >= len(s.axes) {
		return &AxisRangeError{Index: i, N: len(s.axes)}
	}
	s.axes[i] = s.axes[i].Fold(event, entropy, deltaT)
	return nil
}

// StateVector returns a snapshot copy of every axis's current ring state,
// in axis order.
func (s *State) StateVector() []ring.Element {
	vec := make([]ring.Element, len(s.axes))
	for i, a := range s.axes {
		vec[i] = a.State()
	}
	return vec
}

// Counters returns a snapshot copy of every axis's current fold counter.
func (s *State) Counters() []uint64 {
	c := make([]uint64, len(s.axes))
	for i, a := range s.axes {
		c[i] = a.Counter()
	}
	return c
}

// Clone returns an independent deep copy of the state.
func (s *State) Clone() *State {
	axes := make([]accumulator.Axis, len(s.axes))
	copy(axes, s.axes)
	return &State{axes: axes}
}
