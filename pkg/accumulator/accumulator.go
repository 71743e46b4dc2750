// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package accumulator implements a single-dimension integrity axis: a
// 32-byte state plus a monotonic fold counter, advanced only through the
// keyed PRF in pkg/kdf and ring addition in pkg/ring.
//
// Axis never reads the clock, never allocates randomness, and never
// performs I/O. Fold cannot fail; there is no fallible path.
package accumulator

import (
	"encoding/binary"

	"github.com/mouhamed1296/isa-project/pkg/kdf"
	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// Axis is a single integrity-accumulation lane: a ring state and a
// monotonically advancing event counter.
type Axis struct {
	state   ring.Element
	counter uint64
}

// New creates an axis with an explicit initial state and zero counter. Most
// callers should instead derive an axis's initial state from a master seed
// (see pkg/integrity), which is why New takes the state directly rather
// than a seed.
func New(initial ring.Element) Axis {
	return Axis{state: initial}
}

// NewWithCounter creates an axis with an explicit state and counter. It
// exists for out-of-band state corrections (see
// pkg/integrity.DynamicState.ApplyConvergence) that must preserve the
// existing fold count while replacing the ring state directly.
func NewWithCounter(state ring.Element, counter uint64) Axis {
	return Axis{state: state, counter: counter}
}

// State returns the axis's current 32-byte ring state.
func (a Axis) State() ring.Element { return a.state }

// Counter returns the number of folds the axis has accepted.
func (a Axis) Counter() uint64 { return a.counter }

// Fold mixes one event into the axis. event and entropy may be empty or
// arbitrary bytes; deltaT is opaque to the axis and is mixed in verbatim.
//
// Fold is deterministic: given the same (state, event, entropy, deltaT) it
// always produces the same posterior state, and it always advances the
// counter by exactly one, wrapping from 2^64-1 to 0 without fault.
func (a Axis) Fold(event, entropy []byte, deltaT uint64) Axis {
	info := preHash(event, deltaT, entropy)
	contribution := kdf.Derive([kdf.SaltSize]byte(a.state), info[:])
	return Axis{
		state:   ring.Add(a.state, ring.Element(contribution)),
		counter: a.counter + 1, // wraps at 2^64 by Go's unsigned-overflow semantics
	}
}

// preHash computes H(event || le64(deltaT) || entropy), the collision
// resistant pre-hash of a fold's input tuple, per the normative event input
// encoding: no delimiters, this exact field order.
func preHash(event []byte, deltaT uint64, entropy []byte) [kdf.OutSize]byte {
	buf := make([]byte, 0, len(event)+8+len(entropy))
	buf = append(buf, event...)
	var dtBytes [8]byte
	binary.LittleEndian.PutUint64(dtBytes[:], deltaT)
	buf = append(buf, dtBytes[:]...)
	buf = append(buf, entropy...)
	return kdf.Digest(buf)
}
