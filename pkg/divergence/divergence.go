// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package divergence implements the circular-distance metric on the ring
// Z/2^256 and the convergence constant that restores a drifted state to a
// trusted one with a single ring addition.
package divergence

import "github.com/mouhamed1296/isa-project/pkg/ring"

// Distance returns the shortest-arc circular distance between a and b on
// the cycle Z/2^256. It is symmetric (Distance(a,b) == Distance(b,a),
// byte-identical) and zero exactly when a == b.
//
// When the forward and reverse arcs are exactly equal in magnitude (a and b
// are precisely 2^255 apart), the forward arc is returned, per the
// recommended deterministic tie-break.
func Distance(a, b ring.Element) ring.Element {
	forward := ring.Sub(a, b)
	reverse := ring.Neg(forward)
	if ring.CmpMag(forward, reverse) <= 0 {
		return forward
	}
	return reverse
}

// K computes the convergence constant that restores drifted to honest:
// Add(drifted, K(honest, drifted)) == honest, bit-exactly.
func K(honest, drifted ring.Element) ring.Element {
	return ring.Sub(honest, drifted)
}

// Converge applies a convergence constant to a drifted state, returning the
// restored (honest) state. It is the single-addition counterpart to K.
func Converge(drifted, k ring.Element) ring.Element {
	return ring.Add(drifted, k)
}
