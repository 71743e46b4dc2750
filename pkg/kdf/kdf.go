// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package kdf implements the domain-separated keyed pseudo-random function
// that is the sole cryptographic primitive used by the integrity core.
//
// Derive realizes the PRF contract: (salt, info) -> 32 bytes, keyed by salt
// and domain-separated by a fixed context string. It is instantiated with
// keyed BLAKE2b-256 rather than BLAKE3 because no BLAKE3 implementation is
// available anywhere in this project's dependency graph; BLAKE2b's native
// keyed mode provides the same preimage resistance, collision resistance
// and avalanche properties the contract requires. See DESIGN.md for the
// full rationale.
package kdf

import (
	"golang.org/x/crypto/blake2b"
)

// Context is the fixed domain-separation string mixed into every Derive
// call, matching the wire-level contract other implementations must share.
const Context = "MA-ISA-KDF-v1"

// SaltSize is the expected length of the salt/key argument to Derive.
const SaltSize = 32

// OutSize is the length, in bytes, of every Derive and Digest output.
const OutSize = 32

// Derive computes the keyed PRF output for (salt, info). salt keys the
// underlying primitive; info, together with the fixed Context string, forms
// the message. The same (salt, info) pair always yields the same output.
func Derive(salt [SaltSize]byte, info []byte) [OutSize]byte {
	h, err := blake2b.New256(salt[:])
	if err != nil {
		// blake2b.New256 only fails for an oversized key; SaltSize (32)
		// is always within blake2b's 64-byte key limit.
		panic("kdf: blake2b keyed hash construction failed: " + err.Error())
	}
	h.Write([]byte(Context))
	h.Write(info)
	var out [OutSize]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Digest computes an unkeyed collision-resistant digest of data, truncated
// to OutSize bytes. It is used to pre-hash an axis fold's (event, Δt,
// entropy) tuple before it is fed to Derive as the info argument.
func Digest(data []byte) [OutSize]byte {
	sum := blake2b.Sum256(data)
	return sum
}
