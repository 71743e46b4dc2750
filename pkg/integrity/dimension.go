// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package integrity

import "encoding/binary"

// TagSize is the byte length of a dimension identifier.
const TagSize = 16

// dimInfoPrefix is the fixed ASCII prefix concatenated with a dimension's
// tag to form the info argument used to derive that axis's initial state
// from the master seed.
const dimInfoPrefix = "isa.dim"

// Tag is an opaque 16-byte dimension identifier. In the canonical mapping
// used by this package, a tag is the little-endian encoding of its axis
// index, zero-padded to 16 bytes.
type Tag [TagSize]byte

// TagForIndex returns the canonical dimension tag for axis index i.
func TagForIndex(i uint64) Tag {
	var t Tag
	binary.LittleEndian.PutUint64(t[:8], i)
	return t
}

// derivationInfo builds the info argument used when deriving an axis's
// initial state from the master seed: the fixed "isa.dim" prefix followed
// by the dimension's tag.
func derivationInfo(tag Tag) []byte {
	info := make([]byte, 0, len(dimInfoPrefix)+TagSize)
	info = append(info, []byte(dimInfoPrefix)...)
	info = append(info, tag[:]...)
	return info
}
