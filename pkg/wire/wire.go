// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package wire encodes and decodes integrity states for storage and
// transport. Two formats exist: the versioned state format (a header plus
// per-axis state and counter, used for persistence and replication) and
// the header-less state-vector interchange format (bare ring elements, used
// when the axis count is already known out of band, e.g. a divergence
// report against a live Set).
package wire

import (
	"encoding/binary"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// Version is a semantic version tag for the encoded state format.
type Version struct {
	Major, Minor, Patch uint16
}

// CurrentVersion is written by every Encode call in this build.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

const headerSize = 6 // major, minor, patch: 3 x uint16 LE

func putVersion(buf []byte, v Version) {
	binary.LittleEndian.PutUint16(buf[0:2], v.Major)
	binary.LittleEndian.PutUint16(buf[2:4], v.Minor)
	binary.LittleEndian.PutUint16(buf[4:6], v.Patch)
}

func getVersion(buf []byte) Version {
	return Version{
		Major: binary.LittleEndian.Uint16(buf[0:2]),
		Minor: binary.LittleEndian.Uint16(buf[2:4]),
		Patch: binary.LittleEndian.Uint16(buf[4:6]),
	}
}

func checkVersion(found Version) error {
	if found.Major != CurrentVersion.Major {
		return &IncompatibleVersionError{Found: found, Supported: CurrentVersion}
	}
	return nil
}

const axisRecordSize = ring.Size + 8 // state[32] || counter u64 LE

func putAxisRecord(buf []byte, state ring.Element, counter uint64) {
	copy(buf[:ring.Size], state[:])
	binary.LittleEndian.PutUint64(buf[ring.Size:ring.Size+8], counter)
}

func getAxisRecord(buf []byte) (ring.Element, uint64) {
	state := ring.FromBytes(buf[:ring.Size])
	counter := binary.LittleEndian.Uint64(buf[ring.Size : ring.Size+8])
	return state, counter
}

// EncodeFixed serializes a fixed-N state: a version header followed by N
// axis records, with no axis count in the blob (N is known to the caller
// out of band, matching Fixed-N semantics where it never changes).
func EncodeFixed(stateVector []ring.Element, counters []uint64) ([]byte, error) {
	if len(stateVector) != len(counters) {
		return nil, malformed("state vector length %d does not match counters length %d", len(stateVector), len(counters))
	}
	out := make([]byte, headerSize+len(stateVector)*axisRecordSize)
	putVersion(out, CurrentVersion)
	off := headerSize
	for i := range stateVector {
		putAxisRecord(out[off:off+axisRecordSize], stateVector[i], counters[i])
		off += axisRecordSize
	}
	return out, nil
}

// DecodeFixed parses a blob produced by EncodeFixed, expecting exactly n
// axes. It rejects a major-version mismatch and any truncated or
// unparsable blob.
func DecodeFixed(data []byte, n int) ([]ring.Element, []uint64, error) {
	if len(data) < headerSize {
		return nil, nil, malformed("blob shorter than the %d-byte header", headerSize)
	}
	found := getVersion(data)
	if err := checkVersion(found); err != nil {
		return nil, nil, err
	}
	body := data[headerSize:]
	want := n * axisRecordSize
	if len(body) != want {
		return nil, nil, malformed("expected %d axis-record bytes for n=%d, got %d", want, n, len(body))
	}
	states := make([]ring.Element, n)
	counters := make([]uint64, n)
	off := 0
	for i := 0; i < n; i++ {
		states[i], counters[i] = getAxisRecord(body[off : off+axisRecordSize])
		off += axisRecordSize
	}
	return states, counters, nil
}

// EncodeDynamic serializes a dynamic-N state: a version header, a u32 LE
// axis count, then N axis records. Unlike EncodeFixed, the blob is
// self-describing, since a dynamic state's axis count can change between
// encode and decode.
func EncodeDynamic(stateVector []ring.Element, counters []uint64) ([]byte, error) {
	if len(stateVector) != len(counters) {
		return nil, malformed("state vector length %d does not match counters length %d", len(stateVector), len(counters))
	}
	n := len(stateVector)
	out := make([]byte, headerSize+4+n*axisRecordSize)
	putVersion(out, CurrentVersion)
	binary.LittleEndian.PutUint32(out[headerSize:headerSize+4], uint32(n))
	off := headerSize + 4
	for i := 0; i < n; i++ {
		putAxisRecord(out[off:off+axisRecordSize], stateVector[i], counters[i])
		off += axisRecordSize
	}
	return out, nil
}

// DecodeDynamic parses a blob produced by EncodeDynamic, reading its own
// axis count from the blob.
func DecodeDynamic(data []byte) ([]ring.Element, []uint64, error) {
	if len(data) < headerSize+4 {
		return nil, nil, malformed("blob shorter than the %d-byte header plus axis count", headerSize+4)
	}
	found := getVersion(data)
	if err := checkVersion(found); err != nil {
		return nil, nil, err
	}
	n := int(binary.LittleEndian.Uint32(data[headerSize : headerSize+4]))
	body := data[headerSize+4:]
	want := n * axisRecordSize
	if len(body) != want {
		return nil, nil, malformed("expected %d axis-record bytes for n=%d, got %d", want, n, len(body))
	}
	states := make([]ring.Element, n)
	counters := make([]uint64, n)
	off := 0
	for i := 0; i < n; i++ {
		states[i], counters[i] = getAxisRecord(body[off : off+axisRecordSize])
		off += axisRecordSize
	}
	return states, counters, nil
}

// EncodeStateVector writes the header-less interchange format: N raw ring
// elements, nothing else. It carries no version, no counters and no axis
// count; the caller must already know N to decode it.
func EncodeStateVector(vec []ring.Element) []byte {
	out := make([]byte, len(vec)*ring.Size)
	for i, e := range vec {
		copy(out[i*ring.Size:(i+1)*ring.Size], e[:])
	}
	return out
}

// DecodeStateVector parses the header-less interchange format, expecting
// exactly n ring elements.
func DecodeStateVector(data []byte, n int) ([]ring.Element, error) {
	if len(data) != n*ring.Size {
		return nil, malformed("expected %d bytes for n=%d state-vector elements, got %d", n*ring.Size, n, len(data))
	}
	vec := make([]ring.Element, n)
	for i := 0; i < n; i++ {
		vec[i] = ring.FromBytes(data[i*ring.Size : (i+1)*ring.Size])
	}
	return vec, nil
}
