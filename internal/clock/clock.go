// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package clock supplies the delta-t values folded into axis accumulators.
// A Clock never runs backwards: any observed regression is a hard error,
// since a negative or nonsensical delta-t would be folded straight into an
// axis's irreversible state.
package clock

import (
	"errors"
	"time"
)

// ErrRegression is returned when the wall clock appears to move backwards
// between two reads.
var ErrRegression = errors.New("clock: time source regressed")

// Monotonic tracks the last observed timestamp and rejects any reading
// earlier than it. It is not safe for concurrent use; callers that share
// one across goroutines must serialize access themselves (the device
// runtime does this under its own lock).
type Monotonic struct {
	last uint64
}

// NewMonotonic returns a Monotonic clock with no prior reading.
func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

// Now returns the current time in milliseconds since the Unix epoch. It
// fails with ErrRegression if the reading is earlier than the last one
// returned by this clock.
func (c *Monotonic) Now() (uint64, error) {
	ts := uint64(time.Now().UnixMilli())
	if ts < c.last {
		return 0, ErrRegression
	}
	c.last = ts
	return ts, nil
}

// Delta returns the elapsed milliseconds since previous, per a fresh call
// to Now. It saturates at zero rather than underflowing if previous is,
// implausibly, still in the future relative to the fresh reading.
func (c *Monotonic) Delta(previous uint64) (uint64, error) {
	now, err := c.Now()
	if err != nil {
		return 0, err
	}
	if now < previous {
		return 0, nil
	}
	return now - previous, nil
}
