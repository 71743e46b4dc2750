// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package integrity

import (
	"errors"
	"fmt"
)

// ErrEmptyState is returned by RemoveDimension when the state already has
// zero dimensions.
var ErrEmptyState = errors.New("integrity: cannot remove a dimension from an empty state")

// AxisRangeError is returned when an operation references an axis index
// that does not exist in the state.
type AxisRangeError struct {
	Index int
	N     int
}

func (e *AxisRangeError) Error() string {
	return fmt.Sprintf("integrity: axis index %d out of range for %d-dimensional state", e.Index, e.N)
}

// LengthMismatchError is returned when a state and counter slice pairing
// have differing lengths, so no axis-to-counter correspondence exists.
type LengthMismatchError struct {
	States, Counters int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("integrity: %d states does not match %d counters", e.States, e.Counters)
}
