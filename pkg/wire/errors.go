// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package wire

import (
	"errors"
	"fmt"
)

// ErrMalformedState is the sentinel wrapped whenever a blob is too short,
// truncated mid-record, or otherwise not a well-formed encoding.
var ErrMalformedState = errors.New("wire: malformed state encoding")

// MalformedStateError carries the detail behind ErrMalformedState.
type MalformedStateError struct {
	Reason string
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("wire: malformed state: %s", e.Reason)
}

func (e *MalformedStateError) Unwrap() error { return ErrMalformedState }

func malformed(format string, args ...any) error {
	return &MalformedStateError{Reason: fmt.Sprintf(format, args...)}
}

// IncompatibleVersionError is returned when a blob's major version does not
// match the version this decoder supports. Minor and patch differences are
// accepted: the format is forward-compatible within a major version.
type IncompatibleVersionError struct {
	Found, Supported Version
}

func (e *IncompatibleVersionError) Error() string {
	return fmt.Sprintf("wire: incompatible version: blob is v%d.%d.%d, decoder supports major v%d",
		e.Found.Major, e.Found.Minor, e.Found.Patch, e.Supported.Major)
}
