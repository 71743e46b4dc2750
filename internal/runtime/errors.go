// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package runtime

import (
	"errors"
	"fmt"
)

// ErrQuarantined is wrapped by QuarantinedError.
var ErrQuarantined = errors.New("runtime: axis is quarantined")

// QuarantinedError is returned by RecordEvent when the target axis was
// placed under quarantine by a prior Reconcile and has not been cleared.
type QuarantinedError struct {
	Axis int
}

func (e *QuarantinedError) Error() string {
	return fmt.Sprintf("runtime: axis %d is quarantined, call ClearQuarantine first", e.Axis)
}

func (e *QuarantinedError) Unwrap() error { return ErrQuarantined }
