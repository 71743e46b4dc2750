// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit records recovery events: every time a device runtime
// reconciles a batch of policy violations (healing ImmediateHeal axes by
// convergence), it appends one immutable Record here. Records are never
// mutated or removed once appended; pkg/merkle can batch a Log's records
// for fleet-wide verification.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// Record is one recovery event: the state before and after convergence,
// the convergence vector itself, and why it was applied. ID distinguishes
// records that share a Timestamp (Reconcile can append more than one
// batch within the same millisecond).
type Record struct {
	ID                uuid.UUID
	Timestamp         time.Time
	PreStateVector    []ring.Element
	ConvergenceVector []ring.Element
	PostStateVector   []ring.Element
	Reason            string
}

// Log is an append-only, thread-safe sequence of recovery Records.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// NewLog returns an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// cloneVector defensively copies a ring-element slice so a Log never
// shares backing storage with a caller who might mutate it later.
func cloneVector(v []ring.Element) []ring.Element {
	out := make([]ring.Element, len(v))
	copy(out, v)
	return out
}

// Append adds a new record to the log. now is passed in rather than read
// internally so callers control the time source (see internal/clock).
func (l *Log) Append(now time.Time, pre, convergence, post []ring.Element, reason string) Record {
	rec := Record{
		ID:                uuid.New(),
		Timestamp:         now,
		PreStateVector:    cloneVector(pre),
		ConvergenceVector: cloneVector(convergence),
		PostStateVector:   cloneVector(post),
		Reason:            reason,
	}
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return rec
}

// Records returns a snapshot copy of every record appended so far, in
// append order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records appended so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
