// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"testing"
	"time"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

func TestAppendAndRecordsPreserveOrder(t *testing.T) {
	log := NewLog()
	now := time.Now()
	log.Append(now, []ring.Element{ring.Zero}, []ring.Element{ring.Zero}, []ring.Element{ring.Zero}, "first")
	log.Append(now.Add(time.Second), []ring.Element{ring.Zero}, []ring.Element{ring.Zero}, []ring.Element{ring.Zero}, "second")

	records := log.Records()
	if len(records) != 2 {
		t.Fatalf("Len = %d, want 2", len(records))
	}
	if records[0].Reason != "first" || records[1].Reason != "second" {
		t.Fatalf("records out of order: %+v", records)
	}
}

func TestAppendDeepCopiesVectors(t *testing.T) {
	log := NewLog()
	pre := []ring.Element{ring.Zero}
	log.Append(time.Now(), pre, pre, pre, "test")

	pre[0][0] = 0xFF // mutate caller's slice after Append
	rec := log.Records()[0]
	if rec.PreStateVector[0][0] != 0 {
		t.Fatalf("Append must not retain a reference to the caller's vector")
	}
}

func TestAppendAssignsDistinctIDs(t *testing.T) {
	log := NewLog()
	now := time.Now()
	log.Append(now, nil, nil, nil, "first")
	log.Append(now, nil, nil, nil, "second")

	records := log.Records()
	if records[0].ID == records[1].ID {
		t.Fatalf("two records appended at the same timestamp must still have distinct IDs")
	}
}

func TestLenMatchesRecordCount(t *testing.T) {
	log := NewLog()
	if log.Len() != 0 {
		t.Fatalf("a new log must be empty")
	}
	log.Append(time.Now(), nil, nil, nil, "r")
	if log.Len() != 1 {
		t.Fatalf("Len = %d, want 1", log.Len())
	}
}
