// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"errors"
	"testing"
)

func TestBadgerStoreSaveLoadRoundTrip(t *testing.T) {
	s, err := OpenBadgerStore(InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, "device-1", []byte("state-blob")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "device-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "state-blob" {
		t.Fatalf("Load = %q, want %q", got, "state-blob")
	}
}

func TestBadgerStoreLoadMissingReturnsErrNotFound(t *testing.T) {
	s, err := OpenBadgerStore(InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on a missing key = %v, want ErrNotFound", err)
	}
}

func TestBadgerStoreDeleteAndExists(t *testing.T) {
	s, err := OpenBadgerStore(InMemoryBadgerConfig())
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, "x", []byte("v")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ok, _ := s.Exists(ctx, "x"); !ok {
		t.Fatalf("Exists after Save reported false")
	}
	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, "x"); ok {
		t.Fatalf("Exists after Delete reported true")
	}
}

func TestBadgerStoreRejectsMissingPathWhenNotInMemory(t *testing.T) {
	if _, err := OpenBadgerStore(BadgerConfig{}); err == nil {
		t.Fatalf("expected an error opening a persistent store with no path")
	}
}
