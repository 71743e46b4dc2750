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
	"os"
	"testing"
)

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "filestore-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
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

func TestFileStoreLoadMissingReturnsErrNotFound(t *testing.T) {
	dir, err := os.MkdirTemp("", "filestore-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on a missing key = %v, want ErrNotFound", err)
	}
}

func TestFileStoreExistsAndDelete(t *testing.T) {
	dir, err := os.MkdirTemp("", "filestore-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if ok, _ := s.Exists(ctx, "x"); ok {
		t.Fatalf("Exists on an unwritten key reported true")
	}
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

func TestFileStoreIterateVisitsEverySavedKey(t *testing.T) {
	dir, err := os.MkdirTemp("", "filestore-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	want := map[string]string{"a": "1", "b": "2", "c": "3"}
	for k, v := range want {
		if err := s.Save(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Save(%q): %v", k, err)
		}
	}

	got := map[string]string{}
	err = s.Iterate(ctx, func(key string, value []byte) bool {
		got[key] = string(value)
		return true
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Iterate visited %d keys, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Iterate key %q = %q, want %q", k, got[k], v)
		}
	}
}
