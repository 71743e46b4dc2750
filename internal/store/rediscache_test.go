// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"testing"
)

// NewRedisCache requires a reachable Redis instance; that dependency is
// exercised in integration environments, not here. These tests cover the
// construction-time validation that doesn't need a live server.

func TestNewRedisCacheRejectsNilBacking(t *testing.T) {
	_, err := NewRedisCache(context.Background(), nil, RedisCacheConfig{Address: "localhost:6379"})
	if err == nil {
		t.Fatalf("expected an error for a nil backing store")
	}
}

func TestNewRedisCacheRejectsEmptyAddress(t *testing.T) {
	backing, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	defer backing.Close()

	_, err = NewRedisCache(context.Background(), backing, RedisCacheConfig{})
	if err == nil {
		t.Fatalf("expected an error for an empty redis address")
	}
}
