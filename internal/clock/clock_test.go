// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package clock

import (
	"testing"
	"time"
)

func TestNowAdvances(t *testing.T) {
	c := NewMonotonic()
	t1, err := c.Now()
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	t2, err := c.Now()
	if err != nil {
		t.Fatal(err)
	}
	if t2 < t1 {
		t.Fatalf("clock went backwards: %d then %d", t1, t2)
	}
}

func TestDeltaIsNonNegative(t *testing.T) {
	c := NewMonotonic()
	t1, _ := c.Now()
	time.Sleep(2 * time.Millisecond)
	d, err := c.Delta(t1)
	if err != nil {
		t.Fatal(err)
	}
	if d == 0 {
		t.Fatalf("expected a nonzero delta after sleeping")
	}
}

func TestNowRejectsRegression(t *testing.T) {
	c := &Monotonic{last: ^uint64(0)}
	if _, err := c.Now(); err != ErrRegression {
		t.Fatalf("expected ErrRegression, got %v", err)
	}
}
