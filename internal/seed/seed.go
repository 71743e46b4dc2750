// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package seed guards the master seed a dynamic integrity state retains
// for its lifetime (see pkg/integrity.DynamicState). It does not allocate
// the memguard.LockedBuffer itself — that stays in pkg/integrity, close to
// the data it protects — but it owns the one-time mlock capacity check
// every process should run before trusting that LockedBuffer allocations
// will actually stay off disk.
package seed

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/sys/unix"
)

// MinMlockKB is the minimum mlock resource limit, in kilobytes, a process
// needs before master-seed custody via memguard can be trusted to avoid
// swapping. 32 KB comfortably covers every seed this project allocates
// (one 32-byte buffer per DynamicState, with headroom for guard pages).
const MinMlockKB = 32

var (
	initOnce   sync.Once
	sufficient bool
	limitKB    int64
)

func initCheck() {
	initOnce.Do(func() {
		memguard.CatchInterrupt()
		sufficient, limitKB = checkMlockLimit()
	})
}

func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		return true, -1
	}
	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}
	kb := int64(rlimit.Cur / 1024)
	return kb >= MinMlockKB, kb
}

// CheckAvailable reports whether the process's mlock limit is sufficient
// for memguard-backed master-seed custody, and the limit itself in
// kilobytes (-1 if unlimited). The check runs once per process.
func CheckAvailable() (ok bool, limitKB int64) {
	initCheck()
	return sufficient, limitKB
}

// RequireAvailable returns an error describing the shortfall if the
// process's mlock limit is insufficient. Callers that must refuse to run
// with an unprotected seed should check this before constructing a
// DynamicState.
func RequireAvailable() error {
	ok, kb := CheckAvailable()
	if ok {
		return nil
	}
	return fmt.Errorf("seed: mlock limit insufficient for secure master-seed custody: have %d KB, need %d KB", kb, MinMlockKB)
}

// Purge wipes every memguard-allocated buffer in the process, including
// any retained master seeds. Call it during graceful shutdown.
func Purge() {
	memguard.Purge()
}
