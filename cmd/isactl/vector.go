// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/mouhamed1296/isa-project/pkg/ring"
	"github.com/mouhamed1296/isa-project/pkg/wire"
)

// hexVector renders a state or divergence vector as one hex string per
// axis, the format readTrustedVector reads back.
func hexVector(vec []ring.Element) []string {
	out := make([]string, len(vec))
	for i, e := range vec {
		out[i] = hex.EncodeToString(e.Bytes())
	}
	return out
}

// readTrustedVector loads a reference state vector from a file, one
// hex-encoded ring element per line (blank lines and lines starting with
// # are ignored). It expects exactly n elements, matching the current
// device's axis count.
func readTrustedVector(path string, n int) ([]ring.Element, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("isactl: read trusted vector file: %w", err)
	}
	var elements []byte
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("isactl: trusted vector file has invalid hex line %q: %w", line, err)
		}
		elements = append(elements, decoded...)
	}
	vec, err := wire.DecodeStateVector(elements, n)
	if err != nil {
		return nil, fmt.Errorf("isactl: decode trusted vector: %w", err)
	}
	return vec, nil
}
