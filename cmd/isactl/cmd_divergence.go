// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

var divergenceCmd = &cobra.Command{
	Use:   "divergence <trusted-vector-file>",
	Short: "Report the per-axis distance between the current state and a trusted reference vector",
	Args:  cobra.ExactArgs(1),
	RunE:  runDivergence,
}

func runDivergence(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	dev, closer, err := openDevice(ctx)
	if err != nil {
		fail("divergence", start, err)
		return nil
	}
	defer closer()

	current := dev.Snapshot()
	trusted, err := readTrustedVector(args[0], len(current))
	if err != nil {
		fail("divergence", start, err)
		return nil
	}

	div, err := dev.DivergeFrom(ctx, trusted)
	if err != nil {
		fail("divergence", start, err)
		return nil
	}

	nonZero := false
	for _, e := range div {
		if !ring.IsZero(e) {
			nonZero = true
			break
		}
	}

	emit(newResult("divergence", start).finish(start, hexVector(div), nil))
	if nonZero {
		os.Exit(CLIExitFindings)
	}
	return nil
}
