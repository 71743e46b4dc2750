// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var convergeCmd = &cobra.Command{
	Use:   "converge <trusted-vector-file>",
	Short: "Evaluate divergence against a trusted reference and apply each axis's configured recovery strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runConverge,
}

type convergeReport struct {
	ViolatedAxes []int    `json:"violated_axes"`
	Quarantined  []int    `json:"quarantined_axes"`
	State        []string `json:"state"`
}

func runConverge(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	dev, closer, err := openDevice(ctx)
	if err != nil {
		fail("converge", start, err)
		return nil
	}
	defer closer()

	current := dev.Snapshot()
	trusted, err := readTrustedVector(args[0], len(current))
	if err != nil {
		fail("converge", start, err)
		return nil
	}

	violations, err := dev.Reconcile(ctx, trusted)
	if err != nil {
		fail("converge", start, err)
		return nil
	}
	if err := dev.Persist(ctx); err != nil {
		fail("converge", start, err)
		return nil
	}

	report := convergeReport{State: hexVector(dev.Snapshot())}
	for _, v := range violations {
		report.ViolatedAxes = append(report.ViolatedAxes, v.Index)
		if dev.IsQuarantined(v.Index) {
			report.Quarantined = append(report.Quarantined, v.Index)
		}
	}

	emit(newResult("converge", start).finish(start, report, nil))
	if !jsonOutput {
		fmt.Printf("violated axes: %v, quarantined: %v\n", report.ViolatedAxes, report.Quarantined)
	}
	if len(violations) > 0 {
		os.Exit(CLIExitFindings)
	}
	return nil
}
