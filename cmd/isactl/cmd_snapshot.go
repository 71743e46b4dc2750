// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"time"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the device's current state vector",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	dev, closer, err := openDevice(ctx)
	if err != nil {
		fail("snapshot", start, err)
		return nil
	}
	defer closer()

	emit(newResult("snapshot", start).finish(start, hexVector(dev.Snapshot()), nil))
	return nil
}
