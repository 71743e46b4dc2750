// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var foldCmd = &cobra.Command{
	Use:   "fold <axis> <event>",
	Short: "Fold one event into a dimension's integrity state and persist the result",
	Args:  cobra.ExactArgs(2),
	RunE:  runFold,
}

func runFold(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	axis, err := strconv.Atoi(args[0])
	if err != nil {
		fail("fold", start, err)
		return nil
	}
	event := []byte(args[1])

	dev, closer, err := openDevice(ctx)
	if err != nil {
		fail("fold", start, err)
		return nil
	}
	defer closer()

	if err := dev.RecordEvent(ctx, axis, event); err != nil {
		fail("fold", start, err)
		return nil
	}
	if err := dev.Persist(ctx); err != nil {
		fail("fold", start, err)
		return nil
	}

	emit(newResult("fold", start).finish(start, hexVector(dev.Snapshot()), nil))
	return nil
}
