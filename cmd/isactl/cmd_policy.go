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

	"github.com/mouhamed1296/isa-project/internal/config"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate policy YAML files",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse a policy YAML file and report its dimension count and strategies",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyCheck,
}

var policyVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the configured --policy file's axis count against the device's persisted state",
	Args:  cobra.NoArgs,
	RunE:  runPolicyVerify,
}

func init() {
	policyCmd.AddCommand(policyCheckCmd, policyVerifyCmd)
}

type policySummary struct {
	Axes int `json:"axes"`
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()

	data, err := os.ReadFile(args[0])
	if err != nil {
		fail("policy check", start, err)
		return nil
	}
	set, err := config.Parse(data)
	if err != nil {
		fail("policy check", start, err)
		return nil
	}

	emit(newResult("policy check", start).finish(start, policySummary{Axes: set.N()}, nil))
	if !jsonOutput {
		fmt.Printf("%s: %d dimensions\n", args[0], set.N())
	}
	return nil
}

func runPolicyVerify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	policies, err := loadPolicySet()
	if err != nil {
		fail("policy verify", start, err)
		return nil
	}

	dev, closer, err := openDevice(ctx)
	if err != nil {
		fail("policy verify", start, err)
		return nil
	}
	defer closer()

	current := len(dev.Snapshot())
	if policies.N() != current {
		err := fmt.Errorf("isactl: policy file has %d dimensions, device state has %d", policies.N(), current)
		emit(newResult("policy verify", start).finish(start, nil, err))
		os.Exit(CLIExitFindings)
	}

	emit(newResult("policy verify", start).finish(start, policySummary{Axes: current}, nil))
	return nil
}
