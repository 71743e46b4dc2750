// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command isactl is a thin presentation layer over a runtime.Device: it
// parses flags, opens the configured store and policy set, drives the
// Device, prints the result and exits. It never calls into the
// core kdf/accumulator/divergence/integrity packages directly; pkg/ring,
// pkg/wire and pkg/policy appear only as the values it reads, prints and
// hands to the Device.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mouhamed1296/isa-project/internal/config"
	"github.com/mouhamed1296/isa-project/internal/entropy"
	"github.com/mouhamed1296/isa-project/internal/runtime"
	"github.com/mouhamed1296/isa-project/internal/store"
	"github.com/mouhamed1296/isa-project/pkg/policy"
)

var (
	seedHex    string
	policyPath string
	storeDir   string
	deviceKey  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "isactl",
	Short:         "Operate a cryptographic integrity-state device from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedHex, "seed", os.Getenv("ISACTL_SEED"), "64-character hex master seed (defaults to $ISACTL_SEED)")
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "policy.yaml", "path to the policy YAML file")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "./isa-state", "directory backing the on-disk state store")
	rootCmd.PersistentFlags().StringVar(&deviceKey, "key", "device", "key the device's state is persisted under")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of text")

	rootCmd.AddCommand(foldCmd, snapshotCmd, divergenceCmd, convergeCmd, policyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}
}

func parseSeed() ([32]byte, error) {
	var seed [32]byte
	if seedHex == "" {
		return seed, fmt.Errorf("isactl: no seed given (use --seed or $ISACTL_SEED)")
	}
	raw, err := hex.DecodeString(seedHex)
	if err != nil {
		return seed, fmt.Errorf("isactl: --seed is not valid hex: %w", err)
	}
	if len(raw) != len(seed) {
		return seed, fmt.Errorf("isactl: --seed must decode to %d bytes, got %d", len(seed), len(raw))
	}
	copy(seed[:], raw)
	return seed, nil
}

func loadPolicySet() (*policy.Set, error) {
	data, err := os.ReadFile(policyPath)
	if err != nil {
		return nil, fmt.Errorf("isactl: read policy file: %w", err)
	}
	set, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("isactl: parse policy file: %w", err)
	}
	return set, nil
}

// openDevice opens the configured store and either loads an existing
// device from it or, if nothing has been persisted under --key yet,
// constructs a fresh one. The caller must call the returned closer once
// done, which persists nothing on its own — commands that mutate state
// call device.Persist explicitly before returning.
func openDevice(ctx context.Context) (*runtime.Device, func(), error) {
	seed, err := parseSeed()
	if err != nil {
		return nil, nil, err
	}
	policies, err := loadPolicySet()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(storeDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("isactl: create store directory: %w", err)
	}
	fs, err := store.OpenFileStore(storeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("isactl: open store: %w", err)
	}

	cfg := runtime.Config{
		Store:    fs,
		Key:      deviceKey,
		Entropy:  entropy.New(),
		Policies: policies,
	}

	exists, err := fs.Exists(ctx, deviceKey)
	if err != nil {
		fs.Close()
		return nil, nil, fmt.Errorf("isactl: check for existing state: %w", err)
	}

	var dev *runtime.Device
	if exists {
		dev, err = runtime.LoadDevice(ctx, seed, cfg)
	} else {
		dev = runtime.NewDevice(seed, policies.N(), cfg)
	}
	if err != nil {
		fs.Close()
		return nil, nil, fmt.Errorf("isactl: initialize device: %w", err)
	}

	closer := func() {
		dev.Close()
		fs.Close()
	}
	return dev, closer, nil
}
