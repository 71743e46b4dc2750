// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Exit codes follow the convention: 0 means the command ran and found
// nothing to report, 1 means it ran and found something worth the
// caller's attention (a violation, a divergence above zero), 2 means
// the command itself failed.
const (
	CLIExitSuccess  = 0
	CLIExitFindings = 1
	CLIExitError    = 2
)

// CommandResult is the --json envelope every subcommand emits.
type CommandResult struct {
	Command    string `json:"command"`
	Timestamp  string `json:"timestamp"`
	DurationMs int64  `json:"duration_ms"`
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newResult(command string, start time.Time) CommandResult {
	return CommandResult{
		Command:   command,
		Timestamp: start.UTC().Format(time.RFC3339),
	}
}

func (r CommandResult) finish(start time.Time, data any, err error) CommandResult {
	r.DurationMs = time.Since(start).Milliseconds()
	r.Success = err == nil
	r.Data = data
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func emit(r CommandResult) {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
		return
	}
	if r.Error != "" {
		fmt.Fprintf(os.Stderr, "%s: error: %s\n", r.Command, r.Error)
		return
	}
	if r.Data != nil {
		fmt.Printf("%v\n", r.Data)
	}
}

func fail(command string, start time.Time, err error) {
	emit(newResult(command, start).finish(start, nil, err))
	os.Exit(CLIExitError)
}
