// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package profile maps domain-specific labels (finance, time, hardware, ...)
// onto the domain-agnostic axis indices pkg/integrity works with. Nothing in
// pkg/ring, pkg/kdf, pkg/accumulator, pkg/divergence, pkg/integrity or
// pkg/policy knows what an axis "means"; that meaning lives only here, at
// the caller's option.
package profile

// Mapping associates one semantic label with a fixed axis index.
type Mapping struct {
	Label       string
	Index       int
	Description string
}

// Profile is a caller-defined label <-> axis-index dictionary.
type Profile struct {
	DimensionCount int
	Mappings       []Mapping
}

// IndexFor returns the axis index for label, if the profile defines one.
func (p Profile) IndexFor(label string) (int, bool) {
	for _, m := range p.Mappings {
		if m.Label == label {
			return m.Index, true
		}
	}
	return 0, false
}

// LabelFor returns the semantic label for an axis index, if the profile
// defines one.
func (p Profile) LabelFor(index int) (string, bool) {
	for _, m := range p.Mappings {
		if m.Index == index {
			return m.Label, true
		}
	}
	return "", false
}

// Canonical axis indices for the three-axis finance/time/hardware layout,
// mirroring pkg/integrity's FinanceAxis/TimeAxis/HardwareAxis constants.
const (
	Finance  = 0
	Time     = 1
	Hardware = 2
)

// Fixed3Profile returns the standard three-axis profile: finance, time,
// hardware.
func Fixed3Profile() Profile {
	return Profile{
		DimensionCount: 3,
		Mappings: []Mapping{
			{Label: "finance", Index: Finance, Description: "financial transactions and monetary events"},
			{Label: "time", Index: Time, Description: "temporal progression and ordering"},
			{Label: "hardware", Index: Hardware, Description: "hardware-specific entropy and device identity"},
		},
	}
}
