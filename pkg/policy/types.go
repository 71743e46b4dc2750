// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package policy evaluates divergence vectors against per-axis thresholds
// and cross-axis constraints. It never touches I/O, randomness, or the
// clock: a Set is pure data plus pure functions over ring elements, built
// once (with all validation happening at that point) and evaluated many
// times against divergence vectors produced by pkg/divergence.
package policy

import "github.com/mouhamed1296/isa-project/pkg/ring"

// Strategy is the closed set of recovery strategies a violated policy may
// name. It intentionally has no escape hatch: callers that need a strategy
// this enum does not cover should not encode it as a policy threshold
// violation at all.
type Strategy int

const (
	// MonitorOnly records the violation but takes no corrective action.
	MonitorOnly Strategy = iota
	// ImmediateHeal applies convergence (pkg/divergence.Converge) as soon as
	// the violation is observed.
	ImmediateHeal
	// Quarantine isolates the offending axis from further folds until an
	// operator clears it.
	Quarantine
	// GracefulDegrade marks the axis for degraded service rather than
	// healing or isolating it outright. It is a label only: Set and
	// Aggregate treat it like any other strategy, and Aggregate always uses
	// the policy's configured Weight.
	GracefulDegrade
)

func (s Strategy) String() string {
	switch s {
	case MonitorOnly:
		return "monitor_only"
	case ImmediateHeal:
		return "immediate_heal"
	case Quarantine:
		return "quarantine"
	case GracefulDegrade:
		return "graceful_degrade"
	default:
		return "unknown_strategy"
	}
}

// DimensionPolicy binds one axis to a threshold divergence and a strategy to
// take when that threshold is exceeded.
type DimensionPolicy struct {
	Name           string
	Threshold      ring.Element
	Strategy       Strategy
	Weight         float64
	SafetyRelevant bool
}

// constraintKind discriminates the closed Constraint variant set. It is
// unexported: callers build Constraints only through the MaxRatio,
// SumBelow and Conditional constructors below, so a Constraint value is
// always one of exactly these three shapes.
type constraintKind int

const (
	kindMaxRatio constraintKind = iota
	kindSumBelow
	kindConditional
)

// Constraint is a cross-axis rule over a divergence vector. Its zero value
// is not meaningful; construct one with MaxRatio, SumBelow or Conditional.
type Constraint struct {
	kind constraintKind
	name string

	// MaxRatio(i, j, ratio): holds iff div[i] <= ratio * div[j].
	i, j  int
	ratio float64

	// SumBelow(axes, bound): holds iff sum(div[a] for a in axes) <= bound.
	axes  []int
	bound ring.Element

	// Conditional(i, thresholdI, j, thresholdJ): holds iff div[i] <=
	// thresholdI OR div[j] <= thresholdJ.
	thresholdI, thresholdJ ring.Element
}

// MaxRatio builds a constraint requiring the divergence at axis i to stay
// within ratio times the divergence at axis j. Per §4.F, if div[j] is zero
// the constraint is considered satisfied regardless of div[i] (there is no
// finite ratio bound against zero).
func MaxRatio(name string, i, j int, ratio float64) Constraint {
	return Constraint{kind: kindMaxRatio, name: name, i: i, j: j, ratio: ratio}
}

// SumBelow builds a constraint requiring the sum of the divergences at the
// given axes, taken as unsigned 256-bit magnitudes and summed without
// modular wraparound, to not exceed bound.
func SumBelow(name string, axes []int, bound ring.Element) Constraint {
	cp := make([]int, len(axes))
	copy(cp, axes)
	return Constraint{kind: kindSumBelow, name: name, axes: cp, bound: bound}
}

// Conditional builds a constraint that holds if either axis i's divergence
// is at most thresholdI, or axis j's divergence is at most thresholdJ.
func Conditional(name string, i int, thresholdI ring.Element, j int, thresholdJ ring.Element) Constraint {
	return Constraint{kind: kindConditional, name: name, i: i, thresholdI: thresholdI, j: j, thresholdJ: thresholdJ}
}

// Name returns the constraint's caller-assigned label, used only for
// reporting.
func (c Constraint) Name() string { return c.name }

// axisRefs returns every axis index this constraint reads, for
// construction-time range validation.
func (c Constraint) axisRefs() []int {
	switch c.kind {
	case kindMaxRatio:
		return []int{c.i, c.j}
	case kindSumBelow:
		return c.axes
	case kindConditional:
		return []int{c.i, c.j}
	default:
		return nil
	}
}
