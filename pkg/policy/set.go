// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package policy

import (
	"math/big"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// Set is a validated, immutable collection of per-axis policies and
// cross-axis constraints for an N-dimensional divergence vector. Every
// Set in existence is well-formed: invalid configuration is rejected by
// NewSet and never surfaces during evaluation.
type Set struct {
	n           int
	policies    []DimensionPolicy // len == n; policies[i] applies to axis i
	constraints []Constraint      // in registration order
}

// NewSet validates and builds a policy/constraint set over n axes.
// policies must have exactly one entry per axis, in axis order. Every
// constraint's axis references must lie in [0, n). Any violation of these
// rules is reported as an InvalidConfigurationError; a Set is never
// returned in a partially-valid state.
func NewSet(n int, policies []DimensionPolicy, constraints []Constraint) (*Set, error) {
	if n < 1 {
		return nil, invalidConfig("axis count must be at least 1, got %d", n)
	}
	if len(policies) != n {
		return nil, invalidConfig("expected %d policies (one per axis), got %d", n, len(policies))
	}
	for _, c := range constraints {
		for _, ref := range c.axisRefs() {
			if ref < 0 || ref >= n {
				return nil, invalidConfig("constraint %q references out-of-range axis %d (N=%d)", c.name, ref, n)
			}
		}
		if c.kind == kindMaxRatio && c.ratio < 0 {
			return nil, invalidConfig("constraint %q has negative ratio %f", c.name, c.ratio)
		}
	}

	cp := make([]DimensionPolicy, n)
	copy(cp, policies)
	cc := make([]Constraint, len(constraints))
	copy(cc, constraints)
	return &Set{n: n, policies: cp, constraints: cc}, nil
}

// N returns the axis count this Set was built for.
func (s *Set) N() int { return s.n }

// ThresholdViolation names an axis whose divergence exceeded its policy's
// threshold.
type ThresholdViolation struct {
	Index  int
	Policy DimensionPolicy
}

// EvaluateThresholds returns, in ascending axis-index order, every axis
// whose divergence strictly exceeds its policy's threshold. div must have
// length N.
func (s *Set) EvaluateThresholds(div []ring.Element) []ThresholdViolation {
	var out []ThresholdViolation
	for i := 0; i < s.n && i < len(div); i++ {
		if ring.CmpMag(div[i], s.policies[i].Threshold) > 0 {
			out = append(out, ThresholdViolation{Index: i, Policy: s.policies[i]})
		}
	}
	return out
}

// ConstraintViolation names a constraint that did not hold for a given
// divergence vector.
type ConstraintViolation struct {
	Index      int
	Constraint Constraint
}

// EvaluateConstraints returns, in registration order, every constraint
// that does not hold for div.
func (s *Set) EvaluateConstraints(div []ring.Element) []ConstraintViolation {
	var out []ConstraintViolation
	for i, c := range s.constraints {
		if !holds(c, div) {
			out = append(out, ConstraintViolation{Index: i, Constraint: c})
		}
	}
	return out
}

// inRange reports whether every axis a constraint references is within
// div's bounds. A divergence vector shorter than N is treated the same
// way EvaluateThresholds treats it: axes it doesn't cover are simply not
// evaluated, never a panic.
func inRange(div []ring.Element, refs ...int) bool {
	for _, r := range refs {
		if r < 0 || r >= len(div) {
			return false
		}
	}
	return true
}

func holds(c Constraint, div []ring.Element) bool {
	switch c.kind {
	case kindMaxRatio:
		if !inRange(div, c.i, c.j) {
			return true
		}
		dj := toBig(div[c.j])
		if dj.Sign() == 0 {
			return true
		}
		di := toBig(div[c.i])
		// di <= ratio * dj  <=>  di * denom <= numer * dj, for ratio == numer/denom.
		r := new(big.Rat).SetFloat64(c.ratio)
		if r == nil {
			return false
		}
		lhs := new(big.Int).Mul(di, r.Denom())
		rhs := new(big.Int).Mul(r.Num(), dj)
		return lhs.Cmp(rhs) <= 0
	case kindSumBelow:
		if !inRange(div, c.axes...) {
			return true
		}
		sum := new(big.Int)
		for _, a := range c.axes {
			sum.Add(sum, toBig(div[a]))
		}
		return sum.Cmp(toBig(c.bound)) <= 0
	case kindConditional:
		if !inRange(div, c.i, c.j) {
			return true
		}
		return ring.CmpMag(div[c.i], c.thresholdI) <= 0 || ring.CmpMag(div[c.j], c.thresholdJ) <= 0
	default:
		return true
	}
}

// toBig interprets a ring element's canonical little-endian byte
// representation as an unsigned 256-bit magnitude. Used only at the
// reporting edges of the policy engine (ratio and sum comparisons), never
// inside the core ring arithmetic.
func toBig(e ring.Element) *big.Int {
	b := e.Bytes()
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// Aggregate computes a non-normative weighted scalar summary of a
// divergence vector, for reporting and dashboards only: it has no bearing
// on threshold or constraint evaluation.
func (s *Set) Aggregate(div []ring.Element) float64 {
	var total float64
	for i := 0; i < s.n && i < len(div); i++ {
		mag := toBig(div[i])
		f := new(big.Float).SetInt(mag)
		v, _ := f.Float64()
		total += s.policies[i].Weight * v
	}
	return total
}
