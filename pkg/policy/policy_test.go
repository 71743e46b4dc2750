// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package policy

import (
	"errors"
	"testing"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

func u(n uint64) ring.Element {
	var e ring.Element
	e[0] = byte(n)
	e[1] = byte(n >> 8)
	e[2] = byte(n >> 16)
	e[3] = byte(n >> 24)
	e[4] = byte(n >> 32)
	e[5] = byte(n >> 40)
	e[6] = byte(n >> 48)
	e[7] = byte(n >> 56)
	return e
}

func flatPolicies(n int, threshold ring.Element) []DimensionPolicy {
	p := make([]DimensionPolicy, n)
	for i := range p {
		p[i] = DimensionPolicy{Name: "axis", Threshold: threshold, Strategy: MonitorOnly, Weight: 1}
	}
	return p
}

// S6 from spec.md: 4-dim divergences (500, 1500, 800, 1200), thresholds all
// 1000, expect violations at axis indices [1, 3].
func TestS6ThresholdViolationScenario(t *testing.T) {
	set, err := NewSet(4, flatPolicies(4, u(1000)), nil)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	div := []ring.Element{u(500), u(1500), u(800), u(1200)}
	violations := set.EvaluateThresholds(div)

	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(violations), violations)
	}
	if violations[0].Index != 1 || violations[1].Index != 3 {
		t.Fatalf("expected violations at [1, 3], got [%d, %d]", violations[0].Index, violations[1].Index)
	}
}

func TestThresholdViolationsAreAscendingByAxisIndex(t *testing.T) {
	set, err := NewSet(3, flatPolicies(3, u(10)), nil)
	if err != nil {
		t.Fatal(err)
	}
	div := []ring.Element{u(99), u(1), u(50)}
	violations := set.EvaluateThresholds(div)
	for i := 1; i < len(violations); i++ {
		if violations[i].Index <= violations[i-1].Index {
			t.Fatalf("violations not in ascending axis order: %+v", violations)
		}
	}
}

// Property #12: raising a threshold never increases the set of violating
// axes for a fixed divergence vector.
func TestThresholdMonotonicity(t *testing.T) {
	div := []ring.Element{u(500), u(1500), u(800), u(1200)}

	lowSet, _ := NewSet(4, flatPolicies(4, u(900)), nil)
	highSet, _ := NewSet(4, flatPolicies(4, u(1300)), nil)

	lowViolations := map[int]bool{}
	for _, v := range lowSet.EvaluateThresholds(div) {
		lowViolations[v.Index] = true
	}
	highViolations := map[int]bool{}
	for _, v := range highSet.EvaluateThresholds(div) {
		highViolations[v.Index] = true
	}
	for idx := range highViolations {
		if !lowViolations[idx] {
			t.Fatalf("axis %d violates the higher threshold but not the lower one", idx)
		}
	}
	if len(highViolations) > len(lowViolations) {
		t.Fatalf("raising the threshold increased violation count: low=%d high=%d", len(lowViolations), len(highViolations))
	}
}

func TestNewSetRejectsWrongPolicyCount(t *testing.T) {
	_, err := NewSet(3, flatPolicies(2, u(1)), nil)
	var cfgErr *InvalidConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
}

func TestNewSetRejectsOutOfRangeConstraintAxis(t *testing.T) {
	_, err := NewSet(2, flatPolicies(2, u(1)), []Constraint{
		MaxRatio("bad", 0, 5, 1.0),
	})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestEvaluateConstraintsShortVectorDoesNotPanic(t *testing.T) {
	set, err := NewSet(3, flatPolicies(3, u(1_000_000)), []Constraint{
		MaxRatio("ratio", 0, 2, 0.5),
		SumBelow("sum", []int{0, 1, 2}, u(1_000)),
		Conditional("cond", 0, u(10), 2, u(10)),
	})
	if err != nil {
		t.Fatal(err)
	}
	div := []ring.Element{u(1)} // shorter than N=3
	if violations := set.EvaluateConstraints(div); len(violations) != 0 {
		t.Fatalf("a divergence vector shorter than N must not violate out-of-range constraints, got %+v", violations)
	}
}

func TestMaxRatioZeroDenominatorHolds(t *testing.T) {
	set, err := NewSet(2, flatPolicies(2, u(1_000_000)), []Constraint{
		MaxRatio("ratio", 0, 1, 0.5),
	})
	if err != nil {
		t.Fatal(err)
	}
	div := []ring.Element{u(999), ring.Zero}
	if violations := set.EvaluateConstraints(div); len(violations) != 0 {
		t.Fatalf("MaxRatio against a zero denominator must hold, got %+v", violations)
	}
}

func TestMaxRatioViolation(t *testing.T) {
	set, err := NewSet(2, flatPolicies(2, u(1_000_000)), []Constraint{
		MaxRatio("ratio", 0, 1, 0.5),
	})
	if err != nil {
		t.Fatal(err)
	}
	// div[0]=300, div[1]=100: 300 <= 0.5*100=50 is false.
	div := []ring.Element{u(300), u(100)}
	if violations := set.EvaluateConstraints(div); len(violations) != 1 {
		t.Fatalf("expected 1 MaxRatio violation, got %+v", violations)
	}
}

func TestSumBelow(t *testing.T) {
	set, err := NewSet(3, flatPolicies(3, u(1_000_000)), []Constraint{
		SumBelow("budget", []int{0, 1, 2}, u(1000)),
	})
	if err != nil {
		t.Fatal(err)
	}
	ok := []ring.Element{u(300), u(300), u(300)}
	if v := set.EvaluateConstraints(ok); len(v) != 0 {
		t.Fatalf("sum 900 <= 1000 should hold, got %+v", v)
	}
	bad := []ring.Element{u(400), u(400), u(400)}
	if v := set.EvaluateConstraints(bad); len(v) != 1 {
		t.Fatalf("sum 1200 > 1000 should violate, got %+v", v)
	}
}

func TestConditionalEitherBranchHolds(t *testing.T) {
	set, err := NewSet(2, flatPolicies(2, u(1_000_000)), []Constraint{
		Conditional("cond", 0, u(100), 1, u(100)),
	})
	if err != nil {
		t.Fatal(err)
	}
	// axis 0 exceeds 100 but axis 1 is within 100: should hold.
	if v := set.EvaluateConstraints([]ring.Element{u(500), u(50)}); len(v) != 0 {
		t.Fatalf("conditional should hold via axis 1, got %+v", v)
	}
	// both exceed: should violate.
	if v := set.EvaluateConstraints([]ring.Element{u(500), u(500)}); len(v) != 1 {
		t.Fatalf("conditional should violate when both branches fail, got %+v", v)
	}
}

func TestConstraintViolationsInRegistrationOrder(t *testing.T) {
	set, err := NewSet(2, flatPolicies(2, u(1_000_000)), []Constraint{
		MaxRatio("second", 0, 1, 0.01),
		SumBelow("first", []int{0, 1}, ring.Zero),
	})
	if err != nil {
		t.Fatal(err)
	}
	div := []ring.Element{u(500), u(500)}
	violations := set.EvaluateConstraints(div)
	if len(violations) != 2 {
		t.Fatalf("expected both constraints to violate, got %+v", violations)
	}
	if violations[0].Constraint.Name() != "second" || violations[1].Constraint.Name() != "first" {
		t.Fatalf("constraint violations must preserve registration order, got %+v", violations)
	}
}

func TestAggregateIsWeightedSum(t *testing.T) {
	policies := []DimensionPolicy{
		{Name: "a", Threshold: u(1), Weight: 2.0},
		{Name: "b", Threshold: u(1), Weight: 0.5},
	}
	set, err := NewSet(2, policies, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := set.Aggregate([]ring.Element{u(10), u(10)})
	want := 2.0*10 + 0.5*10
	if got != want {
		t.Fatalf("Aggregate = %f, want %f", got, want)
	}
}
