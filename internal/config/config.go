// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads a policy/constraint set from YAML. It is the only
// place pkg/policy's Strategy type is parsed from user-supplied text; the
// UnmarshalYAML method below rejects any name outside the closed enum
// rather than silently defaulting.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mouhamed1296/isa-project/pkg/policy"
	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// strategyYAML mirrors policy.Strategy for YAML decoding, since
// policy.Strategy itself carries no yaml dependency.
type strategyYAML policy.Strategy

func (s *strategyYAML) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch name {
	case "monitor_only":
		*s = strategyYAML(policy.MonitorOnly)
	case "immediate_heal":
		*s = strategyYAML(policy.ImmediateHeal)
	case "quarantine":
		*s = strategyYAML(policy.Quarantine)
	case "graceful_degrade":
		*s = strategyYAML(policy.GracefulDegrade)
	default:
		return fmt.Errorf("config: unknown strategy %q", name)
	}
	return nil
}

// thresholdYAML decodes a policy threshold given as a decimal string
// (divergences routinely exceed uint64 range, so plain YAML integers
// aren't wide enough) into a ring.Element.
type thresholdYAML ring.Element

func (t *thresholdYAML) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	e, err := parseDecimal(s)
	if err != nil {
		return fmt.Errorf("config: invalid threshold %q: %w", s, err)
	}
	*t = thresholdYAML(e)
	return nil
}

// PolicyConfig is the YAML shape of one DimensionPolicy.
type PolicyConfig struct {
	Name           string        `yaml:"name"`
	Threshold      thresholdYAML `yaml:"threshold"`
	Strategy       strategyYAML  `yaml:"strategy"`
	Weight         float64       `yaml:"weight"`
	SafetyRelevant bool          `yaml:"safety_relevant"`
}

// ConstraintConfig is the YAML shape of one Constraint. Exactly one of
// MaxRatio, SumBelow or Conditional must be set; construction validates
// this the same way pkg/policy.NewSet validates axis ranges.
type ConstraintConfig struct {
	Name string `yaml:"name"`

	MaxRatio *struct {
		I     int     `yaml:"i"`
		J     int     `yaml:"j"`
		Ratio float64 `yaml:"ratio"`
	} `yaml:"max_ratio,omitempty"`

	SumBelow *struct {
		Axes  []int         `yaml:"axes"`
		Bound thresholdYAML `yaml:"bound"`
	} `yaml:"sum_below,omitempty"`

	Conditional *struct {
		I          int           `yaml:"i"`
		ThresholdI thresholdYAML `yaml:"threshold_i"`
		J          int           `yaml:"j"`
		ThresholdJ thresholdYAML `yaml:"threshold_j"`
	} `yaml:"conditional,omitempty"`
}

// PolicySetConfig is the top-level YAML document loaded into a
// policy.Set.
type PolicySetConfig struct {
	Axes        int                `yaml:"axes"`
	Policies    []PolicyConfig     `yaml:"policies"`
	Constraints []ConstraintConfig `yaml:"constraints"`
}

// Parse decodes a YAML document into a validated policy.Set. It reports a
// decode error for malformed YAML or an unknown strategy name, and an
// InvalidConfigurationError (via policy.NewSet) for out-of-range axis
// references — both fail before any policy is evaluated.
func Parse(data []byte) (*policy.Set, error) {
	var doc PolicySetConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	policies := make([]policy.DimensionPolicy, len(doc.Policies))
	for i, p := range doc.Policies {
		policies[i] = policy.DimensionPolicy{
			Name:           p.Name,
			Threshold:      ring.Element(p.Threshold),
			Strategy:       policy.Strategy(p.Strategy),
			Weight:         p.Weight,
			SafetyRelevant: p.SafetyRelevant,
		}
	}

	constraints := make([]policy.Constraint, 0, len(doc.Constraints))
	for _, c := range doc.Constraints {
		kinds := 0
		for _, present := range []bool{c.MaxRatio != nil, c.SumBelow != nil, c.Conditional != nil} {
			if present {
				kinds++
			}
		}
		if kinds > 1 {
			return nil, fmt.Errorf("config: constraint %q names more than one of max_ratio, sum_below, conditional", c.Name)
		}
		switch {
		case c.MaxRatio != nil:
			constraints = append(constraints, policy.MaxRatio(c.Name, c.MaxRatio.I, c.MaxRatio.J, c.MaxRatio.Ratio))
		case c.SumBelow != nil:
			constraints = append(constraints, policy.SumBelow(c.Name, c.SumBelow.Axes, ring.Element(c.SumBelow.Bound)))
		case c.Conditional != nil:
			constraints = append(constraints, policy.Conditional(c.Name, c.Conditional.I, ring.Element(c.Conditional.ThresholdI), c.Conditional.J, ring.Element(c.Conditional.ThresholdJ)))
		default:
			return nil, fmt.Errorf("config: constraint %q names none of max_ratio, sum_below, conditional", c.Name)
		}
	}

	return policy.NewSet(doc.Axes, policies, constraints)
}
