// Package shaping provides reusable reward shapers.
package shaping

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/boristopalov/rlloop/pkg/core"
)

// StepPenalty subtracts penalty from every reward
func StepPenalty[S any](penalty float64) core.RewardShaper[S] {
	return func(c core.RewardContext[S]) float64 {
		return c.Reward - penalty
	}
}

// Scale multiplies every reward by factor
func Scale[S any](factor float64) core.RewardShaper[S] {
	return func(c core.RewardContext[S]) float64 {
		return c.Reward * factor
	}
}

// Clip bounds every reward to [min, max]
func Clip[S any](min, max float64) core.RewardShaper[S] {
	return func(c core.RewardContext[S]) float64 {
		return lo.Clamp(c.Reward, min, max)
	}
}

// TerminalBonus adds bonus on the transition that ends the episode
func TerminalBonus[S any](bonus float64) core.RewardShaper[S] {
	return func(c core.RewardContext[S]) float64 {
		if c.Done {
			return c.Reward + bonus
		}
		return c.Reward
	}
}

// Chain applies shapers left to right, each seeing the previous output as the
// reward. An empty chain returns nil, meaning no shaping.
func Chain[S any](shapers ...core.RewardShaper[S]) core.RewardShaper[S] {
	shapers = lo.Filter(shapers, func(s core.RewardShaper[S], _ int) bool {
		return s != nil
	})
	if len(shapers) == 0 {
		return nil
	}
	return func(c core.RewardContext[S]) float64 {
		for _, s := range shapers {
			c.Reward = s(c)
		}
		return c.Reward
	}
}

// Spec is the configuration form of a shaper
type Spec struct {
	Type  string  `yaml:"type"`
	Value float64 `yaml:"value"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// FromSpecs builds the chained shaper described by specs
func FromSpecs[S any](specs []Spec) (core.RewardShaper[S], error) {
	shapers := make([]core.RewardShaper[S], 0, len(specs))
	for i, spec := range specs {
		switch strings.ToLower(spec.Type) {
		case "step_penalty":
			shapers = append(shapers, StepPenalty[S](spec.Value))
		case "scale":
			shapers = append(shapers, Scale[S](spec.Value))
		case "clip":
			if spec.Min > spec.Max {
				return nil, fmt.Errorf("shaper %d: clip min %v above max %v", i, spec.Min, spec.Max)
			}
			shapers = append(shapers, Clip[S](spec.Min, spec.Max))
		case "terminal_bonus":
			shapers = append(shapers, TerminalBonus[S](spec.Value))
		default:
			return nil, fmt.Errorf("shaper %d: unknown type %q", i, spec.Type)
		}
	}
	return Chain(shapers...), nil
}
