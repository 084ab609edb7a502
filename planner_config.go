package main

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Algorithm names a planner variant
type Algorithm string

const (
	AlgorithmRRT        Algorithm = "RRT"
	AlgorithmRRTStar    Algorithm = "RRTStar"
	AlgorithmRRTConnect Algorithm = "RRTConnect"
	AlgorithmPRM        Algorithm = "PRM"
)

// Algorithms lists the selectable planners in display order
var Algorithms = []Algorithm{AlgorithmRRT, AlgorithmRRTStar, AlgorithmRRTConnect, AlgorithmPRM}

// PlannerConfig is one of RRTConfig, RRTStarConfig, RRTConnectConfig or PRMConfig.
// Each variant carries only the fields its planner reads.
type PlannerConfig interface {
	Algorithm() Algorithm
	Timeout() time.Duration
}

// RRTConfig parameterizes the single tree RRT planner
type RRTConfig struct {
	StepSize       float64 `mapstructure:"stepSize"`
	GoalBias       float64 `mapstructure:"goalBias"`
	TimeoutSeconds float64 `mapstructure:"timeoutSeconds"`
}

// RRTStarConfig adds the rewiring radius to the RRT parameters
type RRTStarConfig struct {
	StepSize       float64 `mapstructure:"stepSize"`
	GoalBias       float64 `mapstructure:"goalBias"`
	SearchRadius   float64 `mapstructure:"searchRadius"`
	TimeoutSeconds float64 `mapstructure:"timeoutSeconds"`
}

// RRTConnectConfig parameterizes the bidirectional planner
type RRTConnectConfig struct {
	StepSize       float64 `mapstructure:"stepSize"`
	GoalBias       float64 `mapstructure:"goalBias"`
	TimeoutSeconds float64 `mapstructure:"timeoutSeconds"`
}

// PRMConfig parameterizes roadmap construction. The timeout covers both the
// roadmap build and the query.
type PRMConfig struct {
	ConnectionRadius float64 `mapstructure:"connectionRadius"`
	TimeoutSeconds   float64 `mapstructure:"timeoutSeconds"`
}

func (RRTConfig) Algorithm() Algorithm        { return AlgorithmRRT }
func (RRTStarConfig) Algorithm() Algorithm    { return AlgorithmRRTStar }
func (RRTConnectConfig) Algorithm() Algorithm { return AlgorithmRRTConnect }
func (PRMConfig) Algorithm() Algorithm        { return AlgorithmPRM }

func (c RRTConfig) Timeout() time.Duration        { return seconds(c.TimeoutSeconds) }
func (c RRTStarConfig) Timeout() time.Duration    { return seconds(c.TimeoutSeconds) }
func (c RRTConnectConfig) Timeout() time.Duration { return seconds(c.TimeoutSeconds) }
func (c PRMConfig) Timeout() time.Duration        { return seconds(c.TimeoutSeconds) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// PlannerSettings is the flat form edited by the interactive surface.
// Fields that the selected algorithm does not use are kept so switching
// algorithms back and forth does not lose them.
type PlannerSettings struct {
	Algorithm        Algorithm `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`
	StepSize         float64   `json:"stepSize" yaml:"stepSize" mapstructure:"stepSize"`
	GoalBias         float64   `json:"goalBias" yaml:"goalBias" mapstructure:"goalBias"`
	SearchRadius     float64   `json:"searchRadius" yaml:"searchRadius" mapstructure:"searchRadius"`
	ConnectionRadius float64   `json:"connectionRadius" yaml:"connectionRadius" mapstructure:"connectionRadius"`
	TimeoutSeconds   float64   `json:"timeoutSeconds" yaml:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

// DefaultPlannerSettings mirrors the demo's initial control values
func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{
		Algorithm:        AlgorithmRRT,
		StepSize:         0.5,
		GoalBias:         0.05,
		SearchRadius:     1.0,
		ConnectionRadius: 1.0,
		TimeoutSeconds:   5.0,
	}
}

// Variant selects the planner configuration for the chosen algorithm.
// An unrecognized algorithm falls back to RRT with the step and bias present.
func (s PlannerSettings) Variant() PlannerConfig {
	switch s.Algorithm {
	case AlgorithmRRTStar:
		return RRTStarConfig{
			StepSize:       s.StepSize,
			GoalBias:       s.GoalBias,
			SearchRadius:   s.SearchRadius,
			TimeoutSeconds: s.TimeoutSeconds,
		}
	case AlgorithmRRTConnect:
		return RRTConnectConfig{
			StepSize:       s.StepSize,
			GoalBias:       s.GoalBias,
			TimeoutSeconds: s.TimeoutSeconds,
		}
	case AlgorithmPRM:
		return PRMConfig{
			ConnectionRadius: s.ConnectionRadius,
			TimeoutSeconds:   s.TimeoutSeconds,
		}
	default:
		return RRTConfig{
			StepSize:       s.StepSize,
			GoalBias:       s.GoalBias,
			TimeoutSeconds: s.TimeoutSeconds,
		}
	}
}

// DecodePlannerConfig turns a loosely typed configuration message into a
// variant. Numeric strings are accepted.
func DecodePlannerConfig(raw map[string]any) (PlannerConfig, error) {
	var settings PlannerSettings
	if err := decodeSettings(raw, &settings); err != nil {
		return nil, err
	}
	return settings.Variant(), nil
}

// decodeSettings overlays the keys present in raw onto settings
func decodeSettings(raw map[string]any, settings *PlannerSettings) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           settings,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid planner configuration: %w", err)
	}
	return nil
}

// EncodePlannerConfig is the inverse of DecodePlannerConfig: it produces the
// variant's own fields plus the "algorithm" tag.
func EncodePlannerConfig(cfg PlannerConfig) (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(cfg, &out); err != nil {
		return nil, fmt.Errorf("failed to encode %s configuration: %w", cfg.Algorithm(), err)
	}
	out["algorithm"] = string(cfg.Algorithm())
	return out, nil
}
