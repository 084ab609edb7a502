package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlannerSettingsVariant(t *testing.T) {
	settings := PlannerSettings{
		StepSize:         0.5,
		GoalBias:         0.05,
		SearchRadius:     1,
		ConnectionRadius: 2,
		TimeoutSeconds:   3,
	}

	tests := []struct {
		algorithm Algorithm
		want      PlannerConfig
	}{
		{AlgorithmRRT, RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 3}},
		{AlgorithmRRTStar, RRTStarConfig{StepSize: 0.5, GoalBias: 0.05, SearchRadius: 1, TimeoutSeconds: 3}},
		{AlgorithmRRTConnect, RRTConnectConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 3}},
		{AlgorithmPRM, PRMConfig{ConnectionRadius: 2, TimeoutSeconds: 3}},
		{"Unknown", RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			settings.Algorithm = tt.algorithm
			cfg := settings.Variant()
			assert.Equal(t, tt.want, cfg)
			assert.Equal(t, 3*time.Second, cfg.Timeout())
		})
	}
}

func TestDecodePlannerConfig(t *testing.T) {
	cfg, err := DecodePlannerConfig(map[string]any{
		"algorithm":      "RRTStar",
		"stepSize":       0.25,
		"goalBias":       "0.1",
		"searchRadius":   1.5,
		"timeoutSeconds": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, RRTStarConfig{StepSize: 0.25, GoalBias: 0.1, SearchRadius: 1.5, TimeoutSeconds: 2}, cfg)
}

func TestDecodePlannerConfigUnknownAlgorithmFallsBackToRRT(t *testing.T) {
	cfg, err := DecodePlannerConfig(map[string]any{
		"algorithm":      "FMT",
		"stepSize":       0.5,
		"goalBias":       0.05,
		"timeoutSeconds": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, AlgorithmRRT, cfg.Algorithm())
	assert.Equal(t, RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 5}, cfg)
}

func TestDecodePlannerConfigMissingParameterIsZero(t *testing.T) {
	cfg, err := DecodePlannerConfig(map[string]any{
		"algorithm":      "RRTStar",
		"stepSize":       0.5,
		"goalBias":       0.05,
		"timeoutSeconds": 5,
	})
	require.NoError(t, err)

	_, err = NewPlanner(cfg)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDecodePlannerConfigRejectsBadValues(t *testing.T) {
	_, err := DecodePlannerConfig(map[string]any{
		"algorithm": "RRT",
		"stepSize":  "fast",
	})
	assert.Error(t, err)
}

func TestEncodePlannerConfigRoundTrip(t *testing.T) {
	for _, cfg := range []PlannerConfig{
		RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 5},
		RRTStarConfig{StepSize: 0.5, GoalBias: 0.05, SearchRadius: 1, TimeoutSeconds: 5},
		RRTConnectConfig{StepSize: 0.3, GoalBias: 0.2, TimeoutSeconds: 1},
		PRMConfig{ConnectionRadius: 1, TimeoutSeconds: 5},
	} {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			raw, err := EncodePlannerConfig(cfg)
			require.NoError(t, err)
			assert.Equal(t, string(cfg.Algorithm()), raw["algorithm"])

			decoded, err := DecodePlannerConfig(raw)
			require.NoError(t, err)
			assert.Equal(t, cfg, decoded)
		})
	}
}

func TestEncodePlannerConfigOnlyCarriesVariantFields(t *testing.T) {
	raw, err := EncodePlannerConfig(PRMConfig{ConnectionRadius: 1, TimeoutSeconds: 5})
	require.NoError(t, err)
	assert.NotContains(t, raw, "stepSize")
	assert.NotContains(t, raw, "goalBias")
	assert.Contains(t, raw, "connectionRadius")
}

func TestDecodeSettingsOverlaysPartialUpdate(t *testing.T) {
	settings := DefaultPlannerSettings()
	require.NoError(t, decodeSettings(map[string]any{"algorithm": "PRM", "connectionRadius": 2.5}, &settings))

	assert.Equal(t, AlgorithmPRM, settings.Algorithm)
	assert.Equal(t, 2.5, settings.ConnectionRadius)
	assert.Equal(t, 0.5, settings.StepSize)
	assert.Equal(t, 5.0, settings.TimeoutSeconds)
}
