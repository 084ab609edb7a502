package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)

	settings, err = LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettingsOverlaysDefaults(t *testing.T) {
	path := writeSettings(t, `
server:
  addr: ":9090"
logLevel: debug
planner:
  algorithm: PRM
  connectionRadius: 1.5
scene:
  obstacles:
    - {x: 5, y: 5, width: 1, height: 4}
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", settings.Server.Addr)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 600, settings.CanvasSize)

	assert.Equal(t, AlgorithmPRM, settings.Planner.Algorithm)
	assert.Equal(t, 1.5, settings.Planner.ConnectionRadius)
	assert.Equal(t, 5.0, settings.Planner.TimeoutSeconds)

	assert.Equal(t, 10.0, settings.Scene.WorldSize)
	assert.Equal(t, Point{X: 1, Y: 5}, settings.Scene.Start)
	assert.Equal(t, []Obstacle{{X: 5, Y: 5, Width: 1, Height: 4}}, settings.Scene.Obstacles)
}

func TestLoadSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"canvas", "canvasSize: 0"},
		{"world", "scene: {worldSize: -1}"},
		{"goal radius", "scene: {goal: {radius: 0}}"},
		{"obstacle", "scene: {obstacles: [{x: 1, y: 1, width: 0, height: 2}]}"},
		{"malformed", "planner: [not, a, mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestSceneNewProblemUsesFreshGoal(t *testing.T) {
	scene := DefaultScene()
	a, err := scene.NewProblem()
	require.NoError(t, err)
	b, err := scene.NewProblem()
	require.NoError(t, err)

	assert.NotSame(t, a.Goal, b.Goal)
	assert.True(t, a.Goal.IsSatisfied(scene.Goal.Center))
	assert.Len(t, a.Obstacles, 3)
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	level, err = parseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}
