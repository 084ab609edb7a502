package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GoalRegion is the configured goal disk
type GoalRegion struct {
	Center Point   `json:"center" yaml:"center"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Scene is the fixed world every job plans in
type Scene struct {
	WorldSize float64    `json:"worldSize" yaml:"worldSize"`
	Start     Point      `json:"start" yaml:"start"`
	Goal      GoalRegion `json:"goal" yaml:"goal"`
	Obstacles []Obstacle `json:"obstacles" yaml:"obstacles"`
}

// DefaultScene is the demo world: a 10x10 square, start on the left,
// goal on the right, three walls in between.
func DefaultScene() Scene {
	return Scene{
		WorldSize: 10,
		Start:     Point{X: 1.0, Y: 5.0},
		Goal:      GoalRegion{Center: Point{X: 9.0, Y: 5.0}, Radius: 0.5},
		Obstacles: []Obstacle{
			{X: 5.0, Y: 2.0, Width: 0.5, Height: 6.0},
			{X: 2.5, Y: 7.0, Width: 2.0, Height: 0.5},
			{X: 7.0, Y: 1.5, Width: 0.5, Height: 2.0},
		},
	}
}

// Validate checks the world size, goal radius and obstacle extents
func (s Scene) Validate() error {
	if s.WorldSize <= 0 {
		return fmt.Errorf("scene: worldSize must be positive, got %v", s.WorldSize)
	}
	if s.Goal.Radius <= 0 {
		return fmt.Errorf("scene: goal radius must be positive, got %v", s.Goal.Radius)
	}
	for _, o := range s.Obstacles {
		if err := o.validate(); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	return nil
}

// NewProblem builds a fresh problem for one job. Each call gets its own goal
// sampler, so jobs never share random state.
func (s Scene) NewProblem() (*Problem, error) {
	return NewProblem(
		WorldSpace{Size: s.WorldSize},
		s.Start,
		NewCircularGoal(s.Goal.Center, s.Goal.Radius),
		s.Obstacles,
	)
}

// ServerSettings configures the HTTP surface
type ServerSettings struct {
	Addr string `yaml:"addr"`
}

// Settings is the application configuration file
type Settings struct {
	Server     ServerSettings  `yaml:"server"`
	LogLevel   string          `yaml:"logLevel"`
	CanvasSize int             `yaml:"canvasSize"`
	Scene      Scene           `yaml:"scene"`
	Planner    PlannerSettings `yaml:"planner"`
}

// DefaultSettings serves on :8080 with the demo scene and planner defaults
func DefaultSettings() Settings {
	return Settings{
		Server:     ServerSettings{Addr: ":8080"},
		LogLevel:   "info",
		CanvasSize: 600,
		Scene:      DefaultScene(),
		Planner:    DefaultPlannerSettings(),
	}
}

// LoadSettings reads a YAML settings file over the defaults.
// An empty path or a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if settings.CanvasSize <= 0 {
		return Settings{}, fmt.Errorf("canvasSize must be positive, got %d", settings.CanvasSize)
	}
	if err := settings.Scene.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
