package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definitionFor(problem *Problem) ProblemDefinition {
	return ProblemDefinition{Space: problem.World, Start: problem.Start, Goal: problem.Goal}
}

// setupPlanner builds and sets up the planner for cfg, constructing the
// roadmap first when cfg is PRM.
func setupPlanner(t *testing.T, cfg PlannerConfig, problem *Problem) Planner {
	t.Helper()
	planner, err := NewPlanner(cfg)
	require.NoError(t, err)
	require.NoError(t, planner.Setup(definitionFor(problem), problem.IsValid))
	if prm, ok := planner.(*PRMPlanner); ok {
		require.NoError(t, prm.ConstructRoadmap(context.Background()))
	}
	return planner
}

func assertPathValid(t *testing.T, problem *Problem, path Path) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, problem.Start, path[0], "path must begin at the start")
	assert.True(t, problem.Goal.IsSatisfied(path[len(path)-1]), "path must end in the goal, got %v", path[len(path)-1])

	si, err := newSpaceInfo(definitionFor(problem), problem.IsValid)
	require.NoError(t, err)
	for i, p := range path {
		assert.True(t, problem.IsValid(p), "waypoint %d %v is not valid", i, p)
	}
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		assert.True(t, si.checkMotion(a, b) || si.checkMotion(b, a), "segment %d %v -> %v collides", i, a, b)
	}
}

func plannerConfigs() []PlannerConfig {
	return []PlannerConfig{
		RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 5},
		RRTStarConfig{StepSize: 0.5, GoalBias: 0.05, SearchRadius: 1, TimeoutSeconds: 5},
		RRTConnectConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 5},
		PRMConfig{ConnectionRadius: 1, TimeoutSeconds: 5},
	}
}

func TestPlannersSolveDefaultScene(t *testing.T) {
	for _, cfg := range plannerConfigs() {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			problem := defaultProblem(t)
			planner := setupPlanner(t, cfg, problem)

			path, err := planner.Solve(context.Background(), cfg.Timeout())
			require.NoError(t, err)
			assertPathValid(t, problem, path)
		})
	}
}

func TestPlannersReturnEmptyPathOnTimeout(t *testing.T) {
	// A wall spanning the whole world separates start and goal
	scene := DefaultScene()
	scene.Obstacles = append(scene.Obstacles, Obstacle{X: 6, Y: 5, Width: 0.5, Height: 11})

	for _, cfg := range []PlannerConfig{
		RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 0.2},
		RRTStarConfig{StepSize: 0.5, GoalBias: 0.05, SearchRadius: 1, TimeoutSeconds: 0.2},
		RRTConnectConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 0.2},
		PRMConfig{ConnectionRadius: 1, TimeoutSeconds: 0.2},
	} {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			problem, err := scene.NewProblem()
			require.NoError(t, err)
			planner := setupPlanner(t, cfg, problem)

			started := time.Now()
			path, err := planner.Solve(context.Background(), cfg.Timeout())
			require.NoError(t, err)
			assert.NotNil(t, path)
			assert.Empty(t, path)
			assert.Less(t, time.Since(started), 2*time.Second)
		})
	}
}

func TestPlannersRejectInvalidStart(t *testing.T) {
	scene := DefaultScene()
	scene.Start = Point{X: 5, Y: 2}

	for _, cfg := range plannerConfigs() {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			problem, err := scene.NewProblem()
			require.NoError(t, err)
			planner := setupPlanner(t, cfg, problem)

			_, err = planner.Solve(context.Background(), time.Second)
			assert.ErrorIs(t, err, ErrInvalidStart)
		})
	}
}

func TestPlannersStartInsideGoal(t *testing.T) {
	scene := DefaultScene()
	scene.Start = Point{X: 9.1, Y: 5}

	for _, cfg := range plannerConfigs() {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			problem, err := scene.NewProblem()
			require.NoError(t, err)
			planner := setupPlanner(t, cfg, problem)

			path, err := planner.Solve(context.Background(), time.Second)
			require.NoError(t, err)
			assert.Equal(t, Path{scene.Start}, path)
		})
	}
}

func TestSolveBeforeSetup(t *testing.T) {
	for _, cfg := range plannerConfigs() {
		t.Run(string(cfg.Algorithm()), func(t *testing.T) {
			planner, err := NewPlanner(cfg)
			require.NoError(t, err)

			_, err = planner.Solve(context.Background(), time.Second)
			assert.ErrorIs(t, err, ErrNotSetup)
		})
	}
}

func TestPRMSolveRequiresRoadmap(t *testing.T) {
	problem := defaultProblem(t)
	prm := NewPRM(time.Second, 1)
	require.NoError(t, prm.Setup(definitionFor(problem), problem.IsValid))

	_, err := prm.Solve(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrRoadmapNotConstructed)
}

func TestPRMConstructRoadmapRequiresSetup(t *testing.T) {
	assert.ErrorIs(t, NewPRM(time.Second, 1).ConstructRoadmap(context.Background()), ErrNotSetup)
}

func TestPRMRoadmap(t *testing.T) {
	problem := defaultProblem(t)
	prm := NewPRM(5*time.Second, 1)
	require.NoError(t, prm.Setup(definitionFor(problem), problem.IsValid))
	require.NoError(t, prm.ConstructRoadmap(context.Background()))

	nodes, edges := prm.RoadmapSize()
	assert.Equal(t, prmSamples, nodes)
	assert.Positive(t, edges)

	graph := prm.roadmap.ConvertToGraph()
	assert.Len(t, graph.Nodes, nodes)
	assert.Equal(t, edges, graph.EdgeCount())

	for _, node := range prm.roadmap.Nodes {
		assert.True(t, problem.IsValid(node.Point))
		for _, n := range node.Edges {
			assert.LessOrEqual(t, node.Point.Distance(prm.roadmap.Nodes[n].Point), 1.0)
		}
	}

	// Queries leave the roadmap untouched
	_, err := prm.Solve(context.Background(), time.Second)
	require.NoError(t, err)
	after, _ := prm.RoadmapSize()
	assert.Equal(t, nodes, after)
}

func TestPlannerRespectsContextCancellation(t *testing.T) {
	scene := DefaultScene()
	scene.Obstacles = append(scene.Obstacles, Obstacle{X: 6, Y: 5, Width: 0.5, Height: 11})
	problem, err := scene.NewProblem()
	require.NoError(t, err)
	planner := setupPlanner(t, RRTConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 60}, problem)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	started := time.Now()
	path, err := planner.Solve(ctx, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestNewPlannerValidatesParameters(t *testing.T) {
	tests := []struct {
		name string
		cfg  PlannerConfig
	}{
		{"nil", nil},
		{"zero timeout", RRTConfig{StepSize: 0.5, GoalBias: 0.05}},
		{"zero step", RRTConfig{GoalBias: 0.05, TimeoutSeconds: 1}},
		{"bias above one", RRTConnectConfig{StepSize: 0.5, GoalBias: 1.5, TimeoutSeconds: 1}},
		{"negative bias", RRTConfig{StepSize: 0.5, GoalBias: -0.1, TimeoutSeconds: 1}},
		{"missing search radius", RRTStarConfig{StepSize: 0.5, GoalBias: 0.05, TimeoutSeconds: 1}},
		{"missing connection radius", PRMConfig{TimeoutSeconds: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanner(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestNewPlannerSelectsVariant(t *testing.T) {
	for _, cfg := range plannerConfigs() {
		planner, err := NewPlanner(cfg)
		require.NoError(t, err)
		switch cfg.(type) {
		case RRTConfig:
			assert.IsType(t, &RRT{}, planner)
		case RRTStarConfig:
			assert.IsType(t, &RRTStar{}, planner)
		case RRTConnectConfig:
			assert.IsType(t, &RRTConnect{}, planner)
		case PRMConfig:
			assert.IsType(t, &PRMPlanner{}, planner)
		}
	}
}

func TestRRTStarRewiringKeepsCostsConsistent(t *testing.T) {
	costs := []float64{0, 1, 2, 3}
	children := [][]int{{1}, {2}, {3}, nil}
	propagateCost(costs, children, 1, -0.5)
	assert.Equal(t, []float64{0, 0.5, 1.5, 2.5}, costs)

	assert.Equal(t, []int{1, 3}, removeChild([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 3}, removeChild([]int{1, 3}, 7))
}
