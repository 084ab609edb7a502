package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var (
	// ErrNotSetup is returned by Solve when Setup was not called first.
	ErrNotSetup = errors.New("planner is not set up")
	// ErrRoadmapNotConstructed is returned by PRM Solve before ConstructRoadmap.
	ErrRoadmapNotConstructed = errors.New("roadmap has not been constructed")
	// ErrInvalidStart is returned when the start state collides or is out of bounds.
	ErrInvalidStart = errors.New("start state is not valid")
	// ErrInvalidParameter marks a configuration value the planner cannot run with.
	ErrInvalidParameter = errors.New("invalid planner parameter")
)

// ValidityChecker reports whether a state is collision free and in bounds
type ValidityChecker func(p Point) bool

// ProblemDefinition is what a planner is set up with
type ProblemDefinition struct {
	Space WorldSpace
	Start Point
	Goal  Goal
}

// Planner is the planning capability. Setup must precede Solve.
type Planner interface {
	Setup(problem ProblemDefinition, validity ValidityChecker) error
	// Solve returns an empty path when the timeout elapses without a solution.
	Solve(ctx context.Context, timeout time.Duration) (Path, error)
}

// NewPlanner builds a fully parameterized planner for cfg.
func NewPlanner(cfg PlannerConfig) (Planner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing configuration", ErrInvalidParameter)
	}
	if cfg.Timeout() <= 0 {
		return nil, fmt.Errorf("%w: timeoutSeconds must be positive, got %v", ErrInvalidParameter, cfg.Timeout().Seconds())
	}

	switch c := cfg.(type) {
	case RRTConfig:
		if err := checkTreeParams(c.StepSize, c.GoalBias); err != nil {
			return nil, err
		}
		return NewRRT(c.StepSize, c.GoalBias), nil
	case RRTStarConfig:
		if err := checkTreeParams(c.StepSize, c.GoalBias); err != nil {
			return nil, err
		}
		if err := checkPositive("searchRadius", c.SearchRadius); err != nil {
			return nil, err
		}
		return NewRRTStar(c.StepSize, c.GoalBias, c.SearchRadius), nil
	case RRTConnectConfig:
		if err := checkTreeParams(c.StepSize, c.GoalBias); err != nil {
			return nil, err
		}
		return NewRRTConnect(c.StepSize, c.GoalBias), nil
	case PRMConfig:
		if err := checkPositive("connectionRadius", c.ConnectionRadius); err != nil {
			return nil, err
		}
		return NewPRM(c.Timeout(), c.ConnectionRadius), nil
	default:
		return nil, fmt.Errorf("%w: unsupported configuration %T", ErrInvalidParameter, cfg)
	}
}

func checkTreeParams(stepSize, goalBias float64) error {
	if err := checkPositive("stepSize", stepSize); err != nil {
		return err
	}
	if math.IsNaN(goalBias) || goalBias < 0 || goalBias > 1 {
		return fmt.Errorf("%w: goalBias must be within [0, 1], got %v", ErrInvalidParameter, goalBias)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// motionResolutionFraction is the interpolation step for edge checks,
// as a fraction of the world extent.
const motionResolutionFraction = 0.005

// spaceInfo bundles what every planner needs after Setup
type spaceInfo struct {
	problem    ProblemDefinition
	validity   ValidityChecker
	resolution float64
	rng        *rand.Rand
}

func newSpaceInfo(problem ProblemDefinition, validity ValidityChecker) (*spaceInfo, error) {
	if validity == nil {
		return nil, fmt.Errorf("validity checker is required")
	}
	if problem.Goal == nil {
		return nil, fmt.Errorf("goal is required")
	}
	if problem.Space.Size <= 0 {
		return nil, fmt.Errorf("state space size must be positive, got %v", problem.Space.Size)
	}
	return &spaceInfo{
		problem:    problem,
		validity:   validity,
		resolution: problem.Space.Size * motionResolutionFraction,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}, nil
}

// checkMotion reports whether every interpolated state between a and b is valid
func (si *spaceInfo) checkMotion(a, b Point) bool {
	if !si.validity(b) {
		return false
	}
	steps := int(math.Ceil(a.Distance(b) / si.resolution))
	for i := 1; i < steps; i++ {
		if !si.validity(a.Lerp(b, float64(i)/float64(steps))) {
			return false
		}
	}
	return true
}

// sample draws from the goal with probability goalBias, otherwise uniformly
func (si *spaceInfo) sample(goalBias float64) Point {
	if goalBias > 0 && si.rng.Float64() < goalBias {
		return si.problem.Goal.Sample()
	}
	return si.problem.Space.SampleUniform(si.rng)
}

// sampleValidGoal tries a bounded number of goal samples for a valid one
func (si *spaceInfo) sampleValidGoal() (Point, bool) {
	for i := 0; i < 100; i++ {
		p := si.problem.Goal.Sample()
		if si.validity(p) {
			return p, true
		}
	}
	return Point{}, false
}

// deadline combines the solve timeout with ctx
func deadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// tree is the shared structure of the tree-growth planners
type tree struct {
	points  []Point
	parents []int
	index   *pointIndex
}

func newTree(root Point) *tree {
	t := &tree{index: newPointIndex()}
	t.add(root, -1)
	return t
}

func (t *tree) add(p Point, parent int) int {
	id := len(t.points)
	t.points = append(t.points, p)
	t.parents = append(t.parents, parent)
	t.index.Insert(id, p)
	return id
}

func (t *tree) nearest(p Point) int {
	return t.index.Nearest(p)
}

// branch returns the path from the root to id
func (t *tree) branch(id int) Path {
	path := Path{}
	for n := id; n >= 0; n = t.parents[n] {
		path = append(path, t.points[n])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
