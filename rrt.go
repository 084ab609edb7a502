package main

import (
	"context"
	"time"
)

// RRT grows a single tree from the start until a node lands in the goal
type RRT struct {
	stepSize float64
	goalBias float64

	si *spaceInfo
}

// NewRRT creates an RRT planner extending by at most stepSize per step
func NewRRT(stepSize, goalBias float64) *RRT {
	return &RRT{stepSize: stepSize, goalBias: goalBias}
}

// Setup binds the planner to a problem and its validity checker
func (p *RRT) Setup(problem ProblemDefinition, validity ValidityChecker) error {
	si, err := newSpaceInfo(problem, validity)
	if err != nil {
		return err
	}
	p.si = si
	return nil
}

// Solve grows the tree until a node satisfies the goal or the timeout elapses
func (p *RRT) Solve(ctx context.Context, timeout time.Duration) (Path, error) {
	if p.si == nil {
		return nil, ErrNotSetup
	}
	start := p.si.problem.Start
	if !p.si.validity(start) {
		return nil, ErrInvalidStart
	}
	goal := p.si.problem.Goal
	if goal.IsSatisfied(start) {
		return Path{start}, nil
	}

	ctx, cancel := deadline(ctx, timeout)
	defer cancel()

	t := newTree(start)
	for ctx.Err() == nil {
		target := p.si.sample(p.goalBias)
		nearest := t.nearest(target)
		next := t.points[nearest].Steer(target, p.stepSize)
		if !p.si.checkMotion(t.points[nearest], next) {
			continue
		}

		id := t.add(next, nearest)
		if goal.IsSatisfied(next) {
			return t.branch(id), nil
		}
	}

	return Path{}, nil
}
