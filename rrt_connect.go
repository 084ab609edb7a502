package main

import (
	"context"
	"time"
)

type extendStatus int

const (
	trapped extendStatus = iota
	advanced
	reached
)

// RRTConnect grows a tree from the start and a tree from goal samples and
// tries to join them after every extension.
type RRTConnect struct {
	stepSize float64
	goalBias float64

	si *spaceInfo
}

// NewRRTConnect creates a bidirectional RRT planner
func NewRRTConnect(stepSize, goalBias float64) *RRTConnect {
	return &RRTConnect{stepSize: stepSize, goalBias: goalBias}
}

// Setup binds the planner to a problem and its validity checker
func (p *RRTConnect) Setup(problem ProblemDefinition, validity ValidityChecker) error {
	si, err := newSpaceInfo(problem, validity)
	if err != nil {
		return err
	}
	p.si = si
	return nil
}

// Solve alternates extending one tree and connecting the other until they meet
func (p *RRTConnect) Solve(ctx context.Context, timeout time.Duration) (Path, error) {
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

	startTree := newTree(start)
	var goalTree *tree
	for goalTree == nil {
		if ctx.Err() != nil {
			return Path{}, nil
		}
		if root, ok := p.si.sampleValidGoal(); ok {
			goalTree = newTree(root)
		}
	}

	// The goal tree is a forest of goal samples joined under virtual roots,
	// so extra roots get parent -1.
	a, b := startTree, goalTree
	for ctx.Err() == nil {
		if p.goalBias > 0 && p.si.rng.Float64() < p.goalBias {
			if root, ok := p.si.sampleValidGoal(); ok {
				goalTree.add(root, -1)
			}
		}

		target := p.si.problem.Space.SampleUniform(p.si.rng)
		status, newID := p.extend(a, target)
		if status != trapped {
			if p.connect(b, a.points[newID]) == reached {
				return p.join(startTree, goalTree, a == startTree, newID), nil
			}
		}
		a, b = b, a
	}

	return Path{}, nil
}

// extend grows t one step toward target
func (p *RRTConnect) extend(t *tree, target Point) (extendStatus, int) {
	nearest := t.nearest(target)
	next := t.points[nearest].Steer(target, p.stepSize)
	if !p.si.checkMotion(t.points[nearest], next) {
		return trapped, -1
	}
	id := t.add(next, nearest)
	if next == target {
		return reached, id
	}
	return advanced, id
}

// connect extends t toward target until it is reached or blocked
func (p *RRTConnect) connect(t *tree, target Point) extendStatus {
	for {
		status, _ := p.extend(t, target)
		if status != advanced {
			return status
		}
	}
}

// join stitches the two branches meeting at the last added nodes.
// When the start tree was extended, newID is in it and the goal tree's last
// node equals that point; otherwise the roles are swapped.
func (p *RRTConnect) join(startTree, goalTree *tree, extendedStart bool, newID int) Path {
	var startBranch, goalBranch Path
	if extendedStart {
		startBranch = startTree.branch(newID)
		goalBranch = goalTree.branch(len(goalTree.points) - 1)
	} else {
		startBranch = startTree.branch(len(startTree.points) - 1)
		goalBranch = goalTree.branch(newID)
	}

	// goalBranch runs root -> meeting point; walk it backwards and skip the
	// meeting point already ending startBranch.
	path := make(Path, 0, len(startBranch)+len(goalBranch)-1)
	path = append(path, startBranch...)
	for i := len(goalBranch) - 2; i >= 0; i-- {
		path = append(path, goalBranch[i])
	}
	return path
}
