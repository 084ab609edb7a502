package main

import (
	"context"
	"time"
)

// rrtStarMaxIterations caps refinement once the tree has a solution
const rrtStarMaxIterations = 5000

// RRTStar is RRT with choose-parent and rewiring inside searchRadius.
// It keeps refining until the timeout or the iteration cap and returns the
// cheapest branch that reaches the goal.
type RRTStar struct {
	stepSize     float64
	goalBias     float64
	searchRadius float64

	si *spaceInfo
}

// NewRRTStar creates an RRT* planner rewiring within searchRadius
func NewRRTStar(stepSize, goalBias, searchRadius float64) *RRTStar {
	return &RRTStar{stepSize: stepSize, goalBias: goalBias, searchRadius: searchRadius}
}

// Setup binds the planner to a problem and its validity checker
func (p *RRTStar) Setup(problem ProblemDefinition, validity ValidityChecker) error {
	si, err := newSpaceInfo(problem, validity)
	if err != nil {
		return err
	}
	p.si = si
	return nil
}

// Solve refines the tree until the timeout, or the iteration cap once a
// solution exists, and returns the cheapest goal branch.
func (p *RRTStar) Solve(ctx context.Context, timeout time.Duration) (Path, error) {
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
	costs := []float64{0}
	children := [][]int{nil}
	var goalNodes []int

	for iter := 0; ctx.Err() == nil; iter++ {
		if len(goalNodes) > 0 && iter >= rrtStarMaxIterations {
			break
		}

		target := p.si.sample(p.goalBias)
		nearest := t.nearest(target)
		next := t.points[nearest].Steer(target, p.stepSize)
		if !p.si.checkMotion(t.points[nearest], next) {
			continue
		}

		// Choose the cheapest collision free parent in the neighborhood
		neighbors := t.index.Within(next, p.searchRadius)
		parent := nearest
		bestCost := costs[nearest] + t.points[nearest].Distance(next)
		for _, n := range neighbors {
			c := costs[n] + t.points[n].Distance(next)
			if c < bestCost && p.si.checkMotion(t.points[n], next) {
				parent, bestCost = n, c
			}
		}

		id := t.add(next, parent)
		costs = append(costs, bestCost)
		children = append(children, nil)
		children[parent] = append(children[parent], id)

		// Rewire neighbors through the new node when that is cheaper
		for _, n := range neighbors {
			if n == parent {
				continue
			}
			c := bestCost + next.Distance(t.points[n])
			if c >= costs[n] || !p.si.checkMotion(next, t.points[n]) {
				continue
			}
			old := t.parents[n]
			children[old] = removeChild(children[old], n)
			t.parents[n] = id
			children[id] = append(children[id], n)
			propagateCost(costs, children, n, c-costs[n])
		}

		if goal.IsSatisfied(next) {
			goalNodes = append(goalNodes, id)
		}
	}

	if len(goalNodes) == 0 {
		return Path{}, nil
	}
	best := goalNodes[0]
	for _, id := range goalNodes[1:] {
		if costs[id] < costs[best] {
			best = id
		}
	}
	return t.branch(best), nil
}

func removeChild(list []int, child int) []int {
	for i, c := range list {
		if c == child {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// propagateCost shifts the cost of n and all its descendants by delta
func propagateCost(costs []float64, children [][]int, n int, delta float64) {
	stack := []int{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		costs[cur] += delta
		stack = append(stack, children[cur]...)
	}
}
