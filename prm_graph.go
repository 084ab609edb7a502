package main

import (
	"context"
	"time"
)

const (
	// prmSamples is the roadmap size PRM aims for
	prmSamples = 500
	// prmGoalSamples is how many goal states a query attaches to the roadmap
	prmGoalSamples = 10
)

// PRMNode represents a node in the probabilistic roadmap
type PRMNode struct {
	ID    int
	Point Point
	Edges []int // IDs of connected nodes
}

// PRMGraph represents a pre-computed probabilistic roadmap
type PRMGraph struct {
	Nodes            []PRMNode
	NumSamples       int
	ConnectionRadius float64
}

// PRMPlanner builds a roadmap once and answers queries on it with A*.
// ConstructRoadmap must run between Setup and Solve.
type PRMPlanner struct {
	buildTimeout     time.Duration
	connectionRadius float64

	si      *spaceInfo
	roadmap *PRMGraph
	index   *pointIndex
}

// NewPRM creates a PRM planner whose roadmap construction stops after
// buildTimeout and links nodes no farther apart than connectionRadius.
func NewPRM(buildTimeout time.Duration, connectionRadius float64) *PRMPlanner {
	return &PRMPlanner{buildTimeout: buildTimeout, connectionRadius: connectionRadius}
}

// Setup binds the planner to a problem and discards any previous roadmap
func (p *PRMPlanner) Setup(problem ProblemDefinition, validity ValidityChecker) error {
	si, err := newSpaceInfo(problem, validity)
	if err != nil {
		return err
	}
	p.si = si
	p.roadmap = nil
	p.index = nil
	return nil
}

// ConstructRoadmap samples valid states and connects pairs within the
// connection radius whose straight motion is valid. Sampling stops at
// prmSamples nodes, after 10x as many attempts, or when the build timeout
// elapses.
func (p *PRMPlanner) ConstructRoadmap(ctx context.Context) error {
	if p.si == nil {
		return ErrNotSetup
	}

	ctx, cancel := deadline(ctx, p.buildTimeout)
	defer cancel()

	graph := &PRMGraph{
		Nodes:            make([]PRMNode, 0, prmSamples),
		NumSamples:       prmSamples,
		ConnectionRadius: p.connectionRadius,
	}
	index := newPointIndex()

	// Step 1: Random sampling within the world, keeping valid states only
	attempts := 0
	maxAttempts := prmSamples * 10
	for len(graph.Nodes) < prmSamples && attempts < maxAttempts && ctx.Err() == nil {
		attempts++
		point := p.si.problem.Space.SampleUniform(p.si.rng)
		if !p.si.validity(point) {
			continue
		}
		id := len(graph.Nodes)
		graph.Nodes = append(graph.Nodes, PRMNode{ID: id, Point: point, Edges: make([]int, 0)})
		index.Insert(id, point)
	}

	// Step 2: Connect nearby nodes (only if the motion between them is valid)
	for i := range graph.Nodes {
		if ctx.Err() != nil {
			break
		}
		for _, j := range index.Within(graph.Nodes[i].Point, p.connectionRadius) {
			if j <= i {
				continue
			}
			if p.si.checkMotion(graph.Nodes[i].Point, graph.Nodes[j].Point) {
				graph.Nodes[i].Edges = append(graph.Nodes[i].Edges, j)
				graph.Nodes[j].Edges = append(graph.Nodes[j].Edges, i)
			}
		}
	}

	p.roadmap = graph
	p.index = index
	return nil
}

// RoadmapSize returns the node and edge counts of the constructed roadmap
func (p *PRMPlanner) RoadmapSize() (nodes, edges int) {
	if p.roadmap == nil {
		return 0, 0
	}
	for _, node := range p.roadmap.Nodes {
		edges += len(node.Edges)
	}
	return len(p.roadmap.Nodes), edges / 2
}

// Solve queries the roadmap with A* from the start to any goal-satisfying node.
// It fails with ErrRoadmapNotConstructed if ConstructRoadmap has not run.
func (p *PRMPlanner) Solve(ctx context.Context, timeout time.Duration) (Path, error) {
	if p.si == nil {
		return nil, ErrNotSetup
	}
	if p.roadmap == nil {
		return nil, ErrRoadmapNotConstructed
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

	graph, startID := p.CreateGraphWithStartGoal(start)
	if startID == -1 {
		return Path{}, nil
	}

	path, err := AStarPathOnGraph(ctx, graph, startID,
		func(id int) bool { return goal.IsSatisfied(graph.Nodes[id]) },
		goal.Distance,
	)
	if err != nil {
		// The deadline passing mid-search is a timeout, not a failure
		if ctx.Err() != nil {
			return Path{}, nil
		}
		return nil, err
	}
	return path, nil
}

// CreateGraphWithStartGoal converts the roadmap to a search graph with the
// start state and a handful of goal samples attached. The roadmap itself is
// not modified. Returns -1 as the start ID when the start cannot be connected.
func (p *PRMPlanner) CreateGraphWithStartGoal(start Point) (*Graph, int) {
	graph := p.roadmap.ConvertToGraph()
	next := len(p.roadmap.Nodes)

	attach := func(point Point) (int, bool) {
		id := next
		graph.Nodes[id] = point
		connected := false
		for _, n := range p.index.Within(point, p.connectionRadius) {
			if p.si.checkMotion(point, p.roadmap.Nodes[n].Point) {
				graph.Connect(id, n)
				connected = true
			}
		}
		if !connected {
			delete(graph.Nodes, id)
			return -1, false
		}
		next++
		return id, true
	}

	startID, ok := attach(start)
	if !ok {
		return graph, -1
	}

	for i := 0; i < prmGoalSamples; i++ {
		if sample, ok := p.si.sampleValidGoal(); ok {
			attach(sample)
		}
	}

	return graph, startID
}

// ConvertToGraph converts PRM graph to the Graph structure for A*
func (g *PRMGraph) ConvertToGraph() *Graph {
	graph := newGraph()

	// Add all nodes
	for _, node := range g.Nodes {
		graph.Nodes[node.ID] = node.Point
	}

	// Add all edges
	for _, node := range g.Nodes {
		edges := make([]Edge, 0, len(node.Edges))
		for _, neighborID := range node.Edges {
			neighbor := g.Nodes[neighborID]
			edges = append(edges, Edge{
				To:   neighborID,
				Cost: node.Point.Distance(neighbor.Point),
			})
		}
		graph.Edges[node.ID] = edges
	}

	return graph
}
