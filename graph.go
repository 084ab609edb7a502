package main

// Graph is a weighted adjacency structure searched by A*
type Graph struct {
	Nodes map[int]Point
	Edges map[int][]Edge
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Distance cost
}

func newGraph() *Graph {
	return &Graph{
		Nodes: make(map[int]Point),
		Edges: make(map[int][]Edge),
	}
}

// Connect adds a bidirectional edge
func (g *Graph) Connect(a, b int) {
	cost := g.Nodes[a].Distance(g.Nodes[b])
	g.Edges[a] = append(g.Edges[a], Edge{To: b, Cost: cost})
	g.Edges[b] = append(g.Edges[b], Edge{To: a, Cost: cost})
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	total := 0
	for _, edges := range g.Edges {
		total += len(edges)
	}
	return total / 2
}
