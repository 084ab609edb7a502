package main

import (
	"container/heap"
	"context"
)

// Node represents a node in the A* search over a roadmap
type Node struct {
	NodeID int     // ID of the node in the graph
	G      float64 // Cost from start to this node
	H      float64 // Heuristic cost from this node to the goal
	F      float64 // Total cost (G + H)
	Parent *Node
	Index  int // Index in the heap
}

// PriorityQueue implements heap.Interface for A* algorithm
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].F < pq[j].F
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*Node)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// AStarPathOnGraph computes the cheapest path from startIdx to any node for
// which isGoal holds. heuristic must not overestimate the remaining cost.
// It stops early with ctx.Err() when ctx is done.
func AStarPathOnGraph(
	ctx context.Context,
	graph *Graph,
	startIdx int,
	isGoal func(id int) bool,
	heuristic func(p Point) float64,
) (Path, error) {
	if graph == nil || len(graph.Nodes) == 0 {
		return Path{}, nil
	}
	if _, ok := graph.Nodes[startIdx]; !ok {
		return Path{}, nil
	}

	openSet := &PriorityQueue{}
	heap.Init(openSet)

	h := heuristic(graph.Nodes[startIdx])
	startNode := &Node{NodeID: startIdx, G: 0, H: h, F: h}
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := map[int]*Node{startIdx: startNode}

	for openSet.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Path{}, err
		}

		current := heap.Pop(openSet).(*Node)
		delete(openSetMap, current.NodeID)

		if isGoal(current.NodeID) {
			path := Path{}
			for node := current; node != nil; node = node.Parent {
				path = append(path, graph.Nodes[node.NodeID])
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}

		closedSet[current.NodeID] = true

		for _, edge := range graph.Edges[current.NodeID] {
			neighborID := edge.To
			if closedSet[neighborID] {
				continue
			}

			tentativeG := current.G + edge.Cost

			neighbor, exists := openSetMap[neighborID]
			if !exists {
				neighbor = &Node{
					NodeID: neighborID,
					G:      tentativeG,
					H:      heuristic(graph.Nodes[neighborID]),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				heap.Push(openSet, neighbor)
				openSetMap[neighborID] = neighbor
			} else if tentativeG < neighbor.G {
				neighbor.G = tentativeG
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	// No path found
	return Path{}, nil
}
