package main

import (
	"github.com/dhconnelly/rtreego"
)

// broadPhaseTolerance pads point queries so that points on an obstacle edge
// still reach the exact containment check.
const broadPhaseTolerance = 1e-9

// ObstacleEntry wraps an obstacle for R-tree storage
type ObstacleEntry struct {
	Obstacle Obstacle
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (o *ObstacleEntry) Bounds() rtreego.Rect {
	return o.BBox
}

// SpatialIndex manages obstacle spatial queries
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex creates a new spatial index
func NewSpatialIndex(obstacles []Obstacle) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obstacle := range obstacles {
		bbox, err := obstacleRect(obstacle)
		if err == nil {
			tree.Insert(&ObstacleEntry{Obstacle: obstacle, BBox: bbox})
		}
	}

	return &SpatialIndex{tree: tree}
}

// QueryPoint returns the obstacles whose bounding boxes may contain p
func (si *SpatialIndex) QueryPoint(p Point) []Obstacle {
	results := si.tree.SearchIntersect(pointRect(p, broadPhaseTolerance))
	if len(results) == 0 {
		return nil
	}

	obstacles := make([]Obstacle, 0, len(results))
	for _, item := range results {
		obstacles = append(obstacles, item.(*ObstacleEntry).Obstacle)
	}
	return obstacles
}

func obstacleRect(o Obstacle) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{o.X - o.Width/2, o.Y - o.Height/2},
		[]float64{o.Width, o.Height},
	)
}

// pointRect returns a square of side 2*tol centered on p
func pointRect(p Point, tol float64) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{p.X - tol, p.Y - tol},
		[]float64{2 * tol, 2 * tol},
	)
	return rect
}

// vertex is a planner tree or roadmap node stored in a pointIndex
type vertex struct {
	id    int
	point Point
}

func (v *vertex) Bounds() rtreego.Rect {
	return pointRect(v.point, broadPhaseTolerance)
}

// pointIndex answers nearest and radius queries over planner nodes
type pointIndex struct {
	tree *rtreego.Rtree
}

func newPointIndex() *pointIndex {
	return &pointIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func (pi *pointIndex) Insert(id int, p Point) {
	pi.tree.Insert(&vertex{id: id, point: p})
}

func (pi *pointIndex) Size() int {
	return pi.tree.Size()
}

// Nearest returns the id of the node closest to p, or -1 if the index is empty
func (pi *pointIndex) Nearest(p Point) int {
	item := pi.tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if item == nil {
		return -1
	}
	return item.(*vertex).id
}

// Within returns the ids of nodes no farther than radius from p
func (pi *pointIndex) Within(p Point, radius float64) []int {
	results := pi.tree.SearchIntersect(pointRect(p, max(radius, broadPhaseTolerance)))

	ids := make([]int, 0, len(results))
	for _, item := range results {
		v := item.(*vertex)
		if v.point.Distance(p) <= radius {
			ids = append(ids, v.id)
		}
	}
	return ids
}
