package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/paulmach/orb"
)

// WorldSpace is the square [0, Size] x [0, Size]
type WorldSpace struct {
	Size float64 `json:"size" yaml:"size"`
}

// Bound returns the world extent as an inclusive bound
func (w WorldSpace) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{w.Size, w.Size}}
}

// Contains reports whether p lies inside the world, boundary included
func (w WorldSpace) Contains(p Point) bool {
	return w.Bound().Contains(p.orb())
}

// SampleUniform draws a point uniformly from the world
func (w WorldSpace) SampleUniform(rng *rand.Rand) Point {
	return Point{X: rng.Float64() * w.Size, Y: rng.Float64() * w.Size}
}

// Obstacle is an axis-aligned rectangle given by its center and size
type Obstacle struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Bound returns the obstacle rectangle. Contains on it is boundary inclusive,
// so touching an obstacle counts as a collision.
func (o Obstacle) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{o.X - o.Width/2, o.Y - o.Height/2},
		Max: orb.Point{o.X + o.Width/2, o.Y + o.Height/2},
	}
}

// Contains reports whether p collides with the obstacle
func (o Obstacle) Contains(p Point) bool {
	return o.Bound().Contains(p.orb())
}

func (o Obstacle) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("obstacle at (%.2f, %.2f): width and height must be positive, got %.2f x %.2f",
			o.X, o.Y, o.Width, o.Height)
	}
	return nil
}

// Problem is the immutable description of one planning query.
// Build it with NewProblem; a literal has no obstacle index and IsValid falls
// back to checking every obstacle.
type Problem struct {
	World     WorldSpace
	Start     Point
	Goal      Goal
	Obstacles []Obstacle

	index *SpatialIndex
}

// NewProblem builds a problem and indexes its obstacles. The start point is
// not checked here; planners reject an invalid start when solving.
func NewProblem(world WorldSpace, start Point, goal Goal, obstacles []Obstacle) (*Problem, error) {
	if world.Size <= 0 {
		return nil, fmt.Errorf("world size must be positive, got %.2f", world.Size)
	}
	if goal == nil {
		return nil, fmt.Errorf("goal is required")
	}
	for _, o := range obstacles {
		if err := o.validate(); err != nil {
			return nil, err
		}
	}

	owned := make([]Obstacle, len(obstacles))
	copy(owned, obstacles)

	return &Problem{
		World:     world,
		Start:     start,
		Goal:      goal,
		Obstacles: owned,
		index:     NewSpatialIndex(owned),
	}, nil
}

// IsValid reports whether p is inside the world and outside every obstacle
func (pr *Problem) IsValid(p Point) bool {
	if !pr.World.Contains(p) {
		return false
	}
	candidates := pr.Obstacles
	if pr.index != nil {
		candidates = pr.index.QueryPoint(p)
	}
	for _, o := range candidates {
		if o.Contains(p) {
			return false
		}
	}
	return true
}
