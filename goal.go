package main

import (
	"math"
	"math/rand/v2"
)

// Goal is the target region handed to a planner
type Goal interface {
	IsSatisfied(p Point) bool
	// Distance is zero inside the region and positive outside it
	Distance(p Point) float64
	// Sample draws a point from inside the region
	Sample() Point
}

// CircularGoal is a disk shaped goal region.
// It owns its random source and is not safe for concurrent Sample calls.
type CircularGoal struct {
	Center Point
	Radius float64

	rng *rand.Rand
}

// NewCircularGoal creates a disk goal seeded independently of any planner.
func NewCircularGoal(center Point, radius float64) *CircularGoal {
	return NewCircularGoalWithSource(center, radius, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewCircularGoalWithSource creates a disk goal drawing from src.
func NewCircularGoalWithSource(center Point, radius float64, src rand.Source) *CircularGoal {
	return &CircularGoal{Center: center, Radius: radius, rng: rand.New(src)}
}

// IsSatisfied is true inside the disk, boundary included
func (g *CircularGoal) IsSatisfied(p Point) bool {
	return p.Distance(g.Center) <= g.Radius
}

// Distance is the gap from p to the disk edge, zero inside
func (g *CircularGoal) Distance(p Point) float64 {
	return math.Max(0, p.Distance(g.Center)-g.Radius)
}

// Sample is area-uniform: the radius is R*sqrt(u), not R*u.
func (g *CircularGoal) Sample() Point {
	angle := g.rng.Float64() * 2 * math.Pi
	r := g.Radius * math.Sqrt(g.rng.Float64())
	return Point{
		X: g.Center.X + r*math.Cos(angle),
		Y: g.Center.Y + r*math.Sin(angle),
	}
}
