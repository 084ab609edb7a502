package main

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a state in the 2D planning space
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.orb(), other.orb())
}

// Lerp returns the point a fraction t of the way from p to other
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
	}
}

// Steer moves from p toward target by at most maxDistance
func (p Point) Steer(target Point, maxDistance float64) Point {
	d := p.Distance(target)
	if d <= maxDistance || d == 0 {
		return target
	}
	return p.Lerp(target, maxDistance/d)
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Path is an ordered sequence of waypoints from start toward goal.
// An empty path means no solution was produced.
type Path []Point

// Length sums the segment lengths of the path
func (p Path) Length() float64 {
	var total float64
	for i := 0; i < len(p)-1; i++ {
		total += p[i].Distance(p[i+1])
	}
	return total
}

// MarshalJSON encodes the path as a list of [x, y] pairs.
func (p Path) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(p))
	for i, pt := range p {
		pairs[i] = [2]float64{pt.X, pt.Y}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes a list of [x, y] pairs.
func (p *Path) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("failed to decode path: %w", err)
	}
	path := make(Path, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return fmt.Errorf("waypoint %d: expected [x, y], got %d values", i, len(pair))
		}
		path = append(path, Point{X: pair[0], Y: pair[1]})
	}
	*p = path
	return nil
}
