package main

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
)

// Colors shared by the renderer and the legend
const (
	colorBackground = "#f0f0f0"
	colorGrid       = "#ddd"
	colorObstacle   = "#333"
	colorGoal       = "#4CAF50"
	colorStart      = "#2196F3"
	colorPath       = "#FF5722"
)

const (
	startMarkerRadius    = 8
	waypointMarkerRadius = 4
	pathLineWidth        = 3
	goalLineWidth        = 2
	goalFillAlpha        = 0.3
)

// Transform maps world coordinates (y up) to canvas pixels (y down)
type Transform struct {
	WorldSize  float64
	CanvasSize int
}

// Scale is pixels per world unit
func (t Transform) Scale() float64 {
	return float64(t.CanvasSize) / t.WorldSize
}

// ToScreen converts a world point to canvas coordinates
func (t Transform) ToScreen(p Point) (x, y float64) {
	s := t.Scale()
	return p.X * s, (t.WorldSize - p.Y) * s
}

// ToWorld is the inverse of ToScreen
func (t Transform) ToWorld(x, y float64) Point {
	s := t.Scale()
	return Point{X: x / s, Y: t.WorldSize - y/s}
}

// Renderer draws the static scene plus a path. It holds no mutable state, so
// the same path always produces the same pixels.
type Renderer struct {
	scene     Scene
	transform Transform
}

// NewRenderer creates a renderer for scene on a square canvas of canvasSize pixels
func NewRenderer(scene Scene, canvasSize int) *Renderer {
	return &Renderer{
		scene:     scene,
		transform: Transform{WorldSize: scene.WorldSize, CanvasSize: canvasSize},
	}
}

// Transform returns the world to canvas mapping used for every frame
func (r *Renderer) Transform() Transform {
	return r.transform
}

// Render redraws the whole frame, back to front: grid, obstacles, goal,
// start, path polyline, waypoint markers. An empty path skips the last two.
func (r *Renderer) Render(path Path) image.Image {
	return r.draw(path).Image()
}

// EncodePNG renders path and writes the frame as PNG
func (r *Renderer) EncodePNG(w io.Writer, path Path) error {
	return r.draw(path).EncodePNG(w)
}

// RenderPNG returns the encoded frame for path
func (r *Renderer) RenderPNG(path Path) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf, path); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(path Path) *gg.Context {
	size := r.transform.CanvasSize
	dc := gg.NewContext(size, size)

	r.drawGrid(dc)
	r.drawObstacles(dc)
	r.drawGoal(dc)
	r.drawStart(dc)
	r.drawPath(dc, path)

	return dc
}

func (r *Renderer) drawGrid(dc *gg.Context) {
	size := float64(r.transform.CanvasSize)
	scale := r.transform.Scale()

	dc.SetHexColor(colorBackground)
	dc.Clear()

	dc.SetHexColor(colorGrid)
	dc.SetLineWidth(1)
	lines := int(math.Floor(r.transform.WorldSize))
	for i := 0; i <= lines; i++ {
		pos := float64(i) * scale
		dc.DrawLine(pos, 0, pos, size)
		dc.DrawLine(0, pos, size, pos)
	}
	dc.Stroke()
}

func (r *Renderer) drawObstacles(dc *gg.Context) {
	scale := r.transform.Scale()
	dc.SetHexColor(colorObstacle)
	for _, o := range r.scene.Obstacles {
		x, y := r.transform.ToScreen(Point{X: o.X - o.Width/2, Y: o.Y + o.Height/2})
		dc.DrawRectangle(x, y, o.Width*scale, o.Height*scale)
	}
	dc.Fill()
}

func (r *Renderer) drawGoal(dc *gg.Context) {
	x, y := r.transform.ToScreen(r.scene.Goal.Center)
	dc.DrawCircle(x, y, r.scene.Goal.Radius*r.transform.Scale())
	dc.SetRGBA(76.0/255, 175.0/255, 80.0/255, goalFillAlpha)
	dc.FillPreserve()
	dc.SetHexColor(colorGoal)
	dc.SetLineWidth(goalLineWidth)
	dc.Stroke()
}

func (r *Renderer) drawStart(dc *gg.Context) {
	x, y := r.transform.ToScreen(r.scene.Start)
	dc.SetHexColor(colorStart)
	dc.DrawCircle(x, y, startMarkerRadius)
	dc.Fill()
}

func (r *Renderer) drawPath(dc *gg.Context, path Path) {
	if len(path) == 0 {
		return
	}

	dc.SetHexColor(colorPath)
	dc.SetLineWidth(pathLineWidth)
	for i, p := range path {
		x, y := r.transform.ToScreen(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for _, p := range path {
		x, y := r.transform.ToScreen(p)
		dc.DrawCircle(x, y, waypointMarkerRadius)
		dc.Fill()
	}
}
