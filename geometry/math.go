// Package geometry holds the float geometry shared by the model, router and snap engine.
package geometry

import "math"

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IsHorizontal returns true if the direction vector has a horizontal component.
func IsHorizontal(dir Point) bool {
	return dir.X != 0
}

// IsVertical returns true if the direction vector has a vertical component.
func IsVertical(dir Point) bool {
	return dir.Y != 0
}

// Cross returns the z component of the cross product of (b-a) and (c-b).
func Cross(a, b, c Point) float64 {
	dx1, dy1 := b.X-a.X, b.Y-a.Y
	dx2, dy2 := c.X-b.X, c.Y-b.Y
	return dx1*dy2 - dy1*dx2
}

// SnapToGrid rounds value to the nearest multiple of gridSize.
// A non-positive grid size leaves the value untouched.
func SnapToGrid(value, gridSize float64) float64 {
	if gridSize <= 0 {
		return value
	}
	return math.Round(value/gridSize) * gridSize
}

// OnGrid reports whether value lies on a grid line (within half a unit).
func OnGrid(value, gridSize float64) bool {
	if gridSize <= 0 {
		return false
	}
	return math.Abs(value-SnapToGrid(value, gridSize)) < 0.5
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
