package geometry

import "math"

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains checks if a point is within the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() &&
		p.Y >= r.Y && p.Y <= r.Bottom()
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// XRefs returns the near edge, center and far edge on the x axis.
func (r Rect) XRefs() [3]float64 {
	return [3]float64{r.X, r.X + r.Width/2, r.Right()}
}

// YRefs returns the near edge, center and far edge on the y axis.
func (r Rect) YRefs() [3]float64 {
	return [3]float64{r.Y, r.Y + r.Height/2, r.Bottom()}
}

// OverlapsX reports whether the x extents of a and b touch or overlap.
func OverlapsX(a, b Rect) bool {
	return !(a.Right() < b.X || b.Right() < a.X)
}

// OverlapsY reports whether the y extents of a and b touch or overlap.
func OverlapsY(a, b Rect) bool {
	return !(a.Bottom() < b.Y || b.Bottom() < a.Y)
}

// Overlaps reports whether two rectangles touch or overlap.
func Overlaps(a, b Rect) bool {
	return OverlapsX(a, b) && OverlapsY(a, b)
}

// Union returns the bounding box of all rects. The zero Rect is returned for no input.
func Union(rects ...Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
