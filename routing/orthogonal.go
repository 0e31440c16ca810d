package routing

import (
	"math"

	"flowcraft/geometry"
)

// Strategy identifies which orthogonal construction produced a route.
type Strategy int

const (
	// StrategyL bends once: one port faces horizontally, the other vertically.
	StrategyL Strategy = iota
	// StrategyZ bends twice through the midway line: both ports face the same axis.
	StrategyZ
	// StrategyFallback bridges incompatible directions through the midpoint on the source axis.
	StrategyFallback
)

// String returns a string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyL:
		return "L"
	case StrategyZ:
		return "Z"
	case StrategyFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// CollinearEpsilon is the cross product magnitude below which three points count as collinear.
const CollinearEpsilon = 0.01

// endpoint is a resolved connector end: world position and outward unit direction.
type endpoint struct {
	pos geometry.Point
	dir geometry.Point
}

// extend moves the endpoint outward by the clearance distance.
func (e endpoint) extend(clearance float64) geometry.Point {
	return e.pos.Add(e.dir.Scale(clearance))
}

// orthogonal builds an axis-aligned route, trying L, then Z, then the fallback.
func orthogonal(src, dst endpoint, clearance float64) ([]geometry.Point, Strategy) {
	ext1 := src.extend(clearance)
	ext2 := dst.extend(clearance)

	if pts, ok := lRoute(src, dst, ext1, ext2); ok {
		return Simplify(pts), StrategyL
	}
	if pts, ok := zRoute(src, dst, ext1, ext2); ok {
		return Simplify(pts), StrategyZ
	}
	return Simplify(fallbackRoute(src, dst, ext1, ext2)), StrategyFallback
}

// lRoute joins the extended points with a single corner.
func lRoute(src, dst endpoint, ext1, ext2 geometry.Point) ([]geometry.Point, bool) {
	switch {
	case geometry.IsHorizontal(src.dir) && geometry.IsVertical(dst.dir):
		corner := geometry.Point{X: ext2.X, Y: ext1.Y}
		return []geometry.Point{src.pos, ext1, corner, ext2, dst.pos}, true
	case geometry.IsVertical(src.dir) && geometry.IsHorizontal(dst.dir):
		corner := geometry.Point{X: ext1.X, Y: ext2.Y}
		return []geometry.Point{src.pos, ext1, corner, ext2, dst.pos}, true
	}
	return nil, false
}

// zRoute goes out, across at the midway coordinate, and in.
func zRoute(src, dst endpoint, ext1, ext2 geometry.Point) ([]geometry.Point, bool) {
	switch {
	case geometry.IsHorizontal(src.dir) && geometry.IsHorizontal(dst.dir):
		midX := (ext1.X + ext2.X) / 2
		return []geometry.Point{
			src.pos, ext1,
			{X: midX, Y: ext1.Y},
			{X: midX, Y: ext2.Y},
			ext2, dst.pos,
		}, true
	case geometry.IsVertical(src.dir) && geometry.IsVertical(dst.dir):
		midY := (ext1.Y + ext2.Y) / 2
		return []geometry.Point{
			src.pos, ext1,
			{X: ext1.X, Y: midY},
			{X: ext2.X, Y: midY},
			ext2, dst.pos,
		}, true
	}
	return nil, false
}

// fallbackRoute splits on the axis of the source direction.
func fallbackRoute(src, dst endpoint, ext1, ext2 geometry.Point) []geometry.Point {
	if geometry.IsHorizontal(src.dir) {
		midX := (ext1.X + ext2.X) / 2
		return []geometry.Point{
			src.pos, ext1,
			{X: midX, Y: ext1.Y},
			{X: midX, Y: ext2.Y},
			ext2, dst.pos,
		}
	}
	midY := (ext1.Y + ext2.Y) / 2
	return []geometry.Point{
		src.pos, ext1,
		{X: ext1.X, Y: midY},
		{X: ext2.X, Y: midY},
		ext2, dst.pos,
	}
}

// Simplify drops interior points that do not turn the path. A point is kept
// only when the cross product of the vectors from the previous kept point and
// to the next point exceeds CollinearEpsilon. Passes repeat until nothing is
// dropped, so no three consecutive output points are collinear.
func Simplify(points []geometry.Point) []geometry.Point {
	out := simplifyPass(points)
	for len(out) < len(points) {
		points = out
		out = simplifyPass(points)
	}
	return out
}

func simplifyPass(points []geometry.Point) []geometry.Point {
	if len(points) < 3 {
		out := make([]geometry.Point, len(points))
		copy(out, points)
		return out
	}
	out := make([]geometry.Point, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points)-1; i++ {
		prev := out[len(out)-1]
		if math.Abs(geometry.Cross(prev, points[i], points[i+1])) > CollinearEpsilon {
			out = append(out, points[i])
		}
	}
	return append(out, points[len(points)-1])
}
