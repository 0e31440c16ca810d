package snap

import (
	"math"
	"strings"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

// Handle names the resize handle being dragged: one or two of t, b, l, r.
type Handle string

const (
	HandleTop         Handle = "t"
	HandleBottom      Handle = "b"
	HandleLeft        Handle = "l"
	HandleRight       Handle = "r"
	HandleTopLeft     Handle = "tl"
	HandleTopRight    Handle = "tr"
	HandleBottomLeft  Handle = "bl"
	HandleBottomRight Handle = "br"
)

func (h Handle) has(edge Handle) bool {
	return strings.Contains(string(h), string(edge))
}

// ResizeInput describes one resize tick.
type ResizeInput struct {
	ShapeID    string
	Handle     Handle
	Start      geometry.Rect  // Bounds when the resize began
	Delta      geometry.Point // Pointer movement since the resize began
	SnapToGrid bool
	GridSize   float64
}

// ResizeResult is the outcome of one resize tick.
type ResizeResult struct {
	Bounds geometry.Rect `json:"bounds"`
	Guides []Guide       `json:"guides,omitempty"`
}

// Resize computes new bounds for a resize handle drag. The moving edges are
// grid snapped first, then pulled onto the nearest edge of another shape
// within the threshold. The edges opposite the handle stay put.
func (e *Engine) Resize(m *diagram.Diagram, in ResizeInput) ResizeResult {
	sb := in.Start
	nb := sb

	if in.Handle.has(HandleRight) {
		nb.Width = math.Max(MinSize, sb.Width+in.Delta.X)
	}
	if in.Handle.has(HandleLeft) {
		nb.Width = math.Max(MinSize, sb.Width-in.Delta.X)
		nb.X = sb.Right() - nb.Width
	}
	if in.Handle.has(HandleBottom) {
		nb.Height = math.Max(MinSize, sb.Height+in.Delta.Y)
	}
	if in.Handle.has(HandleTop) {
		nb.Height = math.Max(MinSize, sb.Height-in.Delta.Y)
		nb.Y = sb.Bottom() - nb.Height
	}

	minSize := float64(MinSize)
	if in.SnapToGrid && in.GridSize > 0 {
		gs := in.GridSize
		minSize = gs
		nb.X = geometry.SnapToGrid(nb.X, gs)
		nb.Y = geometry.SnapToGrid(nb.Y, gs)
		nb.Width = math.Max(gs, geometry.SnapToGrid(nb.Width, gs))
		nb.Height = math.Max(gs, geometry.SnapToGrid(nb.Height, gs))
	}

	var xs, ys []float64
	for _, o := range m.Shapes() {
		if o.ID == in.ShapeID {
			continue
		}
		xs = append(xs, o.X, o.X+o.Width)
		ys = append(ys, o.Y, o.Y+o.Height)
	}

	var snappedX, snappedY []float64
	if in.Handle.has(HandleRight) {
		if tx, ok := e.nearest(nb.Right(), xs); ok && tx-nb.X >= minSize {
			nb.Width = tx - nb.X
			snappedX = append(snappedX, tx)
		}
	}
	if in.Handle.has(HandleLeft) {
		if tx, ok := e.nearest(nb.X, xs); ok && nb.Right()-tx >= minSize {
			nb.Width = nb.Right() - tx
			nb.X = tx
			snappedX = append(snappedX, tx)
		}
	}
	if in.Handle.has(HandleBottom) {
		if ty, ok := e.nearest(nb.Bottom(), ys); ok && ty-nb.Y >= minSize {
			nb.Height = ty - nb.Y
			snappedY = append(snappedY, ty)
		}
	}
	if in.Handle.has(HandleTop) {
		if ty, ok := e.nearest(nb.Y, ys); ok && nb.Bottom()-ty >= minSize {
			nb.Height = nb.Bottom() - ty
			nb.Y = ty
			snappedY = append(snappedY, ty)
		}
	}

	res := ResizeResult{Bounds: nb}
	for _, x := range snappedX {
		res.Guides = append(res.Guides, Guide{
			From: geometry.Point{X: x, Y: nb.Y - resizeGuideOverhang},
			To:   geometry.Point{X: x, Y: nb.Bottom() + resizeGuideOverhang},
		})
	}
	for _, y := range snappedY {
		res.Guides = append(res.Guides, Guide{
			From: geometry.Point{X: nb.X - resizeGuideOverhang, Y: y},
			To:   geometry.Point{X: nb.Right() + resizeGuideOverhang, Y: y},
		})
	}
	return res
}

// nearest returns the candidate closest to v within the threshold.
func (e *Engine) nearest(v float64, candidates []float64) (float64, bool) {
	bestDist := e.threshold
	var best float64
	found := false
	for _, c := range candidates {
		if d := math.Abs(v - c); d < bestDist {
			bestDist, best, found = d, c, true
		}
	}
	return best, found
}
