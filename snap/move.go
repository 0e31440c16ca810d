package snap

import (
	"math"

	"go.uber.org/zap"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

// Placement is a shape id with a top-left position.
type Placement struct {
	ShapeID  string         `json:"shapeId"`
	Position geometry.Point `json:"position"`
}

// MoveInput describes one drag tick: the tentative top-left of every dragged
// shape before any snapping.
type MoveInput struct {
	Shapes     []Placement
	SnapToGrid bool
	GridSize   float64
}

// MoveResult is the outcome of one drag tick.
type MoveResult struct {
	Positions []Placement    `json:"positions"` // Final top-left per dragged shape, input order
	Bounds    geometry.Rect  `json:"bounds"`    // Final bounding box of the dragged shapes
	Offset    geometry.Point `json:"offset"`    // Shape-to-shape snap applied on top of the grid
	SnappedX  bool           `json:"snappedX"`
	SnappedY  bool           `json:"snappedY"`
	Guides    []Guide        `json:"guides,omitempty"`
	Distances []Distance     `json:"distances,omitempty"`
}

// target is a candidate alignment coordinate and the shape it came from.
type target struct {
	value float64
	shape *diagram.Shape
}

// Move snaps a dragged set of shapes. Positions are grid snapped first when
// requested; a shape-to-shape alignment within the threshold then overrides
// the grid on its axis. Unknown shape ids are skipped. The model is not
// modified; see Apply.
func (e *Engine) Move(m *diagram.Diagram, in MoveInput) MoveResult {
	var (
		dragged   []*diagram.Shape
		tentative []Placement
	)
	seen := make(map[string]bool, len(in.Shapes))
	for _, p := range in.Shapes {
		s := m.GetShape(p.ShapeID)
		if s == nil || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		pos := p.Position
		if in.SnapToGrid {
			pos.X = geometry.SnapToGrid(pos.X, in.GridSize)
			pos.Y = geometry.SnapToGrid(pos.Y, in.GridSize)
		}
		dragged = append(dragged, s)
		tentative = append(tentative, Placement{ShapeID: s.ID, Position: pos})
	}
	if len(dragged) == 0 {
		return MoveResult{}
	}

	rects := make([]geometry.Rect, len(dragged))
	for i, s := range dragged {
		rects[i] = geometry.Rect{X: tentative[i].Position.X, Y: tentative[i].Position.Y, Width: s.Width, Height: s.Height}
	}
	group := geometry.Union(rects...)

	// Children of dragged containers travel with them and are not targets
	exclude := idSet(dragged)
	for _, s := range dragged {
		if m.IsContainer(s) {
			for _, child := range m.ChildrenOfContainer(s.ID) {
				exclude[child.ID] = true
			}
		}
	}
	rest := others(m, exclude)
	xTargets, yTargets := collectTargets(m, rest)

	dx, snappedX := e.best(group.XRefs(), xTargets)
	dy, snappedY := e.best(group.YRefs(), yTargets)

	final := group.Translate(dx, dy)
	res := MoveResult{
		Positions: make([]Placement, len(tentative)),
		Bounds:    final,
		Offset:    geometry.Point{X: dx, Y: dy},
		SnappedX:  snappedX,
		SnappedY:  snappedY,
	}
	for i, p := range tentative {
		res.Positions[i] = Placement{ShapeID: p.ShapeID, Position: geometry.Point{X: p.Position.X + dx, Y: p.Position.Y + dy}}
	}

	if in.SnapToGrid {
		res.Guides = append(res.Guides, gridGuides(final, in.GridSize, !snappedX, !snappedY)...)
	}
	res.Guides = append(res.Guides, alignGuides(final, xTargets, yTargets)...)

	res.Distances = nearestGaps(final, rest, MinGap, MaxGap)
	markEqualSpacing(res.Distances, e.threshold*2)

	if ce := e.logger.Check(zap.DebugLevel, "snap move"); ce != nil {
		ce.Write(zap.Int("shapes", len(dragged)), zap.Bool("snappedX", snappedX), zap.Bool("snappedY", snappedY),
			zap.Int("guides", len(res.Guides)), zap.Int("distances", len(res.Distances)))
	}
	return res
}

// collectTargets collects the near edge, center and far edge of every shape on each
// axis, plus the lane centers of shapes with internal lanes.
func collectTargets(m *diagram.Diagram, shapes []*diagram.Shape) (xs, ys []target) {
	for _, s := range shapes {
		b := s.Bounds()
		for _, v := range b.XRefs() {
			xs = append(xs, target{value: v, shape: s})
		}
		for _, v := range b.YRefs() {
			ys = append(ys, target{value: v, shape: s})
		}
		if lanes := m.Definition(s).Lanes; lanes != nil {
			for _, v := range lanes.LaneCenters(s) {
				ys = append(ys, target{value: v, shape: s})
			}
		}
	}
	return xs, ys
}

// best returns the offset of the closest (reference, target) pair under the
// threshold. The first pair found wins ties.
func (e *Engine) best(refs [3]float64, targets []target) (float64, bool) {
	bestDist := e.threshold
	var offset float64
	found := false
	for _, r := range refs {
		for _, t := range targets {
			d := math.Abs(r - t.value)
			if d < bestDist {
				bestDist = d
				offset = t.value - r
				found = true
			}
		}
	}
	return offset, found
}

// gridGuides marks edges resting on a grid line, per axis without a shape snap.
func gridGuides(b geometry.Rect, gridSize float64, xAxis, yAxis bool) []Guide {
	var out []Guide
	if xAxis {
		for _, x := range []float64{b.X, b.Right()} {
			if geometry.OnGrid(x, gridSize) {
				out = append(out, Guide{
					From: geometry.Point{X: x, Y: b.Y - gridGuideOverhang},
					To:   geometry.Point{X: x, Y: b.Bottom() + gridGuideOverhang},
					Grid: true,
				})
			}
		}
	}
	if yAxis {
		for _, y := range []float64{b.Y, b.Bottom()} {
			if geometry.OnGrid(y, gridSize) {
				out = append(out, Guide{
					From: geometry.Point{X: b.X - gridGuideOverhang, Y: y},
					To:   geometry.Point{X: b.Right() + gridGuideOverhang, Y: y},
					Grid: true,
				})
			}
		}
	}
	return out
}

// alignGuides emits one guide per target coordinate the final box aligns
// with, spanning the box and every shape contributing that coordinate.
func alignGuides(b geometry.Rect, xTargets, yTargets []target) []Guide {
	var out []Guide

	shown := make(map[float64]bool)
	for _, r := range b.XRefs() {
		for _, t := range xTargets {
			if math.Abs(r-t.value) >= alignTolerance || shown[t.value] {
				continue
			}
			shown[t.value] = true
			minY, maxY := b.Y, b.Bottom()
			for _, o := range xTargets {
				if math.Abs(o.value-t.value) < alignTolerance {
					minY = math.Min(minY, o.shape.Y)
					maxY = math.Max(maxY, o.shape.Y+o.shape.Height)
				}
			}
			out = append(out, Guide{
				From: geometry.Point{X: t.value, Y: minY - alignGuideOverhang},
				To:   geometry.Point{X: t.value, Y: maxY + alignGuideOverhang},
			})
		}
	}

	shown = make(map[float64]bool)
	for _, r := range b.YRefs() {
		for _, t := range yTargets {
			if math.Abs(r-t.value) >= alignTolerance || shown[t.value] {
				continue
			}
			shown[t.value] = true
			minX, maxX := b.X, b.Right()
			for _, o := range yTargets {
				if math.Abs(o.value-t.value) < alignTolerance {
					minX = math.Min(minX, o.shape.X)
					maxX = math.Max(maxX, o.shape.X+o.shape.Width)
				}
			}
			out = append(out, Guide{
				From: geometry.Point{X: minX - alignGuideOverhang, Y: t.value},
				To:   geometry.Point{X: maxX + alignGuideOverhang, Y: t.value},
			})
		}
	}
	return out
}

// Apply writes the positions of a move result through the model. Children of
// a moved container that were not part of the move and are not locked follow
// by the same delta.
// Attached connectors are rerouted when r is not nil.
func (e *Engine) Apply(m *diagram.Diagram, res MoveResult, r Rerouter) {
	moved := make(map[string]bool, len(res.Positions))
	for _, p := range res.Positions {
		moved[p.ShapeID] = true
	}
	for _, p := range res.Positions {
		s := m.GetShape(p.ShapeID)
		if s == nil {
			continue
		}
		dx, dy := p.Position.X-s.X, p.Position.Y-s.Y
		m.UpdateShape(s.ID, diagram.MovePatch(p.Position.X, p.Position.Y))
		if r != nil {
			r.RerouteShape(s.ID)
		}
		if !m.IsContainer(s) || (dx == 0 && dy == 0) {
			continue
		}
		for _, child := range m.ChildrenOfContainer(s.ID) {
			if moved[child.ID] || child.Locked {
				continue
			}
			m.UpdateShape(child.ID, diagram.MovePatch(child.X+dx, child.Y+dy))
			if r != nil {
				r.RerouteShape(child.ID)
			}
		}
	}
}
