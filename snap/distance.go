package snap

import (
	"math"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

// nearestGaps measures the open gap between group and every other shape
// that overlaps it on the perpendicular axis, keeping the nearest gap per
// side. Gaps outside (minGap, maxGap) are ignored.
func nearestGaps(group geometry.Rect, others []*diagram.Shape, minGap, maxGap float64) []Distance {
	var nearest [4]*Distance
	keep := func(d Distance) {
		if d.gap <= minGap || d.gap >= maxGap {
			return
		}
		if cur := nearest[d.Side]; cur == nil || d.gap < cur.gap {
			nearest[d.Side] = &d
		}
	}

	for _, o := range others {
		ob := o.Bounds()
		if geometry.OverlapsY(group, ob) {
			midY := (math.Max(group.Y, ob.Y) + math.Min(group.Bottom(), ob.Bottom())) / 2
			keep(Distance{
				Side:    SideLeft,
				From:    geometry.Point{X: ob.Right(), Y: midY},
				To:      geometry.Point{X: group.X, Y: midY},
				ShapeID: o.ID,
				gap:     group.X - ob.Right(),
			})
			keep(Distance{
				Side:    SideRight,
				From:    geometry.Point{X: group.Right(), Y: midY},
				To:      geometry.Point{X: ob.X, Y: midY},
				ShapeID: o.ID,
				gap:     ob.X - group.Right(),
			})
		}
		if geometry.OverlapsX(group, ob) {
			midX := (math.Max(group.X, ob.X) + math.Min(group.Right(), ob.Right())) / 2
			keep(Distance{
				Side:    SideTop,
				From:    geometry.Point{X: midX, Y: ob.Bottom()},
				To:      geometry.Point{X: midX, Y: group.Y},
				ShapeID: o.ID,
				gap:     group.Y - ob.Bottom(),
			})
			keep(Distance{
				Side:    SideBottom,
				From:    geometry.Point{X: midX, Y: group.Bottom()},
				To:      geometry.Point{X: midX, Y: ob.Y},
				ShapeID: o.ID,
				gap:     ob.Y - group.Bottom(),
			})
		}
	}

	var out []Distance
	for _, d := range nearest {
		if d != nil {
			d.Value = math.Round(d.gap)
			out = append(out, *d)
		}
	}
	return out
}

// markEqualSpacing flags opposite gaps that differ by less than tolerance.
func markEqualSpacing(distances []Distance, tolerance float64) {
	pair := func(a, b Side) {
		ia, ib := -1, -1
		for i, d := range distances {
			switch d.Side {
			case a:
				ia = i
			case b:
				ib = i
			}
		}
		if ia == -1 || ib == -1 {
			return
		}
		if math.Abs(distances[ia].gap-distances[ib].gap) < tolerance {
			distances[ia].EqualSpacing = true
			distances[ib].EqualSpacing = true
		}
	}
	pair(SideLeft, SideRight)
	pair(SideTop, SideBottom)
}

// Distances returns the nearest gap on each side of the bounding box of
// the given shapes, for display while they are selected but not moving.
func (e *Engine) Distances(m *diagram.Diagram, shapeIDs []string) []Distance {
	selected := shapesByID(m, shapeIDs)
	if len(selected) == 0 {
		return nil
	}
	return nearestGaps(boundsOf(selected), others(m, idSet(selected)), 0, SelectionMaxGap)
}

func shapesByID(m *diagram.Diagram, ids []string) []*diagram.Shape {
	out := make([]*diagram.Shape, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if s := m.GetShape(id); s != nil {
			seen[id] = true
			out = append(out, s)
		}
	}
	return out
}

func idSet(list []*diagram.Shape) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s.ID] = true
	}
	return set
}

func others(m *diagram.Diagram, exclude map[string]bool) []*diagram.Shape {
	var out []*diagram.Shape
	for _, s := range m.Shapes() {
		if !exclude[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func boundsOf(list []*diagram.Shape) geometry.Rect {
	rects := make([]geometry.Rect, len(list))
	for i, s := range list {
		rects[i] = s.Bounds()
	}
	return geometry.Union(rects...)
}
