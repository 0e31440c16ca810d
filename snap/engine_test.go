package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcraft/diagram"
	"flowcraft/geometry"
	"flowcraft/shapes"
)

type recordingRerouter struct {
	ids []string
}

func (r *recordingRerouter) RerouteShape(id string) { r.ids = append(r.ids, id) }

func newModel() *diagram.Diagram {
	return diagram.New(diagram.WithCatalog(shapes.Default()))
}

func rect(d *diagram.Diagram, id string, x, y float64) *diagram.Shape {
	s := diagram.NewShape(shapes.TypeRectangle, x, y, 100, 60)
	s.ID = id
	return d.AddShape(s)
}

func drag(id string, x, y float64) []Placement {
	return []Placement{{ShapeID: id, Position: geometry.Point{X: x, Y: y}}}
}

func TestMoveSnapsToNeighbourEdge(t *testing.T) {
	tests := []struct {
		name     string
		grid     bool
		gridSize float64
		dragTo   float64
		other    float64
		want     float64
	}{
		{"shape snap without grid", false, 0, 103, 100, 100},
		{"grid lands on the edge", true, 20, 103, 100, 100},
		{"shape snap beats grid", true, 40, 110, 125, 125},
		{"out of reach keeps grid", true, 40, 110, 140, 120},
		{"out of reach without grid", false, 0, 123, 100, 123},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newModel()
			rect(d, "a", tt.other, 0)
			rect(d, "b", 104, 200)

			res := New().Move(d, MoveInput{Shapes: drag("b", tt.dragTo, 203), SnapToGrid: tt.grid, GridSize: tt.gridSize})
			require.Len(t, res.Positions, 1)
			assert.Equal(t, tt.want, res.Positions[0].Position.X)
			assert.Equal(t, 104.0, d.GetShape("b").X, "Move does not touch the model")
		})
	}
}

func TestMoveThreshold(t *testing.T) {
	d := newModel()
	rect(d, "a", 100, 0)
	rect(d, "b", 104, 200)

	res := New(WithThreshold(2)).Move(d, MoveInput{Shapes: drag("b", 103, 203)})
	assert.False(t, res.SnappedX)
	assert.Equal(t, 103.0, res.Positions[0].Position.X)
}

func TestMoveSnapsToLaneCenter(t *testing.T) {
	d := newModel()
	lane := diagram.NewShape(shapes.TypeSwimLane, 0, 0, 800, 180)
	lane.Data = diagram.Data{"lanes": []any{"Sales", "Ops", "IT"}}
	d.AddShape(lane)
	s := diagram.NewShape(shapes.TypeRectangle, 1000, 125, 100, 40)
	d.AddShape(s)

	res := New().Move(d, MoveInput{Shapes: drag(s.ID, 1000, 125)})
	require.True(t, res.SnappedY)
	assert.Equal(t, 130.0, res.Positions[0].Position.Y, "shape center sits on the third lane center")

	var found bool
	for _, g := range res.Guides {
		if !g.Vertical() && g.From.Y == 150 {
			found = true
			assert.Equal(t, -20.0, g.From.X)
			assert.Equal(t, 1120.0, g.To.X)
		}
	}
	assert.True(t, found, "guide drawn along the lane center")
}

func TestMoveAlignmentGuides(t *testing.T) {
	d := newModel()
	rect(d, "a", 0, 0)
	rect(d, "b", 500, 200)

	res := New().Move(d, MoveInput{Shapes: drag("b", 3, 200)})
	require.True(t, res.SnappedX)
	require.Len(t, res.Guides, 3)
	for i, x := range []float64{0, 50, 100} {
		g := res.Guides[i]
		assert.True(t, g.Vertical())
		assert.False(t, g.Grid)
		assert.Equal(t, geometry.Point{X: x, Y: -20}, g.From)
		assert.Equal(t, geometry.Point{X: x, Y: 280}, g.To)
	}
}

func TestMoveGridGuides(t *testing.T) {
	d := newModel()
	rect(d, "b", 0, 0)

	res := New().Move(d, MoveInput{Shapes: drag("b", 33, 47), SnapToGrid: true, GridSize: 20})
	assert.Equal(t, geometry.Point{X: 40, Y: 40}, res.Positions[0].Position)
	require.Len(t, res.Guides, 4)
	for _, g := range res.Guides {
		assert.True(t, g.Grid)
	}
	assert.Equal(t, Guide{From: geometry.Point{X: 40, Y: 10}, To: geometry.Point{X: 40, Y: 130}, Grid: true}, res.Guides[0])
	assert.Equal(t, Guide{From: geometry.Point{X: 10, Y: 100}, To: geometry.Point{X: 170, Y: 100}, Grid: true}, res.Guides[3])
}

func TestMoveGridGuidesSuppressedBySnap(t *testing.T) {
	d := newModel()
	rect(d, "a", 125, 500)
	rect(d, "b", 0, 0)

	res := New().Move(d, MoveInput{Shapes: drag("b", 110, 0), SnapToGrid: true, GridSize: 40})
	require.True(t, res.SnappedX)
	for _, g := range res.Guides {
		if g.Grid {
			assert.False(t, g.Vertical(), "no grid guide on an axis snapped to a shape")
		}
	}
}

func TestMoveDistancesAndEqualSpacing(t *testing.T) {
	d := newModel()
	rect(d, "left", 0, 0)
	rect(d, "right", 410, 0)
	rect(d, "far", 700, 0)
	rect(d, "top", 200, -200)
	rect(d, "b", 200, 400)

	res := New().Move(d, MoveInput{Shapes: drag("b", 200, 0)})
	want := []Distance{
		{Side: SideLeft, From: geometry.Point{X: 100, Y: 30}, To: geometry.Point{X: 200, Y: 30}, Value: 100, ShapeID: "left", EqualSpacing: true, gap: 100},
		{Side: SideRight, From: geometry.Point{X: 300, Y: 30}, To: geometry.Point{X: 410, Y: 30}, Value: 110, ShapeID: "right", EqualSpacing: true, gap: 110},
		{Side: SideTop, From: geometry.Point{X: 250, Y: -140}, To: geometry.Point{X: 250, Y: 0}, Value: 140, ShapeID: "top", gap: 140},
	}
	assert.Equal(t, want, res.Distances)
}

func TestMoveDistanceRange(t *testing.T) {
	d := newModel()
	rect(d, "touching", 0, 0)
	rect(d, "far", 600, 0)
	rect(d, "b", 500, 500)

	res := New().Move(d, MoveInput{Shapes: drag("b", 101, 0)})
	for _, dist := range res.Distances {
		assert.NotEqual(t, "touching", dist.ShapeID, "gaps of 2 or less are not shown")
		assert.NotEqual(t, "far", dist.ShapeID, "gaps of 300 or more are not shown")
	}
}

func TestMoveCarriesContainerChildren(t *testing.T) {
	d := newModel()
	box := diagram.NewShape(shapes.TypeContainer, 0, 0, 400, 400)
	box.ID = "box"
	d.AddShape(box)
	rect(d, "child", 20, 300)
	d.SetContainer("child", "box")

	e := New()
	res := e.Move(d, MoveInput{Shapes: drag("box", 13, 0)})
	assert.False(t, res.SnappedX, "own children are not snap targets")
	assert.Equal(t, 13.0, res.Positions[0].Position.X)

	r := &recordingRerouter{}
	e.Apply(d, res, r)
	assert.Equal(t, 13.0, box.X)
	assert.Equal(t, 33.0, d.GetShape("child").X)
	assert.Equal(t, []string{"box", "child"}, r.ids)
}

func TestApplySkipsSelectedChildren(t *testing.T) {
	d := newModel()
	box := diagram.NewShape(shapes.TypeContainer, 0, 0, 400, 400)
	box.ID = "box"
	d.AddShape(box)
	rect(d, "child", 20, 300)
	d.SetContainer("child", "box")

	res := MoveResult{Positions: []Placement{
		{ShapeID: "box", Position: geometry.Point{X: 100, Y: 0}},
		{ShapeID: "child", Position: geometry.Point{X: 120, Y: 300}},
	}}
	New().Apply(d, res, nil)
	assert.Equal(t, 120.0, d.GetShape("child").X, "child moves once")
}

func TestApplyKeepsLockedChildren(t *testing.T) {
	d := newModel()
	box := diagram.NewShape(shapes.TypeContainer, 0, 0, 400, 400)
	box.ID = "box"
	d.AddShape(box)
	rect(d, "child", 20, 300)
	d.SetContainer("child", "box")
	locked := true
	d.UpdateShape("child", diagram.ShapePatch{Locked: &locked})

	res := MoveResult{Positions: []Placement{{ShapeID: "box", Position: geometry.Point{X: 100, Y: 0}}}}
	New().Apply(d, res, nil)
	assert.Equal(t, 100.0, d.GetShape("box").X)
	assert.Equal(t, 20.0, d.GetShape("child").X)
}

func TestMoveUnknownShapes(t *testing.T) {
	d := newModel()
	res := New().Move(d, MoveInput{Shapes: drag("ghost", 10, 10)})
	assert.Empty(t, res.Positions)
	assert.Empty(t, res.Guides)
}

func TestResize(t *testing.T) {
	tests := []struct {
		name       string
		handle     Handle
		delta      geometry.Point
		grid       float64
		want       geometry.Rect
		wantGuides int
	}{
		{"right edge snaps", HandleRight, geometry.Point{X: 195}, 0, geometry.Rect{Width: 300, Height: 60}, 1},
		{"left edge clamps to min size", HandleLeft, geometry.Point{X: 150}, 0, geometry.Rect{X: 80, Width: 20, Height: 60}, 0},
		{"grid", HandleBottomRight, geometry.Point{X: 33, Y: 27}, 20, geometry.Rect{Width: 140, Height: 80}, 0},
		{"top edge snaps", HandleTop, geometry.Point{Y: -35}, 0, geometry.Rect{Y: -40, Width: 100, Height: 100}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newModel()
			rect(d, "s", 0, 0)
			rect(d, "right", 300, 500)
			rect(d, "above", 500, -100)

			res := New().Resize(d, ResizeInput{
				ShapeID:    "s",
				Handle:     tt.handle,
				Start:      geometry.Rect{Width: 100, Height: 60},
				Delta:      tt.delta,
				SnapToGrid: tt.grid > 0,
				GridSize:   tt.grid,
			})
			assert.Equal(t, tt.want, res.Bounds)
			assert.Len(t, res.Guides, tt.wantGuides)
		})
	}
}

func TestResizeGuideGeometry(t *testing.T) {
	d := newModel()
	rect(d, "s", 0, 0)
	rect(d, "right", 300, 500)

	res := New().Resize(d, ResizeInput{ShapeID: "s", Handle: HandleRight, Start: geometry.Rect{Width: 100, Height: 60}, Delta: geometry.Point{X: 195}})
	require.Len(t, res.Guides, 1)
	assert.Equal(t, Guide{From: geometry.Point{X: 300, Y: -50}, To: geometry.Point{X: 300, Y: 110}}, res.Guides[0])
}

func TestSelectionDistances(t *testing.T) {
	d := newModel()
	rect(d, "a", 0, 0)
	rect(d, "b", 150, 0)
	rect(d, "c", 1000, 0)
	rect(d, "d", 150, 200)

	got := New().Distances(d, []string{"b"})
	require.Len(t, got, 2)
	assert.Equal(t, SideLeft, got[0].Side)
	assert.Equal(t, 50.0, got[0].Value)
	assert.Equal(t, SideBottom, got[1].Side)
	assert.Equal(t, 140.0, got[1].Value)
	assert.False(t, got[0].EqualSpacing, "static selections carry no equal-spacing flags")

	assert.Empty(t, New().Distances(d, []string{"ghost"}))
}
