package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcraft/diagram"
	"flowcraft/geometry"
	"flowcraft/shapes"
	"flowcraft/snap"
)

func newSession(snapToGrid bool) *Session {
	return New(WithSettings(diagram.SettingsPatch{SnapToGrid: &snapToGrid}))
}

// place adds a rectangle without recording history.
func place(s *Session, id string, x, y float64) *diagram.Shape {
	sh := diagram.NewShape(shapes.TypeRectangle, x, y, 140, 80)
	sh.ID = id
	return s.Model().AddShape(sh)
}

func placeContainer(s *Session, id string, x, y float64) *diagram.Shape {
	sh := diagram.NewShape(shapes.TypeContainer, x, y, 400, 400)
	sh.ID = id
	return s.Model().AddShape(sh)
}

func snapshot(s *Session) *diagram.Document {
	doc := s.Model().ToDocument()
	doc.Modified = 0
	return doc
}

func undoLabels(s *Session) []string {
	undo, _ := s.History().Labels()
	return undo
}

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func TestNewSession(t *testing.T) {
	s := New()
	assert.False(t, s.HasChanges())
	assert.False(t, s.CanUndo())
	assert.Equal(t, diagram.DefaultSettings(), s.Model().Settings())

	off := newSession(false)
	assert.False(t, off.Model().Settings().SnapToGrid)
}

func TestAddShapeSnapsToGrid(t *testing.T) {
	s := New()
	sh := s.AddShape(shapes.TypeRectangle, 53, 67)
	require.NotNil(t, sh)
	assert.Equal(t, 40.0, sh.X)
	assert.Equal(t, 80.0, sh.Y)
	assert.Equal(t, 140.0, sh.Width)
	assert.Equal(t, 80.0, sh.Height)
	assert.True(t, s.HasChanges())

	s.Undo()
	assert.Nil(t, s.Model().GetShape(sh.ID))
	s.Redo()
	assert.NotNil(t, s.Model().GetShape(sh.ID))
}

func TestConnect(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)

	c := s.Connect("a", "b")
	require.NotNil(t, c)
	assert.Equal(t, "right", c.SourcePortID)
	assert.Equal(t, "left", c.TargetPortID)
	assert.Equal(t, []geometry.Point{pt(140, 40), pt(400, 40)}, c.Points)

	assert.Nil(t, s.Connect("a", "a"))
	assert.Nil(t, s.Connect("a", "ghost"))

	s.Undo()
	assert.Empty(t, s.Model().Connectors())
}

func TestConnectToShapeUsesNearestPort(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)

	c := s.ConnectToShape("a", "bottom", "b", pt(470, 85))
	require.NotNil(t, c)
	assert.Equal(t, "bottom", c.TargetPortID)
}

func TestConnectToPoint(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)

	assert.Nil(t, s.ConnectToPoint("a", "right", pt(145, 40)), "too short")
	assert.Nil(t, s.ConnectToPoint("a", "nope", pt(400, 40)))

	c := s.ConnectToPoint("a", "right", pt(300, 200))
	require.NotNil(t, c)
	assert.True(t, c.Dangling())
	require.NotNil(t, c.TargetPoint)
	assert.Equal(t, pt(300, 200), *c.TargetPoint)
	assert.Equal(t, []geometry.Point{pt(140, 40), pt(300, 200)}, c.Points)
}

func TestDeleteIsOneStep(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)
	place(s, "c", 0, 400)
	s.Connect("a", "b")
	s.Connect("b", "c")
	before := snapshot(s)

	s.Delete([]string{"a", "b", "ghost"})
	assert.Len(t, s.Model().Shapes(), 1)
	assert.Empty(t, s.Model().Connectors())
	assert.Equal(t, "Delete shapes", undoLabels(s)[0])

	s.Undo()
	if diff := cmp.Diff(before, snapshot(s), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("delete undo mismatch (-want +got):\n%s", diff)
	}
}

func TestDragLifecycle(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	place(s, "b", 400, 400)

	require.True(t, s.BeginDrag([]string{"a"}, pt(10, 10)))
	assert.True(t, s.Dragging())
	res := s.DragTo(pt(60, 10))
	assert.Equal(t, 50.0, a.X, "positions follow the pointer during the drag")
	res = s.DragTo(pt(113, 10))
	assert.Equal(t, 103.0, res.Positions[0].Position.X)
	assert.Equal(t, 103.0, a.X)
	assert.False(t, s.CanUndo(), "nothing is recorded before the drop")

	s.EndDrag()
	assert.False(t, s.Dragging())
	assert.Equal(t, []string{"Move Shape"}, undoLabels(s), "a single move is pushed unwrapped")

	s.Undo()
	assert.Equal(t, 0.0, a.X)
	s.Redo()
	assert.Equal(t, 103.0, a.X)
}

func TestDragSnapsToNeighbour(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 100, 0)
	b := place(s, "b", 104, 200)

	s.BeginDrag([]string{"b"}, pt(104, 200))
	s.DragTo(pt(103, 203))
	assert.Equal(t, 100.0, b.X)
	assert.Equal(t, 100.0, a.X)
	s.EndDrag()
}

func TestDragIntoContainer(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	placeContainer(s, "box", 300, 0)

	s.BeginDrag([]string{"a"}, pt(0, 0))
	s.DragTo(pt(400, 100))
	s.EndDrag()
	assert.Equal(t, "box", a.ContainerID)
	assert.Equal(t, []string{"Move shapes"}, undoLabels(s))

	s.Undo()
	assert.Equal(t, 0.0, a.X)
	assert.Empty(t, a.ContainerID)

	s.Redo()
	assert.Equal(t, 400.0, a.X)
	assert.Equal(t, "box", a.ContainerID)
}

func TestDragOutOfContainer(t *testing.T) {
	s := newSession(false)
	placeContainer(s, "box", 0, 0)
	a := place(s, "a", 20, 20)
	s.Model().SetContainer("a", "box")

	s.BeginDrag([]string{"a"}, pt(20, 20))
	s.DragTo(pt(620, 20))
	s.EndDrag()
	assert.Empty(t, a.ContainerID)

	s.Undo()
	assert.Equal(t, "box", a.ContainerID)
}

func TestDragContainerCarriesChildren(t *testing.T) {
	s := newSession(false)
	box := placeContainer(s, "box", 300, 0)
	child := place(s, "child", 320, 20)
	s.Model().SetContainer("child", "box")

	s.BeginDrag([]string{"box"}, pt(300, 0))
	s.DragTo(pt(310, 0))
	assert.Equal(t, 310.0, box.X)
	assert.Equal(t, 330.0, child.X)
	s.EndDrag()
	assert.Equal(t, "box", child.ContainerID)

	s.Undo()
	assert.Equal(t, 300.0, box.X)
	assert.Equal(t, 320.0, child.X)
	s.Redo()
	assert.Equal(t, 330.0, child.X)
}

func TestDragMovesWholeGroup(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	b := place(s, "b", 200, 0)
	locked := place(s, "locked", 400, 0)
	locked.Locked = true
	s.Group([]string{"a", "b"}, "")

	s.BeginDrag([]string{"a", "locked"}, pt(0, 0))
	s.DragTo(pt(0, 300))
	assert.Equal(t, 300.0, a.Y)
	assert.Equal(t, 300.0, b.Y)
	assert.Equal(t, 0.0, locked.Y)
	s.EndDrag()
	assert.Equal(t, "Move shapes", undoLabels(s)[0])
}

func TestCancelDrag(t *testing.T) {
	s := newSession(false)
	box := placeContainer(s, "box", 0, 0)
	child := place(s, "child", 20, 20)
	s.Model().SetContainer("child", "box")

	s.BeginDrag([]string{"box"}, pt(0, 0))
	s.DragTo(pt(250, 130))
	s.CancelDrag()
	assert.Equal(t, 0.0, box.X)
	assert.Equal(t, 20.0, child.X)
	assert.Equal(t, 20.0, child.Y)
	assert.False(t, s.CanUndo())
}

func TestCloneDrag(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	place(s, "b", 400, 400)

	require.True(t, s.BeginCloneDrag([]string{"a"}, pt(10, 10)))
	require.Len(t, s.Model().Shapes(), 3)
	clone := s.Model().Shapes()[2]
	assert.NotEqual(t, "a", clone.ID)
	s.DragTo(pt(210, 10))
	assert.Equal(t, 200.0, clone.X)
	assert.Equal(t, 0.0, a.X, "the original stays")
	assert.False(t, s.CanUndo())

	s.EndDrag()
	assert.Equal(t, []string{"Clone shapes"}, undoLabels(s))

	s.Undo()
	assert.Len(t, s.Model().Shapes(), 2)
	s.Redo()
	require.Len(t, s.Model().Shapes(), 3)
	assert.Equal(t, 200.0, s.Model().Shapes()[2].X)
}

func TestCancelCloneDrag(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	b := place(s, "b", 400, 0)
	before := snapshot(s)

	require.True(t, s.BeginCloneDrag([]string{"a", "b"}, pt(0, 0)))
	s.DragTo(pt(0, 300))
	assert.Len(t, s.Model().Shapes(), 4)
	s.CancelDrag()

	assert.False(t, s.Dragging())
	assert.False(t, s.CanUndo(), "a cancelled clone leaves no undo step")
	assert.False(t, s.History().InBatch())
	if diff := cmp.Diff(before, snapshot(s), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	s.BeginCloneDrag([]string{"b"}, pt(0, 0))
	s.DragTo(pt(0, 300))
	s.Undo()
	assert.Len(t, s.Model().Shapes(), 2, "undo during a clone drag drops the copies")
	assert.Equal(t, 0.0, a.Y)
	assert.Equal(t, 0.0, b.Y)
	assert.False(t, s.BeginCloneDrag([]string{"ghost"}, pt(0, 0)))
}

func TestUndoDuringDragCancelsIt(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)
	s.BeginDrag([]string{"a"}, pt(0, 0))
	s.DragTo(pt(77, 0))
	s.Undo()
	assert.False(t, s.Dragging())
	assert.Equal(t, 0.0, a.X)
}

func TestDragReroutesConnectors(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)
	c := s.Connect("a", "b")

	s.BeginDrag([]string{"a"}, pt(0, 0))
	s.DragTo(pt(0, 200))
	assert.Equal(t, pt(140, 240), c.Points[0])
	s.EndDrag()

	s.Undo()
	assert.Equal(t, []geometry.Point{pt(140, 40), pt(400, 40)}, c.Points)
}

func TestResizeLifecycle(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0)

	require.True(t, s.BeginResize("a", snap.HandleRight, pt(140, 40)))
	res := s.ResizeTo(pt(200, 40))
	assert.Equal(t, 200.0, res.Bounds.Width)
	assert.Equal(t, 200.0, a.Width)
	s.EndResize()
	assert.Equal(t, []string{"Resize Shape"}, undoLabels(s))

	s.Undo()
	assert.Equal(t, 140.0, a.Width)

	s.BeginResize("a", snap.HandleBottom, pt(70, 80))
	s.ResizeTo(pt(70, 180))
	s.CancelResize()
	assert.Equal(t, 80.0, a.Height)
	assert.False(t, s.BeginResize("ghost", snap.HandleBottom, pt(0, 0)))
}

func TestRotate(t *testing.T) {
	s := newSession(false)
	a := place(s, "a", 0, 0) // center (70, 40)

	tests := []struct {
		pointer geometry.Point
		stepped bool
		want    float64
	}{
		{pt(70, -60), false, 0},
		{pt(170, 40), false, 90},
		{pt(70, 140), false, 180},
		{pt(-30, 40), false, 270},
		{pt(170, 50), true, 90},
		{pt(170, 70), true, 105},
	}
	require.True(t, s.BeginRotate("a"))
	for _, tt := range tests {
		got := s.RotateTo(tt.pointer, tt.stepped)
		assert.InDelta(t, tt.want, got, 1e-9, "pointer %v", tt.pointer)
		assert.InDelta(t, tt.want, a.Rotation, 1e-9)
	}
	s.EndRotate()
	assert.Equal(t, []string{"Resize Shape"}, undoLabels(s))
	assert.Equal(t, geometry.Rect{Width: 140, Height: 80}, a.Bounds(), "rotation keeps the bounds")

	s.Undo()
	assert.Equal(t, 0.0, a.Rotation)
	s.Redo()
	assert.InDelta(t, 105.0, a.Rotation, 1e-9)

	s.BeginRotate("a")
	s.RotateTo(pt(-30, 40), true)
	s.CancelRotate()
	assert.InDelta(t, 105.0, a.Rotation, 1e-9)
	assert.Len(t, undoLabels(s), 1)

	locked := true
	s.Model().UpdateShape("a", diagram.ShapePatch{Locked: &locked})
	assert.False(t, s.BeginRotate("a"))
	assert.False(t, s.BeginRotate("ghost"))
}

func TestGroupAndUngroup(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 200, 0)

	assert.Empty(t, s.Group([]string{"a"}, ""), "a group needs two shapes")
	id := s.Group([]string{"a", "b"}, "pair")
	require.NotEmpty(t, id)
	assert.Equal(t, id, s.Model().GetShape("a").GroupID)

	s.Ungroup(id)
	assert.Nil(t, s.Model().GetGroup(id))
	s.Undo()
	assert.NotNil(t, s.Model().GetGroup(id))
}

func TestAlignDistributeNudge(t *testing.T) {
	s := New()
	a := place(s, "a", 0, 0)
	b := place(s, "b", 160, 50)
	c := place(s, "c", 600, 10)

	s.Align([]string{"a", "b", "c"}, AlignTop)
	assert.Equal(t, 0.0, b.Y)
	assert.Equal(t, 0.0, c.Y)
	assert.Equal(t, "Align shapes", undoLabels(s)[0])

	s.Distribute([]string{"c", "a", "b"}, Horizontal)
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 300.0, b.X)
	assert.Equal(t, 600.0, c.X)

	s.Nudge([]string{"a"}, 1, 0, false)
	assert.Equal(t, 40.0, a.X, "grid step while snapping")
	s.Nudge([]string{"a"}, 0, -1, true)
	assert.Equal(t, -1.0, a.Y)

	for s.CanUndo() {
		s.Undo()
	}
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 50.0, b.Y)
	assert.Equal(t, 160.0, b.X)
	assert.Equal(t, 10.0, c.Y)
}

func TestLockedShapesStayPut(t *testing.T) {
	s := New()
	place(s, "a", 0, 0)
	place(s, "b", 600, 200)
	place(s, "c", 900, 40)
	pinned := place(s, "pinned", 200, 80)
	locked := true
	s.Model().UpdateShape("pinned", diagram.ShapePatch{Locked: &locked})
	all := []string{"a", "pinned", "b", "c"}

	s.Nudge(all, 1, 0, false)
	s.Align(all, AlignTop)
	s.Distribute(all, Horizontal)
	assert.Equal(t, pt(200, 80), pt(pinned.X, pinned.Y))
	assert.Equal(t, 0.0, s.Model().GetShape("b").Y, "unlocked shapes still move")

	s.Nudge([]string{"pinned"}, 0, 1, true)
	s.Align([]string{"a", "pinned"}, AlignLeft)
	assert.Equal(t, pt(200, 80), pt(pinned.X, pinned.Y))
	assert.Len(t, undoLabels(s), 3, "moves of locked shapes alone record nothing")
}

func TestDuplicate(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 200, 0)

	ids := s.Duplicate([]string{"a", "b"})
	require.Len(t, ids, 2)
	dup := s.Model().GetShape(ids[0])
	assert.Equal(t, pt(20, 20), pt(dup.X, dup.Y))
	assert.Equal(t, "Paste shapes", undoLabels(s)[0])

	s.Undo()
	assert.Len(t, s.Model().Shapes(), 2)
}

func TestTextStyleRouting(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 200)
	c := s.Connect("a", "b")

	s.SetText("a", "Start")
	s.SetStyle("a", "style", diagram.Style{"fill": "#ff0000"})
	s.SetRouting(c.ID, diagram.RoutingStraight)
	assert.Len(t, c.Points, 2)
	assert.Equal(t, "Start", s.Model().GetShape("a").Text)

	s.Undo()
	assert.Equal(t, diagram.RoutingOrthogonal, c.RoutingType)
	s.Undo()
	s.Undo()
	assert.Empty(t, s.Model().GetShape("a").Text)
}

func TestLoadAndSave(t *testing.T) {
	src := newSession(false)
	place(src, "a", 0, 0)
	place(src, "b", 400, 0)
	src.Connect("a", "b")
	data, err := src.SaveJSON()
	require.NoError(t, err)
	assert.False(t, src.HasChanges())

	s := New()
	s.AddShape(shapes.TypeRectangle, 0, 0)
	require.NoError(t, s.LoadJSON(data))
	assert.False(t, s.CanUndo(), "loading clears the history")
	assert.False(t, s.HasChanges())
	assert.Len(t, s.Model().Shapes(), 2)

	err = s.LoadJSON([]byte("{"))
	require.Error(t, err)
	assert.Len(t, s.Model().Shapes(), 2, "a failed load keeps the diagram")

	packed, err := s.Model().MarshalMsgpack()
	require.NoError(t, err)
	fresh := New()
	require.NoError(t, fresh.LoadMsgpack(packed))
	assert.Len(t, fresh.Model().Connectors(), 1)

	fresh.NewDiagram()
	assert.Empty(t, fresh.Model().Shapes())
}

func TestSelectionDistances(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 200, 0)

	got := s.SelectionDistances([]string{"b"})
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].Value)
}
