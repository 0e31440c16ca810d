package editor

import (
	"math"

	"go.uber.org/zap"

	"flowcraft/diagram"
	"flowcraft/geometry"
	"flowcraft/history"
	"flowcraft/snap"
)

// dragState tracks a move in progress. Positions are written to the model on
// every tick; the undo step is recorded once the drag ends.
type dragState struct {
	ids     []string
	offsets []geometry.Point // Shape origin relative to the pointer
	starts  []geometry.Point
	clones  bool // The dragged shapes were added by BeginCloneDrag in the open batch
}

// RotationStep is the angle rotations snap to.
const RotationStep = 15

// rotateState tracks a rotation in progress.
type rotateState struct {
	shapeID string
	start   history.Bounds
}

// resizeState tracks a resize in progress.
type resizeState struct {
	shapeID string
	handle  snap.Handle
	pointer geometry.Point
	start   history.Bounds
}

// BeginDrag starts moving shapes with the pointer. Members of a dragged
// shape's group join the drag; locked shapes stay put. Returns false when
// nothing can move.
func (s *Session) BeginDrag(shapeIDs []string, pointer geometry.Point) bool {
	s.abortInteraction()

	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		sh := s.model.GetShape(id)
		if sh == nil || sh.Locked || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, id := range shapeIDs {
		add(id)
		if g := s.model.GroupForShape(id); g != nil {
			for _, member := range g.ShapeIDs {
				add(member)
			}
		}
	}
	if len(ids) == 0 {
		return false
	}
	s.drag = newDrag(s.model, ids, pointer)
	return true
}

// BeginCloneDrag copies shapes in place and starts dragging the copies. The
// copies and their move become one undo step when the drag ends; cancelling
// the drag removes them without leaving an undo step. Returns false when no
// shape is known.
func (s *Session) BeginCloneDrag(shapeIDs []string, pointer geometry.Point) bool {
	s.abortInteraction()
	list := s.shapes(shapeIDs)
	if len(list) == 0 {
		return false
	}

	s.history.BeginBatch()
	ids := make([]string, 0, len(list))
	for _, sh := range list {
		clone := sh.Clone()
		clone.ID = diagram.NewID(diagram.PrefixShape)
		clone.GroupID = ""
		clone.Locked = false
		cmd := history.NewAddShape(s.model, clone)
		s.history.Execute(cmd)
		ids = append(ids, cmd.ShapeID())
	}
	s.drag = newDrag(s.model, ids, pointer)
	s.drag.clones = true
	return true
}

func newDrag(m *diagram.Diagram, ids []string, pointer geometry.Point) *dragState {
	d := &dragState{ids: ids}
	for _, id := range ids {
		sh := m.GetShape(id)
		d.starts = append(d.starts, geometry.Point{X: sh.X, Y: sh.Y})
		d.offsets = append(d.offsets, geometry.Point{X: sh.X - pointer.X, Y: sh.Y - pointer.Y})
	}
	return d
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.drag != nil
}

// DragTo moves the dragged shapes after the pointer, snapped to the grid and
// to other shapes, and returns the guides and gaps to display.
func (s *Session) DragTo(pointer geometry.Point) snap.MoveResult {
	d := s.drag
	if d == nil {
		return snap.MoveResult{}
	}
	settings := s.model.Settings()
	in := snap.MoveInput{SnapToGrid: settings.SnapToGrid, GridSize: settings.GridSize}
	for i, id := range d.ids {
		in.Shapes = append(in.Shapes, snap.Placement{ShapeID: id, Position: pointer.Add(d.offsets[i])})
	}
	res := s.snap.Move(s.model, in)
	s.snap.Apply(s.model, res, s.router)
	return res
}

// EndDrag records the move as one undo step and updates container
// membership of every dropped shape.
func (s *Session) EndDrag() {
	d := s.drag
	if d == nil {
		return
	}
	s.drag = nil

	s.history.BeginBatch()
	for i, id := range d.ids {
		sh := s.model.GetShape(id)
		if sh == nil {
			continue
		}
		to := geometry.Point{X: sh.X, Y: sh.Y}
		if to != d.starts[i] {
			s.history.Record(history.NewMoveShape(s.model, s.router, id, d.starts[i], to).Excluding(d.ids))
		}
	}
	for _, id := range d.ids {
		s.reparent(id)
	}
	s.history.EndBatch("Move shapes")
	if d.clones {
		s.history.EndBatch("Clone shapes")
	}
}

// CancelDrag puts the dragged shapes back where the drag started. Copies
// made by BeginCloneDrag are removed.
func (s *Session) CancelDrag() {
	d := s.drag
	if d == nil {
		return
	}
	s.drag = nil
	if d.clones {
		s.history.CancelBatch()
		s.logger.Debug("clone drag cancelled", zap.Int("shapes", len(d.ids)))
		return
	}
	res := snap.MoveResult{Positions: make([]snap.Placement, len(d.ids))}
	for i, id := range d.ids {
		res.Positions[i] = snap.Placement{ShapeID: id, Position: d.starts[i]}
	}
	s.snap.Apply(s.model, res, s.router)
	s.logger.Debug("drag cancelled", zap.Int("shapes", len(d.ids)))
}

// reparent puts a non-container shape into the topmost container under its
// center, or takes it out of its container when there is none.
func (s *Session) reparent(shapeID string) {
	sh := s.model.GetShape(shapeID)
	if sh == nil || s.model.IsContainer(sh) {
		return
	}
	center := sh.Center()
	target := ""
	list := s.model.Shapes()
	for i := len(list) - 1; i >= 0; i-- {
		c := list[i]
		if c.ID == sh.ID || !s.model.IsContainer(c) {
			continue
		}
		if c.Bounds().Contains(center) {
			target = c.ID
			break
		}
	}
	if target != sh.ContainerID {
		s.history.Execute(history.NewSetContainer(s.model, sh.ID, sh.ContainerID, target))
	}
}

// BeginResize starts resizing a shape from one of its handles.
func (s *Session) BeginResize(shapeID string, handle snap.Handle, pointer geometry.Point) bool {
	s.abortInteraction()
	sh := s.model.GetShape(shapeID)
	if sh == nil || sh.Locked || handle == "" {
		return false
	}
	s.resize = &resizeState{shapeID: shapeID, handle: handle, pointer: pointer, start: history.BoundsOf(sh)}
	return true
}

// ResizeTo applies the snapped bounds for the pointer position and returns
// the guides to display.
func (s *Session) ResizeTo(pointer geometry.Point) snap.ResizeResult {
	r := s.resize
	if r == nil {
		return snap.ResizeResult{}
	}
	settings := s.model.Settings()
	res := s.snap.Resize(s.model, snap.ResizeInput{
		ShapeID:    r.shapeID,
		Handle:     r.handle,
		Start:      r.start.Rect,
		Delta:      geometry.Point{X: pointer.X - r.pointer.X, Y: pointer.Y - r.pointer.Y},
		SnapToGrid: settings.SnapToGrid,
		GridSize:   settings.GridSize,
	})
	if s.model.UpdateShape(r.shapeID, diagram.BoundsPatch(res.Bounds)) != nil {
		s.router.RerouteShape(r.shapeID)
	}
	return res
}

// EndResize records the resize as one undo step.
func (s *Session) EndResize() {
	r := s.resize
	if r == nil {
		return
	}
	s.resize = nil
	sh := s.model.GetShape(r.shapeID)
	if sh == nil {
		return
	}
	if to := history.BoundsOf(sh); to != r.start {
		s.history.Record(history.NewResizeShape(s.model, s.router, r.shapeID, r.start, to))
	}
}

// CancelResize restores the bounds the resize started from.
func (s *Session) CancelResize() {
	r := s.resize
	if r == nil {
		return
	}
	s.resize = nil
	if s.model.UpdateShape(r.shapeID, diagram.BoundsPatch(r.start.Rect)) != nil {
		s.router.RerouteShape(r.shapeID)
	}
}

// BeginRotate starts rotating a shape around its center.
func (s *Session) BeginRotate(shapeID string) bool {
	s.abortInteraction()
	sh := s.model.GetShape(shapeID)
	if sh == nil || sh.Locked {
		return false
	}
	s.rotate = &rotateState{shapeID: shapeID, start: history.BoundsOf(sh)}
	return true
}

// RotateTo turns the shape so that its top faces the pointer and returns the
// rotation in degrees, in [0, 360). With stepped set the angle is rounded to
// RotationStep.
func (s *Session) RotateTo(pointer geometry.Point, stepped bool) float64 {
	r := s.rotate
	if r == nil {
		return 0
	}
	c := r.start.Rect.Center()
	angle := math.Atan2(pointer.Y-c.Y, pointer.X-c.X)*180/math.Pi + 90
	if stepped {
		angle = math.Round(angle/RotationStep) * RotationStep
	}
	angle = math.Mod(angle+360, 360)
	s.model.UpdateShape(r.shapeID, diagram.ShapePatch{Rotation: &angle})
	return angle
}

// EndRotate records the rotation as one undo step.
func (s *Session) EndRotate() {
	r := s.rotate
	if r == nil {
		return
	}
	s.rotate = nil
	sh := s.model.GetShape(r.shapeID)
	if sh == nil {
		return
	}
	if to := history.BoundsOf(sh); to != r.start {
		s.history.Record(history.NewResizeShape(s.model, s.router, r.shapeID, r.start, to))
	}
}

// CancelRotate restores the rotation the shape started with.
func (s *Session) CancelRotate() {
	r := s.rotate
	if r == nil {
		return
	}
	s.rotate = nil
	rot := r.start.Rotation
	s.model.UpdateShape(r.shapeID, diagram.ShapePatch{Rotation: &rot})
}

// SelectionDistances returns the gaps between a selection and its nearest neighbours.
func (s *Session) SelectionDistances(shapeIDs []string) []snap.Distance {
	return s.snap.Distances(s.model, shapeIDs)
}
