package diagram

import "go.uber.org/zap"

// Shapes returns the shapes in draw order (back to front).
// The returned shapes are live; change them only through the model.
func (d *Diagram) Shapes() []*Shape {
	out := make([]*Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// GetShape returns the shape with the given id, or nil.
func (d *Diagram) GetShape(id string) *Shape {
	return d.shapeIndex[id]
}

// ShapeIndex returns the draw-order position of a shape, or -1.
func (d *Diagram) ShapeIndex(id string) int {
	for i, s := range d.shapes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// AddShape stores a shape on top of the draw order.
// A missing id or layer is assigned; a duplicate id is refused with nil.
func (d *Diagram) AddShape(s *Shape) *Shape {
	return d.AddShapeAt(s, len(d.shapes))
}

// AddShapeAt stores a shape at the given draw-order position.
func (d *Diagram) AddShapeAt(s *Shape, index int) *Shape {
	if s == nil {
		return nil
	}
	if s.ID == "" {
		s.ID = NewID(PrefixShape)
	}
	if _, exists := d.shapeIndex[s.ID]; exists {
		d.logger.Debug("duplicate shape id refused", zap.String("shape", s.ID))
		return nil
	}
	if s.LayerID == "" || d.GetLayer(s.LayerID) == nil {
		s.LayerID = d.layers[0].ID
	}
	if s.ContainerID != "" && (d.IsContainer(s) || s.ContainerID == s.ID) {
		s.ContainerID = ""
	}

	if index < 0 || index > len(d.shapes) {
		index = len(d.shapes)
	}
	d.shapes = append(d.shapes, nil)
	copy(d.shapes[index+1:], d.shapes[index:])
	d.shapes[index] = s
	d.shapeIndex[s.ID] = s

	// Re-attach to the group named by the back-reference
	if s.GroupID != "" {
		g := d.GetGroup(s.GroupID)
		if g == nil {
			s.GroupID = ""
		} else if !g.Contains(s.ID) {
			g.ShapeIDs = append(g.ShapeIDs, s.ID)
		}
	}

	d.touch()
	d.notify(Event{Kind: ShapeAdded, Shape: s})
	return s
}

// RemoveShape deletes a shape and cascades: attached connectors are removed,
// children lose their container reference and the group forgets the member.
// Removed connectors notify as RemoveConnector does. Released children emit
// ShapeChanged with no Changed of their own; the Changed that follows
// ShapeRemoved covers them.
// Returns the removed shape or nil when the id is unknown.
func (d *Diagram) RemoveShape(id string) *Shape {
	idx := d.ShapeIndex(id)
	if idx == -1 {
		return nil
	}
	shape := d.shapes[idx]
	d.shapes = append(d.shapes[:idx], d.shapes[idx+1:]...)
	delete(d.shapeIndex, id)

	for _, c := range d.ConnectorsForShape(id) {
		d.RemoveConnector(c.ID)
	}

	for _, child := range d.ChildrenOfContainer(id) {
		child.ContainerID = ""
		d.events.emit(Event{Kind: ShapeChanged, Shape: child})
	}

	if shape.GroupID != "" {
		if g := d.GetGroup(shape.GroupID); g != nil {
			g.ShapeIDs = removeString(g.ShapeIDs, id)
		}
	}

	d.touch()
	d.logger.Debug("shape removed", zap.String("shape", id))
	d.notify(Event{Kind: ShapeRemoved, Shape: shape})
	return shape
}

// UpdateShape applies a shallow patch: map-valued fields replace the old maps.
func (d *Diagram) UpdateShape(id string, p ShapePatch) *Shape {
	return d.updateShape(id, p, false)
}

// UpdateShapeDeep applies a patch merging Style, TextStyle and Data recursively.
func (d *Diagram) UpdateShapeDeep(id string, p ShapePatch) *Shape {
	return d.updateShape(id, p, true)
}

func (d *Diagram) updateShape(id string, p ShapePatch, deep bool) *Shape {
	s := d.shapeIndex[id]
	if s == nil {
		return nil
	}

	// Membership fields keep their denormalized partners in sync
	groupID := p.GroupID
	p.GroupID = nil
	if p.LayerID != nil && d.GetLayer(*p.LayerID) == nil {
		p.LayerID = nil
	}
	if c := p.ContainerID; c != nil && *c != "" && (*c == id || d.shapeIndex[*c] == nil || d.IsContainer(s)) {
		p.ContainerID = nil
	}

	p.apply(s, deep)

	if s.ContainerID != "" && (d.IsContainer(s) || s.ContainerID == s.ID) {
		s.ContainerID = ""
	}
	if groupID != nil {
		d.moveToGroup(s, *groupID)
	}

	d.touch()
	d.notify(Event{Kind: ShapeChanged, Shape: s})
	return s
}

// moveToGroup detaches s from its current group and attaches it to groupID ("" for none).
func (d *Diagram) moveToGroup(s *Shape, groupID string) {
	if s.GroupID == groupID {
		return
	}
	if old := d.GetGroup(s.GroupID); old != nil {
		old.ShapeIDs = removeString(old.ShapeIDs, s.ID)
	}
	s.GroupID = ""
	if g := d.GetGroup(groupID); g != nil {
		if !g.Contains(s.ID) {
			g.ShapeIDs = append(g.ShapeIDs, s.ID)
		}
		s.GroupID = groupID
	}
}

// ChildrenOfContainer returns all shapes whose container is containerID.
func (d *Diagram) ChildrenOfContainer(containerID string) []*Shape {
	if containerID == "" {
		return nil
	}
	var children []*Shape
	for _, s := range d.shapes {
		if s.ContainerID == containerID {
			children = append(children, s)
		}
	}
	return children
}

// SetContainer makes containerID the parent of shapeID.
// Containers cannot be nested, so a container shape is never given a parent.
func (d *Diagram) SetContainer(shapeID, containerID string) {
	s := d.shapeIndex[shapeID]
	if s == nil {
		return
	}
	if containerID == "" {
		d.RemoveFromContainer(shapeID)
		return
	}
	if containerID == shapeID || d.shapeIndex[containerID] == nil || d.IsContainer(s) {
		return
	}
	s.ContainerID = containerID
	d.touch()
	d.notify(Event{Kind: ShapeChanged, Shape: s})
}

// RemoveFromContainer clears the parent container of a shape.
func (d *Diagram) RemoveFromContainer(shapeID string) {
	s := d.shapeIndex[shapeID]
	if s == nil {
		return
	}
	s.ContainerID = ""
	d.touch()
	d.notify(Event{Kind: ShapeChanged, Shape: s})
}

// BringToFront moves a shape to the end of the draw order.
func (d *Diagram) BringToFront(shapeID string) {
	idx := d.ShapeIndex(shapeID)
	if idx == -1 {
		return
	}
	s := d.shapes[idx]
	d.shapes = append(d.shapes[:idx], d.shapes[idx+1:]...)
	d.shapes = append(d.shapes, s)
	d.touch()
	d.notify(Event{Kind: ShapeReordered, Shape: s})
}

// SendToBack moves a shape to the start of the draw order.
func (d *Diagram) SendToBack(shapeID string) {
	idx := d.ShapeIndex(shapeID)
	if idx == -1 {
		return
	}
	s := d.shapes[idx]
	copy(d.shapes[1:idx+1], d.shapes[:idx])
	d.shapes[0] = s
	d.touch()
	d.notify(Event{Kind: ShapeReordered, Shape: s})
}

func removeString(list []string, value string) []string {
	out := list[:0]
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
