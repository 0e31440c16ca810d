package editor

import (
	"math"
	"sort"

	"flowcraft/diagram"
	"flowcraft/geometry"
	"flowcraft/history"
)

const (
	// MinDanglingLength is the shortest free connector created by ConnectToPoint.
	MinDanglingLength = 10
	// PasteOffset is how far duplicated shapes land from their originals.
	PasteOffset = 20
	// NudgeStep is the arrow-key step when snapping to grid is off.
	NudgeStep = 10
	// Bounds of a connector label position along its path.
	LabelMin = 0.05
	LabelMax = 0.95
)

// Alignment selects the edge or center Align lines shapes up on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenterH
	AlignRight
	AlignTop
	AlignCenterV
	AlignBottom
)

// Axis selects the direction Distribute spreads shapes along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// AddShape creates a shape of the given type with its default size, snapped
// to the grid when enabled. Returns the stored shape.
func (s *Session) AddShape(shapeType string, x, y float64) *diagram.Shape {
	settings := s.model.Settings()
	if settings.SnapToGrid {
		x = geometry.SnapToGrid(x, settings.GridSize)
		y = geometry.SnapToGrid(y, settings.GridSize)
	}
	cmd := history.NewAddShape(s.model, s.registry.NewShape(shapeType, x, y))
	s.history.Execute(cmd)
	return s.model.GetShape(cmd.ShapeID())
}

// Connect joins two shapes through their closest pair of ports.
// Returns nil when either shape is unknown or has no ports.
func (s *Session) Connect(sourceID, targetID string) *diagram.Connector {
	src, dst := s.model.GetShape(sourceID), s.model.GetShape(targetID)
	if src == nil || dst == nil || src.ID == dst.ID {
		return nil
	}
	sp, tp, ok := s.router.AutoSelectPorts(src, dst)
	if !ok {
		return nil
	}
	return s.ConnectPorts(src.ID, sp.ID, dst.ID, tp.ID)
}

// ConnectPorts joins two named ports.
func (s *Session) ConnectPorts(sourceID, sourcePort, targetID, targetPort string) *diagram.Connector {
	if s.model.GetShape(sourceID) == nil || s.model.GetShape(targetID) == nil {
		return nil
	}
	c := diagram.NewConnector(sourceID, sourcePort, targetID, targetPort)
	return s.AddConnector(c)
}

// ConnectToShape joins a port to the port of target nearest to the drop point.
func (s *Session) ConnectToShape(sourceID, sourcePort, targetID string, at geometry.Point) *diagram.Connector {
	dst := s.model.GetShape(targetID)
	if dst == nil || targetID == sourceID {
		return nil
	}
	port, ok := s.router.NearestPort(dst, at)
	if !ok {
		return nil
	}
	return s.ConnectPorts(sourceID, sourcePort, targetID, port.ID)
}

// ConnectToPoint creates a connector from a port to a free end at the drop
// point. Drops closer than MinDanglingLength to the port create nothing.
func (s *Session) ConnectToPoint(sourceID, sourcePort string, at geometry.Point) *diagram.Connector {
	src := s.model.GetShape(sourceID)
	if src == nil {
		return nil
	}
	port, ok := diagram.FindPort(s.model.PortsOf(src), sourcePort)
	if !ok {
		return nil
	}
	start := diagram.PortPosition(src, port)
	if geometry.Distance(start, at) <= MinDanglingLength {
		return nil
	}
	c := diagram.NewConnector(sourceID, port.ID, "", "")
	end := at
	c.TargetPoint = &end
	c.Points = []geometry.Point{start, at}
	return s.AddConnector(c)
}

// AddConnector stores a prepared connector as one undo step, routing it
// first when it carries no points.
func (s *Session) AddConnector(c *diagram.Connector) *diagram.Connector {
	if c == nil {
		return nil
	}
	if len(c.Points) == 0 {
		c.Points = s.router.Route(c)
	}
	cmd := history.NewAddConnector(s.model, c)
	s.history.Execute(cmd)
	return s.model.GetConnector(cmd.ConnectorID())
}

// Delete removes shapes and their connectors as one undo step.
func (s *Session) Delete(shapeIDs []string) {
	ids := s.existing(shapeIDs)
	if len(ids) == 0 {
		return
	}
	s.history.BeginBatch()
	for _, id := range ids {
		s.history.Execute(history.NewRemoveShape(s.model, id))
	}
	s.history.EndBatch("Delete shapes")
}

// DeleteConnector removes one connector.
func (s *Session) DeleteConnector(id string) {
	if s.model.GetConnector(id) == nil {
		return
	}
	s.history.Execute(history.NewRemoveConnector(s.model, id))
}

// Group gathers at least two shapes into a new group and returns its id.
func (s *Session) Group(shapeIDs []string, name string) string {
	ids := s.existing(shapeIDs)
	if len(ids) < 2 {
		return ""
	}
	cmd := history.NewGroup(s.model, ids, name)
	s.history.Execute(cmd)
	return cmd.GroupID()
}

// Ungroup dissolves a group.
func (s *Session) Ungroup(groupID string) {
	if s.model.GetGroup(groupID) == nil {
		return
	}
	s.history.Execute(history.NewUngroup(s.model, groupID))
}

// SetText changes the label of a shape.
func (s *Session) SetText(shapeID, text string) {
	sh := s.model.GetShape(shapeID)
	if sh == nil || sh.Text == text {
		return
	}
	s.history.Execute(history.NewChangeText(s.model, shapeID, sh.Text, text))
}

// SetStyle merges style values into a shape.
func (s *Session) SetStyle(shapeID string, property history.StyleProperty, value diagram.Style) {
	if s.model.GetShape(shapeID) == nil || len(value) == 0 {
		return
	}
	s.history.Execute(history.NewChangeStyle(s.model, shapeID, property, value))
}

// SetRouting switches the routing type of a connector and reroutes it.
func (s *Session) SetRouting(connectorID string, rt diagram.RoutingType) {
	c := s.model.GetConnector(connectorID)
	if c == nil || !rt.Valid() || c.RoutingType == rt {
		return
	}
	s.history.Execute(history.NewChangeConnectorRouting(s.model, s.router, connectorID, rt))
}

// SetContainer puts a shape into a container, or takes it out when
// containerID is empty. Containers cannot be nested.
func (s *Session) SetContainer(shapeID, containerID string) {
	sh := s.model.GetShape(shapeID)
	if sh == nil || s.model.IsContainer(sh) || sh.ContainerID == containerID {
		return
	}
	if containerID != "" {
		c := s.model.GetShape(containerID)
		if c == nil || !s.model.IsContainer(c) {
			return
		}
	}
	s.history.Execute(history.NewSetContainer(s.model, shapeID, sh.ContainerID, containerID))
}

// SetBounds moves and resizes a shape to r. Sizes below one unit are ignored.
func (s *Session) SetBounds(shapeID string, r geometry.Rect) {
	sh := s.model.GetShape(shapeID)
	if sh == nil || r.Width < 1 || r.Height < 1 {
		return
	}
	from := history.BoundsOf(sh)
	to := history.Bounds{Rect: r, Rotation: sh.Rotation}
	if from == to {
		return
	}
	s.history.Execute(history.NewResizeShape(s.model, s.router, shapeID, from, to))
}

// SetConnectorStyle merges style values into a connector.
func (s *Session) SetConnectorStyle(connectorID string, values diagram.Style) {
	c := s.model.GetConnector(connectorID)
	if c == nil || len(values) == 0 {
		return
	}
	to := c.Style.Clone()
	if to == nil {
		to = diagram.Style{}
	}
	for k, v := range values {
		to[k] = v
	}
	s.history.Execute(history.NewChangeConnectorStyle(s.model, connectorID, c.Style, to))
}

// SetConnectorLabel changes the label text of a connector, keeping its
// position. Label edits are not recorded in the history.
func (s *Session) SetConnectorLabel(connectorID, text string) {
	c := s.model.GetConnector(connectorID)
	if c == nil {
		return
	}
	label := LabelOf(c)
	label.Text = text
	s.model.UpdateConnector(connectorID, diagram.ConnectorPatch{Label: &label})
}

// MoveConnectorLabel slides the label to the point of the path closest to
// pointer. The position stays between LabelMin and LabelMax.
func (s *Session) MoveConnectorLabel(connectorID string, pointer geometry.Point) {
	c := s.model.GetConnector(connectorID)
	if c == nil || len(c.Points) < 2 {
		return
	}
	label := LabelOf(c)
	label.Position = geometry.Clamp(pathPosition(c.Points, pointer), LabelMin, LabelMax)
	s.model.UpdateConnector(connectorID, diagram.ConnectorPatch{Label: &label})
}

// LabelOf returns a copy of the connector label, centered when unset.
func LabelOf(c *diagram.Connector) diagram.Label {
	if c.Label == nil {
		return diagram.Label{Position: 0.5}
	}
	return *c.Label
}

// pathPosition returns where along the polyline the point closest to p
// lies, as a fraction of the total length.
func pathPosition(points []geometry.Point, p geometry.Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geometry.Distance(points[i-1], points[i])
	}
	if total == 0 {
		return 0.5
	}
	best, bestT, walked := math.Inf(1), 0.5, 0.0
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		seg := geometry.Distance(a, b)
		t := 0.0
		if seg > 0 {
			t = ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / (seg * seg)
			t = geometry.Clamp(t, 0, 1)
		}
		q := geometry.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
		if d := geometry.Distance(p, q); d < best {
			best = d
			bestT = (walked + t*seg) / total
		}
		walked += seg
	}
	return bestT
}

// Nudge moves shapes by one step: the grid size when snapping, NudgeStep
// otherwise, or a single unit when fine is set.
func (s *Session) Nudge(shapeIDs []string, dx, dy int, fine bool) {
	settings := s.model.Settings()
	step := float64(NudgeStep)
	switch {
	case fine:
		step = 1
	case settings.SnapToGrid:
		step = settings.GridSize
	}
	list := s.movable(shapeIDs)
	moves := make(map[string]geometry.Point)
	for _, sh := range list {
		moves[sh.ID] = geometry.Point{X: sh.X + float64(dx)*step, Y: sh.Y + float64(dy)*step}
	}
	s.moveAll(idsOf(list), moves, "Move shapes")
}

// Align lines shapes up on an edge or center of their bounding box.
// Locked shapes are left out.
func (s *Session) Align(shapeIDs []string, a Alignment) {
	list := s.movable(shapeIDs)
	if len(list) < 2 {
		return
	}
	b := boundsOf(list)
	moves := make(map[string]geometry.Point)
	for _, sh := range list {
		p := geometry.Point{X: sh.X, Y: sh.Y}
		switch a {
		case AlignLeft:
			p.X = b.X
		case AlignCenterH:
			p.X = b.X + (b.Width-sh.Width)/2
		case AlignRight:
			p.X = b.Right() - sh.Width
		case AlignTop:
			p.Y = b.Y
		case AlignCenterV:
			p.Y = b.Y + (b.Height-sh.Height)/2
		case AlignBottom:
			p.Y = b.Bottom() - sh.Height
		}
		moves[sh.ID] = p
	}
	s.moveAll(idsOf(list), moves, "Align shapes")
}

// Distribute spaces at least three unlocked shapes evenly between the
// outermost two.
func (s *Session) Distribute(shapeIDs []string, axis Axis) {
	list := s.movable(shapeIDs)
	if len(list) < 3 {
		return
	}
	sorted := append([]*diagram.Shape(nil), list...)
	if axis == Horizontal {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	} else {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })
	}
	first, last := sorted[0], sorted[len(sorted)-1]

	moves := make(map[string]geometry.Point)
	if axis == Horizontal {
		total := last.X + last.Width - first.X
		for _, sh := range sorted {
			total -= sh.Width
		}
		gap := total / float64(len(sorted)-1)
		cx := first.X
		for _, sh := range sorted {
			moves[sh.ID] = geometry.Point{X: cx, Y: sh.Y}
			cx += sh.Width + gap
		}
	} else {
		total := last.Y + last.Height - first.Y
		for _, sh := range sorted {
			total -= sh.Height
		}
		gap := total / float64(len(sorted)-1)
		cy := first.Y
		for _, sh := range sorted {
			moves[sh.ID] = geometry.Point{X: sh.X, Y: cy}
			cy += sh.Height + gap
		}
	}
	s.moveAll(idsOf(list), moves, "Distribute shapes")
}

// Duplicate copies shapes PasteOffset down and right as one undo step and
// returns the new shape ids.
func (s *Session) Duplicate(shapeIDs []string) []string {
	list := s.shapes(shapeIDs)
	if len(list) == 0 {
		return nil
	}
	var ids []string
	s.history.BeginBatch()
	for _, sh := range list {
		clone := sh.Clone()
		clone.ID = diagram.NewID(diagram.PrefixShape)
		clone.X += PasteOffset
		clone.Y += PasteOffset
		clone.GroupID = ""
		cmd := history.NewAddShape(s.model, clone)
		s.history.Execute(cmd)
		ids = append(ids, cmd.ShapeID())
	}
	s.history.EndBatch("Paste shapes")
	return ids
}

// moveAll executes one MoveShape per changed shape in the order of ids.
func (s *Session) moveAll(ids []string, moves map[string]geometry.Point, label string) {
	moving := make([]string, 0, len(moves))
	for _, id := range ids {
		if _, ok := moves[id]; ok {
			moving = append(moving, id)
		}
	}
	s.history.BeginBatch()
	for _, id := range moving {
		sh := s.model.GetShape(id)
		to := moves[id]
		if sh == nil || (sh.X == to.X && sh.Y == to.Y) {
			continue
		}
		from := geometry.Point{X: sh.X, Y: sh.Y}
		s.history.Execute(history.NewMoveShape(s.model, s.router, id, from, to).Excluding(moving))
	}
	s.history.EndBatch(label)
}

// existing filters ids down to known shapes, without duplicates.
func (s *Session) existing(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] && s.model.GetShape(id) != nil {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *Session) shapes(ids []string) []*diagram.Shape {
	var out []*diagram.Shape
	for _, id := range s.existing(ids) {
		out = append(out, s.model.GetShape(id))
	}
	return out
}

// movable returns the known shapes of ids that are not locked.
func (s *Session) movable(ids []string) []*diagram.Shape {
	var out []*diagram.Shape
	for _, sh := range s.shapes(ids) {
		if !sh.Locked {
			out = append(out, sh)
		}
	}
	return out
}

func idsOf(list []*diagram.Shape) []string {
	ids := make([]string, len(list))
	for i, sh := range list {
		ids[i] = sh.ID
	}
	return ids
}

func boundsOf(list []*diagram.Shape) geometry.Rect {
	rects := make([]geometry.Rect, len(list))
	for i, sh := range list {
		rects[i] = sh.Bounds()
	}
	return geometry.Union(rects...)
}
