package history

import (
	"sort"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

// Rerouter recomputes connector paths after geometry changes.
// A nil Rerouter leaves connector points untouched.
type Rerouter interface {
	RerouteShape(shapeID string)
	RerouteConnector(connectorID string)
}

func rerouteShape(r Rerouter, shapeID string) {
	if r != nil {
		r.RerouteShape(shapeID)
	}
}

// Composite executes its commands in order and undoes them in reverse.
type Composite struct {
	label    string
	commands []Command
}

// NewComposite wraps commands into one undo step.
func NewComposite(label string, commands []Command) *Composite {
	cmds := make([]Command, len(commands))
	copy(cmds, commands)
	return &Composite{label: label, commands: cmds}
}

func (c *Composite) Execute() {
	for _, cmd := range c.commands {
		cmd.Execute()
	}
}

func (c *Composite) Undo() {
	for i := len(c.commands) - 1; i >= 0; i-- {
		c.commands[i].Undo()
	}
}

func (c *Composite) Label() string { return c.label }

// AddShape inserts a shape snapshot.
type AddShape struct {
	model *diagram.Diagram
	shape *diagram.Shape
}

// NewAddShape snapshots s; later changes to s do not affect the command.
func NewAddShape(m *diagram.Diagram, s *diagram.Shape) *AddShape {
	snap := s.Clone()
	if snap.ID == "" {
		snap.ID = diagram.NewID(diagram.PrefixShape)
	}
	return &AddShape{model: m, shape: snap}
}

func (c *AddShape) Execute() { c.model.AddShape(c.shape.Clone()) }
func (c *AddShape) Undo()    { c.model.RemoveShape(c.shape.ID) }
func (c *AddShape) Label() string {
	return "Add Shape"
}

// ShapeID returns the id of the inserted shape.
func (c *AddShape) ShapeID() string { return c.shape.ID }

type indexedConnector struct {
	index     int
	connector *diagram.Connector
}

// RemoveShape deletes a shape with its cascade. The state needed to restore it
// exactly is captured each time the command executes.
type RemoveShape struct {
	model   *diagram.Diagram
	shapeID string

	shape      *diagram.Shape
	index      int
	connectors []indexedConnector
	children   []string
	group      *diagram.Group
}

// NewRemoveShape creates a delete command for shapeID.
func NewRemoveShape(m *diagram.Diagram, shapeID string) *RemoveShape {
	return &RemoveShape{model: m, shapeID: shapeID, index: -1}
}

func (c *RemoveShape) Execute() {
	s := c.model.GetShape(c.shapeID)
	if s == nil {
		c.shape = nil
		return
	}
	c.shape = s.Clone()
	c.index = c.model.ShapeIndex(c.shapeID)

	c.connectors = c.connectors[:0]
	for _, conn := range c.model.ConnectorsForShape(c.shapeID) {
		c.connectors = append(c.connectors, indexedConnector{
			index:     c.model.ConnectorIndex(conn.ID),
			connector: conn.Clone(),
		})
	}
	c.children = c.children[:0]
	for _, child := range c.model.ChildrenOfContainer(c.shapeID) {
		c.children = append(c.children, child.ID)
	}
	c.group = nil
	if g := c.model.GetGroup(s.GroupID); g != nil {
		c.group = g.Clone()
	}

	c.model.RemoveShape(c.shapeID)
}

func (c *RemoveShape) Undo() {
	if c.shape == nil || c.model.GetShape(c.shapeID) != nil {
		return
	}
	c.model.AddShapeAt(c.shape.Clone(), c.index)

	// Ascending order so every recorded index is valid when reached
	sort.Slice(c.connectors, func(i, j int) bool { return c.connectors[i].index < c.connectors[j].index })
	for _, ic := range c.connectors {
		if c.model.GetConnector(ic.connector.ID) == nil {
			c.model.AddConnectorAt(ic.connector.Clone(), ic.index)
		}
	}
	for _, childID := range c.children {
		c.model.SetContainer(childID, c.shapeID)
	}
	if c.group != nil && c.model.GetGroup(c.group.ID) != nil {
		c.model.SetGroupMembers(c.group.ID, c.group.ShapeIDs)
	}
}

func (c *RemoveShape) Label() string { return "Delete Shape" }

// MoveShape moves a shape between two positions. Children of a container
// follow with the same offset, except locked ones and those listed as excluded.
type MoveShape struct {
	model    *diagram.Diagram
	rerouter Rerouter
	shapeID  string
	from, to geometry.Point
	exclude  map[string]bool
}

// NewMoveShape creates a move command.
func NewMoveShape(m *diagram.Diagram, r Rerouter, shapeID string, from, to geometry.Point) *MoveShape {
	return &MoveShape{model: m, rerouter: r, shapeID: shapeID, from: from, to: to}
}

// Excluding keeps the listed shapes still when the moved shape is their container.
// Used when those children are moved by their own command.
func (c *MoveShape) Excluding(ids []string) *MoveShape {
	c.exclude = make(map[string]bool, len(ids))
	for _, id := range ids {
		c.exclude[id] = true
	}
	return c
}

func (c *MoveShape) Execute() { c.moveTo(c.to, c.to.X-c.from.X, c.to.Y-c.from.Y) }
func (c *MoveShape) Undo()    { c.moveTo(c.from, c.from.X-c.to.X, c.from.Y-c.to.Y) }
func (c *MoveShape) Label() string {
	return "Move Shape"
}

func (c *MoveShape) moveTo(p geometry.Point, dx, dy float64) {
	s := c.model.UpdateShape(c.shapeID, diagram.MovePatch(p.X, p.Y))
	if s == nil {
		return
	}
	rerouteShape(c.rerouter, c.shapeID)
	if !c.model.IsContainer(s) {
		return
	}
	for _, child := range c.model.ChildrenOfContainer(c.shapeID) {
		if c.exclude[child.ID] || child.Locked {
			continue
		}
		c.model.UpdateShape(child.ID, diagram.MovePatch(child.X+dx, child.Y+dy))
		rerouteShape(c.rerouter, child.ID)
	}
}

// ResizeShape changes the bounds and rotation of a shape.
type ResizeShape struct {
	model    *diagram.Diagram
	rerouter Rerouter
	shapeID  string
	from, to Bounds
}

// Bounds is the geometry touched by a resize or rotation.
type Bounds struct {
	geometry.Rect
	Rotation float64
}

// BoundsOf captures the current bounds of s.
func BoundsOf(s *diagram.Shape) Bounds {
	return Bounds{Rect: s.Bounds(), Rotation: s.Rotation}
}

// NewResizeShape creates a resize command.
func NewResizeShape(m *diagram.Diagram, r Rerouter, shapeID string, from, to Bounds) *ResizeShape {
	return &ResizeShape{model: m, rerouter: r, shapeID: shapeID, from: from, to: to}
}

func (c *ResizeShape) Execute() { c.apply(c.to) }
func (c *ResizeShape) Undo()    { c.apply(c.from) }
func (c *ResizeShape) Label() string {
	return "Resize Shape"
}

func (c *ResizeShape) apply(b Bounds) {
	p := diagram.BoundsPatch(b.Rect)
	rot := b.Rotation
	p.Rotation = &rot
	if c.model.UpdateShape(c.shapeID, p) != nil {
		rerouteShape(c.rerouter, c.shapeID)
	}
}

// StyleProperty names the map a ChangeStyle command edits.
type StyleProperty string

const (
	PropertyStyle     StyleProperty = "style"
	PropertyTextStyle StyleProperty = "textStyle"
)

// ChangeStyle deep-merges values into one style map of a shape.
// Undo restores the whole previous map.
type ChangeStyle struct {
	model    *diagram.Diagram
	shapeID  string
	property StyleProperty
	value    diagram.Style
	previous diagram.Style
}

// NewChangeStyle creates a style change command.
func NewChangeStyle(m *diagram.Diagram, shapeID string, property StyleProperty, value diagram.Style) *ChangeStyle {
	return &ChangeStyle{model: m, shapeID: shapeID, property: property, value: value.Clone()}
}

func (c *ChangeStyle) Execute() {
	s := c.model.GetShape(c.shapeID)
	if s == nil {
		return
	}
	var p diagram.ShapePatch
	if c.property == PropertyTextStyle {
		c.previous = s.TextStyle.Clone()
		p.TextStyle = c.value.Clone()
	} else {
		c.previous = s.Style.Clone()
		p.Style = c.value.Clone()
	}
	c.model.UpdateShapeDeep(c.shapeID, p)
}

func (c *ChangeStyle) Undo() {
	prev := c.previous
	if prev == nil {
		prev = diagram.Style{}
	}
	var p diagram.ShapePatch
	if c.property == PropertyTextStyle {
		p.TextStyle = prev
	} else {
		p.Style = prev
	}
	c.model.UpdateShape(c.shapeID, p)
}

func (c *ChangeStyle) Label() string { return "Change Style" }

// ChangeText replaces the text of a shape.
type ChangeText struct {
	model    *diagram.Diagram
	shapeID  string
	from, to string
}

// NewChangeText creates a text edit command.
func NewChangeText(m *diagram.Diagram, shapeID, from, to string) *ChangeText {
	return &ChangeText{model: m, shapeID: shapeID, from: from, to: to}
}

func (c *ChangeText) Execute() { c.model.UpdateShape(c.shapeID, diagram.TextPatch(c.to)) }
func (c *ChangeText) Undo()    { c.model.UpdateShape(c.shapeID, diagram.TextPatch(c.from)) }
func (c *ChangeText) Label() string {
	return "Edit Text"
}

// ChangeShapeData deep-merges values into the data bag of a shape.
type ChangeShapeData struct {
	model    *diagram.Diagram
	shapeID  string
	value    diagram.Data
	previous diagram.Data
}

// NewChangeShapeData creates a data change command.
func NewChangeShapeData(m *diagram.Diagram, shapeID string, value diagram.Data) *ChangeShapeData {
	return &ChangeShapeData{model: m, shapeID: shapeID, value: value.Clone()}
}

func (c *ChangeShapeData) Execute() {
	s := c.model.GetShape(c.shapeID)
	if s == nil {
		return
	}
	c.previous = s.Data.Clone()
	c.model.UpdateShapeDeep(c.shapeID, diagram.ShapePatch{Data: c.value.Clone()})
}

func (c *ChangeShapeData) Undo() {
	prev := c.previous
	if prev == nil {
		prev = diagram.Data{}
	}
	c.model.UpdateShape(c.shapeID, diagram.ShapePatch{Data: prev})
}

func (c *ChangeShapeData) Label() string { return "Change Data" }

// SetContainer moves a shape into or out of a container.
type SetContainer struct {
	model    *diagram.Diagram
	shapeID  string
	from, to string
}

// NewSetContainer creates a parenting command. An empty id means no container.
func NewSetContainer(m *diagram.Diagram, shapeID, from, to string) *SetContainer {
	return &SetContainer{model: m, shapeID: shapeID, from: from, to: to}
}

func (c *SetContainer) Execute() { c.model.SetContainer(c.shapeID, c.to) }
func (c *SetContainer) Undo()    { c.model.SetContainer(c.shapeID, c.from) }
func (c *SetContainer) Label() string {
	return "Set Container"
}

// AddConnector inserts a connector snapshot.
type AddConnector struct {
	model     *diagram.Diagram
	connector *diagram.Connector
}

// NewAddConnector snapshots conn.
func NewAddConnector(m *diagram.Diagram, conn *diagram.Connector) *AddConnector {
	snap := conn.Clone()
	if snap.ID == "" {
		snap.ID = diagram.NewID(diagram.PrefixConnector)
	}
	return &AddConnector{model: m, connector: snap}
}

func (c *AddConnector) Execute() { c.model.AddConnector(c.connector.Clone()) }
func (c *AddConnector) Undo()    { c.model.RemoveConnector(c.connector.ID) }
func (c *AddConnector) Label() string {
	return "Add Connector"
}

// ConnectorID returns the id of the inserted connector.
func (c *AddConnector) ConnectorID() string { return c.connector.ID }

// RemoveConnector deletes a connector and restores it at its old position on undo.
type RemoveConnector struct {
	model       *diagram.Diagram
	connectorID string
	connector   *diagram.Connector
	index       int
}

// NewRemoveConnector creates a delete command for a connector.
func NewRemoveConnector(m *diagram.Diagram, connectorID string) *RemoveConnector {
	return &RemoveConnector{model: m, connectorID: connectorID, index: -1}
}

func (c *RemoveConnector) Execute() {
	conn := c.model.GetConnector(c.connectorID)
	if conn == nil {
		c.connector = nil
		return
	}
	c.connector = conn.Clone()
	c.index = c.model.ConnectorIndex(c.connectorID)
	c.model.RemoveConnector(c.connectorID)
}

func (c *RemoveConnector) Undo() {
	if c.connector == nil || c.model.GetConnector(c.connectorID) != nil {
		return
	}
	c.model.AddConnectorAt(c.connector.Clone(), c.index)
}

func (c *RemoveConnector) Label() string { return "Delete Connector" }

// ChangeConnectorStyle replaces the style map of a connector.
type ChangeConnectorStyle struct {
	model       *diagram.Diagram
	connectorID string
	from, to    diagram.Style
}

// NewChangeConnectorStyle creates a connector style command.
func NewChangeConnectorStyle(m *diagram.Diagram, connectorID string, from, to diagram.Style) *ChangeConnectorStyle {
	return &ChangeConnectorStyle{model: m, connectorID: connectorID, from: from.Clone(), to: to.Clone()}
}

func (c *ChangeConnectorStyle) Execute() { c.set(c.to) }
func (c *ChangeConnectorStyle) Undo()    { c.set(c.from) }
func (c *ChangeConnectorStyle) Label() string {
	return "Change Connector Style"
}

func (c *ChangeConnectorStyle) set(s diagram.Style) {
	if s == nil {
		s = diagram.Style{}
	}
	c.model.UpdateConnector(c.connectorID, diagram.ConnectorPatch{Style: s})
}

// ChangeConnectorRouting switches the routing type of a connector and re-routes it.
type ChangeConnectorRouting struct {
	model       *diagram.Diagram
	rerouter    Rerouter
	connectorID string
	to          diagram.RoutingType

	from   diagram.RoutingType
	points []geometry.Point
}

// NewChangeConnectorRouting creates a routing type command.
func NewChangeConnectorRouting(m *diagram.Diagram, r Rerouter, connectorID string, to diagram.RoutingType) *ChangeConnectorRouting {
	return &ChangeConnectorRouting{model: m, rerouter: r, connectorID: connectorID, to: to}
}

func (c *ChangeConnectorRouting) Execute() {
	conn := c.model.GetConnector(c.connectorID)
	if conn == nil {
		return
	}
	c.from = conn.RoutingType
	c.points = make([]geometry.Point, len(conn.Points))
	copy(c.points, conn.Points)

	rt := c.to
	c.model.UpdateConnector(c.connectorID, diagram.ConnectorPatch{RoutingType: &rt})
	if c.rerouter != nil {
		c.rerouter.RerouteConnector(c.connectorID)
	}
}

func (c *ChangeConnectorRouting) Undo() {
	rt := c.from
	c.model.UpdateConnector(c.connectorID, diagram.ConnectorPatch{RoutingType: &rt, Points: c.points})
}

func (c *ChangeConnectorRouting) Label() string { return "Change Routing" }

// Group creates a group with a stable id so that redo recreates the same group.
type Group struct {
	model    *diagram.Diagram
	groupID  string
	shapeIDs []string
	name     string
	previous []*diagram.Group
}

// NewGroup creates a grouping command.
func NewGroup(m *diagram.Diagram, shapeIDs []string, name string) *Group {
	ids := make([]string, len(shapeIDs))
	copy(ids, shapeIDs)
	return &Group{model: m, groupID: diagram.NewID(diagram.PrefixGroup), shapeIDs: ids, name: name}
}

// GroupID returns the id of the group the command creates.
func (c *Group) GroupID() string { return c.groupID }

func (c *Group) Execute() {
	// Members leave their previous groups; remember those for undo
	c.previous = c.previous[:0]
	seen := make(map[string]bool)
	for _, sid := range c.shapeIDs {
		if g := c.model.GroupForShape(sid); g != nil && !seen[g.ID] {
			seen[g.ID] = true
			c.previous = append(c.previous, g.Clone())
		}
	}
	c.model.InsertGroup(&diagram.Group{ID: c.groupID, ShapeIDs: append([]string(nil), c.shapeIDs...), Name: c.name})
}

func (c *Group) Undo() {
	c.model.RemoveGroup(c.groupID)
	for _, g := range c.previous {
		c.model.SetGroupMembers(g.ID, g.ShapeIDs)
	}
}

func (c *Group) Label() string { return "Group" }

// Ungroup dissolves a group and restores it at its old position on undo.
type Ungroup struct {
	model   *diagram.Diagram
	groupID string
	group   *diagram.Group
	index   int
}

// NewUngroup creates an ungrouping command.
func NewUngroup(m *diagram.Diagram, groupID string) *Ungroup {
	return &Ungroup{model: m, groupID: groupID, index: -1}
}

func (c *Ungroup) Execute() {
	g := c.model.GetGroup(c.groupID)
	if g == nil {
		c.group = nil
		return
	}
	c.group = g.Clone()
	c.index = c.model.GroupIndex(c.groupID)
	c.model.RemoveGroup(c.groupID)
}

func (c *Ungroup) Undo() {
	if c.group == nil || c.model.GetGroup(c.groupID) != nil {
		return
	}
	c.model.InsertGroupAt(c.group.Clone(), c.index)
}

func (c *Ungroup) Label() string { return "Ungroup" }
