// Package diagram contains the authoritative entity store of the flowcraft editor.
package diagram

import "flowcraft/geometry"

// Side identifies the edge of a shape a port sits on.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return s
	}
}

// Port is a named anchor on a shape boundary where connectors attach.
type Port struct {
	ID     string  `json:"id"`
	Side   Side    `json:"side"`
	Offset float64 `json:"offset"` // Fraction along the side, 0..1
}

// RoutingType is the path strategy of a connector.
type RoutingType string

const (
	RoutingStraight   RoutingType = "straight"
	RoutingCurved     RoutingType = "curved"
	RoutingOrthogonal RoutingType = "orthogonal"
)

// Valid reports whether r is one of the known routing types.
func (r RoutingType) Valid() bool {
	switch r {
	case RoutingStraight, RoutingCurved, RoutingOrthogonal:
		return true
	}
	return false
}

// Style is a free-form attribute bag (fill, stroke, strokeWidth, ...).
type Style map[string]any

// String returns the string value stored at key, or "" when absent.
func (s Style) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric value stored at key, or 0 when absent.
func (s Style) Float(key string) float64 {
	return toFloat(s[key])
}

// Data is the type-specific metadata bag of a shape (lanes, timeline bounds, ...).
type Data map[string]any

// Shape represents a node on the canvas.
type Shape struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Rotation    float64 `json:"rotation"`
	Text        string  `json:"text"`
	TextStyle   Style   `json:"textStyle,omitempty"`
	Style       Style   `json:"style,omitempty"`
	LayerID     string  `json:"layerId"`
	GroupID     string  `json:"groupId,omitempty"`
	ContainerID string  `json:"containerId,omitempty"` // Parent container, never set on containers
	Locked      bool    `json:"locked,omitempty"`
	Ports       []Port  `json:"ports,omitempty"` // Empty means inherit from the catalog
	Data        Data    `json:"data,omitempty"`
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s *Shape) Bounds() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Center returns the center point of the shape.
func (s *Shape) Center() geometry.Point {
	return s.Bounds().Center()
}

// Label is the optional text placed along a connector.
type Label struct {
	Text     string  `json:"text"`
	Position float64 `json:"position"` // 0 = source end, 1 = target end
}

// Connector represents a routed edge between two shapes or free points.
type Connector struct {
	ID            string           `json:"id"`
	SourceShapeID string           `json:"sourceShapeId,omitempty"`
	SourcePortID  string           `json:"sourcePortId,omitempty"`
	TargetShapeID string           `json:"targetShapeId,omitempty"`
	TargetPortID  string           `json:"targetPortId,omitempty"`
	SourcePoint   *geometry.Point  `json:"sourcePoint,omitempty"` // Free end when SourceShapeID is empty
	TargetPoint   *geometry.Point  `json:"targetPoint,omitempty"` // Free end when TargetShapeID is empty
	Points        []geometry.Point `json:"points"`                // Computed cache, not authored
	RoutingType   RoutingType      `json:"routingType"`
	Style         Style            `json:"style,omitempty"`
	StartArrow    string           `json:"startArrow"`
	EndArrow      string           `json:"endArrow"`
	Label         *Label           `json:"label,omitempty"`
	LayerID       string           `json:"layerId"`
}

// References reports whether either end of the connector is attached to shapeID.
func (c *Connector) References(shapeID string) bool {
	return shapeID != "" && (c.SourceShapeID == shapeID || c.TargetShapeID == shapeID)
}

// Dangling reports whether at least one end is not attached to a shape.
func (c *Connector) Dangling() bool {
	return c.SourceShapeID == "" || c.TargetShapeID == ""
}

// Layer groups entities for visibility and locking.
type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
	Visible bool   `json:"visible"`
	Locked  bool   `json:"locked"`
}

// Group is an ordered set of shapes selected and moved together.
type Group struct {
	ID       string   `json:"id"`
	ShapeIDs []string `json:"shapeIds"`
	Name     string   `json:"name"`
}

// Contains reports whether shapeID is a member of the group.
func (g *Group) Contains(shapeID string) bool {
	for _, id := range g.ShapeIDs {
		if id == shapeID {
			return true
		}
	}
	return false
}

// Settings holds canvas-wide editor settings.
type Settings struct {
	GridSize    float64 `json:"gridSize"`
	SnapToGrid  bool    `json:"snapToGrid"`
	ShowGrid    bool    `json:"showGrid"`
	CanvasColor string  `json:"canvasColor"`
}

// Defaults used when a diagram is created, cleared or loaded with missing fields.
const (
	DefaultName        = "Untitled Diagram"
	DefaultLayerID     = "layer_default"
	DefaultLayerName   = "Layer 1"
	DefaultGroupName   = "Group"
	DefaultGridSize    = 40
	DefaultCanvasColor = "#ffffff"
)

// DefaultSettings returns the settings of a new diagram.
func DefaultSettings() Settings {
	return Settings{
		GridSize:    DefaultGridSize,
		SnapToGrid:  true,
		ShowGrid:    true,
		CanvasColor: DefaultCanvasColor,
	}
}

func defaultLayer() *Layer {
	return &Layer{ID: DefaultLayerID, Name: DefaultLayerName, Visible: true, Order: 0}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
