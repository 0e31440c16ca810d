package diagram

import "flowcraft/geometry"

// Catalog resolves a shape type tag into its capabilities.
// The appearance of each type lives outside the core; only ports,
// default size and container behaviour are needed here.
type Catalog interface {
	// Lookup returns the definition registered for shapeType.
	Lookup(shapeType string) (Definition, bool)
}

// Definition is the capability record of a shape type.
type Definition struct {
	Type          string
	Ports         []Port // nil means the standard four ports
	DefaultWidth  float64
	DefaultHeight float64
	Container     bool
	Lanes         LaneLayout // Optional, only for types with internal lanes
}

// LaneLayout is implemented by shape types that split their area into lanes.
type LaneLayout interface {
	// LaneCenters returns the absolute y coordinate of the middle of each lane.
	LaneCenters(s *Shape) []float64
}

// StandardPorts returns the four mid-side ports every shape inherits by default.
func StandardPorts() []Port {
	return []Port{
		{ID: "top", Side: SideTop, Offset: 0.5},
		{ID: "right", Side: SideRight, Offset: 0.5},
		{ID: "bottom", Side: SideBottom, Offset: 0.5},
		{ID: "left", Side: SideLeft, Offset: 0.5},
	}
}

// PortPosition returns the world position of port on shape.
// Ports with an unknown side resolve to the shape center.
func PortPosition(s *Shape, p Port) geometry.Point {
	switch p.Side {
	case SideTop:
		return geometry.Point{X: s.X + s.Width*p.Offset, Y: s.Y}
	case SideBottom:
		return geometry.Point{X: s.X + s.Width*p.Offset, Y: s.Y + s.Height}
	case SideLeft:
		return geometry.Point{X: s.X, Y: s.Y + s.Height*p.Offset}
	case SideRight:
		return geometry.Point{X: s.X + s.Width, Y: s.Y + s.Height*p.Offset}
	default:
		return s.Center()
	}
}

// PortDirection returns the outward unit vector of port.
func PortDirection(p Port) geometry.Point {
	switch p.Side {
	case SideTop:
		return geometry.Point{X: 0, Y: -1}
	case SideBottom:
		return geometry.Point{X: 0, Y: 1}
	case SideLeft:
		return geometry.Point{X: -1, Y: 0}
	case SideRight:
		return geometry.Point{X: 1, Y: 0}
	default:
		return geometry.Point{}
	}
}

// FindPort returns the port with the given id.
func FindPort(ports []Port, id string) (Port, bool) {
	for _, p := range ports {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}
