// Package routing computes connector paths and chooses ports for new connections.
package routing

import (
	"math"

	"go.uber.org/zap"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

const (
	// DefaultClearance is how far a path travels straight out of a port before turning.
	DefaultClearance = 20
	// DefaultCurveFactor multiplies the clearance to place curve control points.
	DefaultCurveFactor = 3
)

// Default ports used when a connector names a port its shape does not have.
var (
	defaultSourcePort = diagram.Port{ID: "right", Side: diagram.SideRight, Offset: 0.5}
	defaultTargetPort = diagram.Port{ID: "left", Side: diagram.SideLeft, Offset: 0.5}
)

// Router computes connector paths against one diagram.
type Router struct {
	model       *diagram.Diagram
	clearance   float64
	curveFactor float64
	logger      *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithClearance sets the port clearance distance.
func WithClearance(c float64) Option {
	return func(r *Router) {
		if c > 0 {
			r.clearance = c
		}
	}
}

// WithCurveFactor sets the control point distance of curved routes, in clearances.
func WithCurveFactor(f float64) Option {
	return func(r *Router) {
		if f > 0 {
			r.curveFactor = f
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a router for the given diagram.
func New(m *diagram.Diagram, opts ...Option) *Router {
	r := &Router{
		model:       m,
		clearance:   DefaultClearance,
		curveFactor: DefaultCurveFactor,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clearance returns the configured clearance distance.
func (r *Router) Clearance() float64 {
	return r.clearance
}

// Route computes the path of a connector without storing it.
// An empty result means the path cannot be drawn: a referenced shape is
// missing, or a free end has no position.
func (r *Router) Route(c *diagram.Connector) []geometry.Point {
	if c == nil {
		return nil
	}
	src, dst, ok := r.endpoints(c)
	if !ok {
		return nil
	}

	switch c.RoutingType {
	case diagram.RoutingStraight:
		return []geometry.Point{src.pos, dst.pos}
	case diagram.RoutingCurved:
		reach := r.clearance * r.curveFactor
		return []geometry.Point{src.pos, src.extend(reach), dst.extend(reach), dst.pos}
	default:
		pts, strategy := orthogonal(src, dst, r.clearance)
		if ce := r.logger.Check(zap.DebugLevel, "orthogonal route"); ce != nil {
			ce.Write(zap.String("connector", c.ID), zap.Stringer("strategy", strategy), zap.Int("points", len(pts)))
		}
		return pts
	}
}

// endpoints resolves both ends of a connector. Ends attached to a shape use
// the port geometry; free ends face the opposite end along its dominant axis.
func (r *Router) endpoints(c *diagram.Connector) (src, dst endpoint, ok bool) {
	srcAttached, dstAttached := c.SourceShapeID != "", c.TargetShapeID != ""

	if srcAttached {
		if src, ok = r.portEndpoint(c.SourceShapeID, c.SourcePortID, defaultSourcePort); !ok {
			return
		}
	} else if src.pos, ok = freePoint(c.SourcePoint, c.Points, true); !ok {
		return
	}
	if dstAttached {
		if dst, ok = r.portEndpoint(c.TargetShapeID, c.TargetPortID, defaultTargetPort); !ok {
			return
		}
	} else if dst.pos, ok = freePoint(c.TargetPoint, c.Points, false); !ok {
		return
	}

	if !srcAttached {
		src.dir = facing(src.pos, dst.pos)
	}
	if !dstAttached {
		dst.dir = facing(dst.pos, src.pos)
	}
	return src, dst, true
}

func (r *Router) portEndpoint(shapeID, portID string, fallback diagram.Port) (endpoint, bool) {
	s := r.model.GetShape(shapeID)
	if s == nil {
		return endpoint{}, false
	}
	port, found := diagram.FindPort(r.model.PortsOf(s), portID)
	if !found {
		port = fallback
	}
	return endpoint{pos: diagram.PortPosition(s, port), dir: diagram.PortDirection(port)}, true
}

// freePoint returns the position of a dangling end: the explicit point when
// set, otherwise the matching end of the cached path.
func freePoint(explicit *geometry.Point, cached []geometry.Point, first bool) (geometry.Point, bool) {
	if explicit != nil {
		return *explicit, true
	}
	if len(cached) == 0 {
		return geometry.Point{}, false
	}
	if first {
		return cached[0], true
	}
	return cached[len(cached)-1], true
}

// facing returns the unit axis direction from p toward q along the dominant axis.
func facing(p, q geometry.Point) geometry.Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	switch {
	case dx == 0 && dy == 0:
		return geometry.Point{}
	case math.Abs(dx) >= math.Abs(dy):
		return geometry.Point{X: math.Copysign(1, dx)}
	default:
		return geometry.Point{Y: math.Copysign(1, dy)}
	}
}

// AutoSelectPorts returns the port pair with the smallest distance between
// their positions, over every combination of the two shapes' ports.
// ok is false when either shape has no ports.
func (r *Router) AutoSelectPorts(src, dst *diagram.Shape) (srcPort, dstPort diagram.Port, ok bool) {
	if src == nil || dst == nil {
		return diagram.Port{}, diagram.Port{}, false
	}
	best := math.Inf(1)
	for _, sp := range r.model.PortsOf(src) {
		spos := diagram.PortPosition(src, sp)
		for _, tp := range r.model.PortsOf(dst) {
			d := geometry.Distance(spos, diagram.PortPosition(dst, tp))
			if d < best {
				best = d
				srcPort, dstPort, ok = sp, tp, true
			}
		}
	}
	return srcPort, dstPort, ok
}

// NearestPort returns the port of s closest to p.
func (r *Router) NearestPort(s *diagram.Shape, p geometry.Point) (diagram.Port, bool) {
	if s == nil {
		return diagram.Port{}, false
	}
	var best diagram.Port
	found := false
	bestDist := math.Inf(1)
	for _, port := range r.model.PortsOf(s) {
		d := geometry.Distance(p, diagram.PortPosition(s, port))
		if d < bestDist {
			bestDist = d
			best = port
			found = true
		}
	}
	return best, found
}

// RerouteConnector recomputes and stores the path of one connector.
// A path that cannot be drawn leaves the previous points in place.
func (r *Router) RerouteConnector(connectorID string) {
	c := r.model.GetConnector(connectorID)
	if c == nil {
		return
	}
	pts := r.Route(c)
	if len(pts) < 2 {
		r.logger.Debug("connector not routable", zap.String("connector", connectorID))
		return
	}
	r.model.UpdateConnector(connectorID, diagram.ConnectorPatch{Points: pts})
}

// RerouteShape recomputes every connector attached to a shape.
func (r *Router) RerouteShape(shapeID string) {
	for _, c := range r.model.ConnectorsForShape(shapeID) {
		r.RerouteConnector(c.ID)
	}
}

// RerouteAll recomputes every connector of the diagram.
func (r *Router) RerouteAll() {
	for _, c := range r.model.Connectors() {
		r.RerouteConnector(c.ID)
	}
}
