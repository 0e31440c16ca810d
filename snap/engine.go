// Package snap computes drag and resize snapping against the other shapes of
// a diagram, plus the guide and gap geometry shown while the pointer moves.
//
// Every call recomputes from the current shape positions; the engine keeps no
// state between ticks.
package snap

import (
	"go.uber.org/zap"

	"flowcraft/geometry"
)

const (
	// DefaultThreshold is the maximum distance at which an edge or center is pulled into alignment.
	DefaultThreshold = 10
	// MinGap and MaxGap bound the gaps reported while dragging.
	MinGap = 2
	MaxGap = 300
	// SelectionMaxGap bounds the gaps reported for a static selection.
	SelectionMaxGap = 400
	// MinSize is the smallest width or height a resize can produce without a grid.
	MinSize = 20

	alignTolerance      = 0.5
	gridGuideOverhang   = 30
	alignGuideOverhang  = 20
	resizeGuideOverhang = 50
)

// Guide is a line the renderer draws while an alignment is active.
type Guide struct {
	From geometry.Point `json:"from"`
	To   geometry.Point `json:"to"`
	Grid bool           `json:"grid,omitempty"` // Edge rests on a grid line rather than another shape
}

// Vertical reports whether the guide runs along the y axis.
func (g Guide) Vertical() bool {
	return g.From.X == g.To.X
}

// Side names the direction of a gap, seen from the dragged shapes.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// String returns a string representation of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Distance is a gap indicator between the dragged group and its nearest
// neighbour on one side. Value is the gap rounded to whole units.
type Distance struct {
	Side         Side           `json:"side"`
	From         geometry.Point `json:"from"`
	To           geometry.Point `json:"to"`
	Value        float64        `json:"value"`
	ShapeID      string         `json:"shapeId"`
	EqualSpacing bool           `json:"equalSpacing,omitempty"`

	gap float64
}

// Rerouter recomputes the connectors attached to a shape.
type Rerouter interface {
	RerouteShape(shapeID string)
}

// Engine computes snapping for one editor.
type Engine struct {
	threshold float64
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the snap threshold.
func WithThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 {
			e.threshold = t
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a snap engine.
func New(opts ...Option) *Engine {
	e := &Engine{threshold: DefaultThreshold, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured snap threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}
