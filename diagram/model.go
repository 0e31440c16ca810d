package diagram

import (
	"time"

	"go.uber.org/zap"
)

// Diagram is the aggregate root: it owns every shape, connector, layer and
// group, and notifies subscribers synchronously after each mutation.
// All mutation must go through its methods so that events stay consistent.
type Diagram struct {
	ID       string
	Name     string
	Created  int64 // Unix milliseconds
	Modified int64 // Unix milliseconds, bumped on every mutation

	settings   Settings
	layers     []*Layer
	shapes     []*Shape // Draw order, back to front
	connectors []*Connector
	groups     []*Group

	shapeIndex     map[string]*Shape
	connectorIndex map[string]*Connector

	catalog Catalog
	events  emitter
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithCatalog sets the shape capability lookup used for ports and containers.
func WithCatalog(c Catalog) Option {
	return func(d *Diagram) { d.catalog = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(d *Diagram) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Diagram) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates an empty diagram with one default layer.
func New(opts ...Option) *Diagram {
	d := &Diagram{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.ID = NewID(PrefixDiagram)
	d.Created = d.stamp()
	d.reset()
	return d
}

// reset restores the empty-diagram state without emitting anything.
func (d *Diagram) reset() {
	d.Name = DefaultName
	d.settings = DefaultSettings()
	d.layers = []*Layer{defaultLayer()}
	d.shapes = nil
	d.connectors = nil
	d.groups = nil
	d.shapeIndex = make(map[string]*Shape)
	d.connectorIndex = make(map[string]*Connector)
	d.Modified = d.stamp()
}

func (d *Diagram) stamp() int64 {
	return d.now().UnixMilli()
}

func (d *Diagram) touch() {
	d.Modified = d.stamp()
}

// notify emits the specific event followed by the generic Changed event.
func (d *Diagram) notify(ev Event) {
	d.events.emit(ev)
	d.events.emit(Event{Kind: Changed})
}

// Subscribe registers h for events of the given kind.
func (d *Diagram) Subscribe(kind EventKind, h Handler) Subscription {
	return d.events.subscribe(kind, h)
}

// Unsubscribe removes a handler registered with Subscribe.
func (d *Diagram) Unsubscribe(sub Subscription) {
	d.events.unsubscribe(sub)
}

// Catalog returns the shape capability lookup, which may be nil.
func (d *Diagram) Catalog() Catalog {
	return d.catalog
}

// Definition returns the capability record of the shape's type.
// Unknown types get the standard ports and no container behaviour.
func (d *Diagram) Definition(s *Shape) Definition {
	if s == nil {
		return Definition{}
	}
	if d.catalog != nil {
		if def, ok := d.catalog.Lookup(s.Type); ok {
			return def
		}
	}
	return Definition{Type: s.Type}
}

// PortsOf returns the effective ports of a shape: custom ports first,
// then the ports of its type, then the standard four.
func (d *Diagram) PortsOf(s *Shape) []Port {
	if s == nil {
		return nil
	}
	if len(s.Ports) > 0 {
		return s.Ports
	}
	def := d.Definition(s)
	if def.Ports != nil {
		return def.Ports
	}
	return StandardPorts()
}

// IsContainer reports whether the shape's type is a container.
func (d *Diagram) IsContainer(s *Shape) bool {
	return d.Definition(s).Container
}

// Settings returns a copy of the canvas settings.
func (d *Diagram) Settings() Settings {
	return d.settings
}

// UpdateSettings applies a settings patch.
func (d *Diagram) UpdateSettings(p SettingsPatch) {
	if p.GridSize != nil && *p.GridSize > 0 {
		d.settings.GridSize = *p.GridSize
	}
	if p.SnapToGrid != nil {
		d.settings.SnapToGrid = *p.SnapToGrid
	}
	if p.ShowGrid != nil {
		d.settings.ShowGrid = *p.ShowGrid
	}
	if p.CanvasColor != nil {
		d.settings.CanvasColor = NormalizeColor(*p.CanvasColor, d.settings.CanvasColor)
	}
	d.touch()
	d.events.emit(Event{Kind: Changed})
}

// Clear resets the diagram to its empty default state.
func (d *Diagram) Clear() {
	d.reset()
	d.logger.Debug("diagram cleared", zap.String("diagram", d.ID))
	d.notify(Event{Kind: DiagramCleared})
}
