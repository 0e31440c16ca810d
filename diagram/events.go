package diagram

// EventKind identifies a change notification emitted by the model.
type EventKind int

const (
	ShapeAdded EventKind = iota
	ShapeChanged
	ShapeRemoved
	ShapeReordered
	ConnectorAdded
	ConnectorChanged
	ConnectorRemoved
	LayerAdded
	LayerChanged
	LayerRemoved
	GroupAdded
	GroupChanged
	GroupRemoved
	DiagramLoaded
	DiagramCleared
	// Changed fires after every mutating event.
	Changed
)

var eventNames = map[EventKind]string{
	ShapeAdded:       "shape:added",
	ShapeChanged:     "shape:changed",
	ShapeRemoved:     "shape:removed",
	ShapeReordered:   "shape:reordered",
	ConnectorAdded:   "connector:added",
	ConnectorChanged: "connector:changed",
	ConnectorRemoved: "connector:removed",
	LayerAdded:       "layer:added",
	LayerChanged:     "layer:changed",
	LayerRemoved:     "layer:removed",
	GroupAdded:       "group:added",
	GroupChanged:     "group:changed",
	GroupRemoved:     "group:removed",
	DiagramLoaded:    "diagram:loaded",
	DiagramCleared:   "diagram:cleared",
	Changed:          "changed",
}

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event carries the entity affected by a mutation. Only the field matching
// the event kind is set; Changed, DiagramLoaded and DiagramCleared carry nothing.
type Event struct {
	Kind      EventKind
	Shape     *Shape
	Connector *Connector
	Layer     *Layer
	Group     *Group
}

// Handler receives model events synchronously.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	kind EventKind
	id   uint64
}

type listener struct {
	id      uint64
	handler Handler
}

// emitter is a synchronous observer registry keyed by event kind.
type emitter struct {
	listeners map[EventKind][]listener
	nextID    uint64
}

func (e *emitter) subscribe(kind EventKind, h Handler) Subscription {
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]listener)
	}
	e.nextID++
	e.listeners[kind] = append(e.listeners[kind], listener{id: e.nextID, handler: h})
	return Subscription{kind: kind, id: e.nextID}
}

func (e *emitter) unsubscribe(sub Subscription) {
	list := e.listeners[sub.kind]
	for i, l := range list {
		if l.id == sub.id {
			// Copy so an emit in progress keeps iterating its own snapshot
			next := make([]listener, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			e.listeners[sub.kind] = next
			return
		}
	}
}

func (e *emitter) emit(ev Event) {
	for _, l := range e.listeners[ev.Kind] {
		l.handler(ev)
	}
}
