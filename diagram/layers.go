package diagram

import (
	"fmt"

	"go.uber.org/zap"
)

// Layers returns the layers in order.
func (d *Diagram) Layers() []*Layer {
	out := make([]*Layer, len(d.layers))
	copy(out, d.layers)
	return out
}

// GetLayer returns the layer with the given id, or nil.
func (d *Diagram) GetLayer(id string) *Layer {
	for _, l := range d.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// AddLayer appends a new visible, unlocked layer.
// An empty name becomes "Layer N".
func (d *Diagram) AddLayer(name string) *Layer {
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(d.layers)+1)
	}
	return d.InsertLayer(&Layer{
		ID:      NewID(PrefixLayer),
		Name:    name,
		Visible: true,
		Order:   len(d.layers),
	})
}

// InsertLayer appends a layer with a caller-chosen id. Duplicate ids are refused with nil.
func (d *Diagram) InsertLayer(l *Layer) *Layer {
	if l == nil {
		return nil
	}
	if l.ID == "" {
		l.ID = NewID(PrefixLayer)
	}
	if d.GetLayer(l.ID) != nil {
		return nil
	}
	d.layers = append(d.layers, l)
	d.touch()
	d.notify(Event{Kind: LayerAdded, Layer: l})
	return l
}

// RemoveLayer deletes a layer and moves its shapes and connectors to the first
// remaining layer. The last layer can never be removed; nil is returned instead.
// Each reassigned shape or connector emits ShapeChanged or ConnectorChanged
// with no Changed of its own; the Changed that follows LayerRemoved covers them.
func (d *Diagram) RemoveLayer(id string) *Layer {
	if len(d.layers) <= 1 {
		return nil
	}
	idx := -1
	for i, l := range d.layers {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	layer := d.layers[idx]
	d.layers = append(d.layers[:idx], d.layers[idx+1:]...)

	first := d.layers[0]
	for _, s := range d.shapes {
		if s.LayerID == id {
			s.LayerID = first.ID
			d.events.emit(Event{Kind: ShapeChanged, Shape: s})
		}
	}
	for _, c := range d.connectors {
		if c.LayerID == id {
			c.LayerID = first.ID
			d.events.emit(Event{Kind: ConnectorChanged, Connector: c})
		}
	}

	d.touch()
	d.logger.Debug("layer removed", zap.String("layer", id), zap.String("reassigned_to", first.ID))
	d.notify(Event{Kind: LayerRemoved, Layer: layer})
	return layer
}

// UpdateLayer applies a patch to a layer.
func (d *Diagram) UpdateLayer(id string, p LayerPatch) *Layer {
	l := d.GetLayer(id)
	if l == nil {
		return nil
	}
	p.apply(l)
	d.touch()
	d.notify(Event{Kind: LayerChanged, Layer: l})
	return l
}
