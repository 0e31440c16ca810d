package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Document is the plain serializable tree exchanged with persistence and export.
// msgpack encoding reuses the json tags.
type Document struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Created    int64        `json:"created"`
	Modified   int64        `json:"modified"`
	Settings   *Settings    `json:"settings,omitempty"`
	Layers     []*Layer     `json:"layers"`
	Shapes     []*Shape     `json:"shapes"`
	Connectors []*Connector `json:"connectors"`
	Groups     []*Group     `json:"groups"`
}

// newDocument returns a document whose settings are pre-filled with defaults,
// so that decoding only overrides the fields present in the input.
func newDocument() *Document {
	s := DefaultSettings()
	return &Document{Settings: &s}
}

// ToDocument returns a deep copy of the full diagram state.
func (d *Diagram) ToDocument() *Document {
	settings := d.settings
	doc := &Document{
		ID:         d.ID,
		Name:       d.Name,
		Created:    d.Created,
		Modified:   d.Modified,
		Settings:   &settings,
		Layers:     make([]*Layer, len(d.layers)),
		Shapes:     make([]*Shape, len(d.shapes)),
		Connectors: make([]*Connector, len(d.connectors)),
		Groups:     make([]*Group, len(d.groups)),
	}
	for i, l := range d.layers {
		doc.Layers[i] = l.Clone()
	}
	for i, s := range d.shapes {
		doc.Shapes[i] = s.Clone()
	}
	for i, c := range d.connectors {
		doc.Connectors[i] = c.Clone()
	}
	for i, g := range d.groups {
		doc.Groups[i] = g.Clone()
	}
	return doc
}

// LoadDocument replaces the whole diagram state with doc and rebuilds the id maps.
// The diagram takes ownership of the entities in doc. Missing parts fall back to
// the defaults of a new diagram.
func (d *Diagram) LoadDocument(doc *Document) {
	if doc == nil {
		doc = newDocument()
	}

	d.ID = doc.ID
	if d.ID == "" {
		d.ID = NewID(PrefixDiagram)
	}
	d.Name = doc.Name
	if d.Name == "" {
		d.Name = DefaultName
	}
	d.Created = doc.Created
	if d.Created == 0 {
		d.Created = d.stamp()
	}
	d.Modified = doc.Modified
	if d.Modified == 0 {
		d.Modified = d.stamp()
	}

	d.settings = DefaultSettings()
	if doc.Settings != nil {
		d.settings = *doc.Settings
		if d.settings.GridSize <= 0 {
			d.settings.GridSize = DefaultGridSize
		}
		d.settings.CanvasColor = NormalizeColor(d.settings.CanvasColor, DefaultCanvasColor)
	}

	d.layers = d.layers[:0]
	for _, l := range doc.Layers {
		if l != nil {
			d.layers = append(d.layers, l)
		}
	}
	if len(d.layers) == 0 {
		d.layers = []*Layer{defaultLayer()}
	}

	d.shapes = compact(doc.Shapes)
	d.connectors = compact(doc.Connectors)
	d.groups = compact(doc.Groups)
	ensureUniqueShapeIDs(d.shapes)
	ensureUniqueConnectorIDs(d.connectors)

	d.shapeIndex = make(map[string]*Shape, len(d.shapes))
	for _, s := range d.shapes {
		d.shapeIndex[s.ID] = s
		if d.GetLayer(s.LayerID) == nil {
			s.LayerID = d.layers[0].ID
		}
	}
	d.connectorIndex = make(map[string]*Connector, len(d.connectors))
	for _, c := range d.connectors {
		d.connectorIndex[c.ID] = c
		if d.GetLayer(c.LayerID) == nil {
			c.LayerID = d.layers[0].ID
		}
		if !c.RoutingType.Valid() {
			c.RoutingType = RoutingOrthogonal
		}
	}
	d.repairMembership()

	d.logger.Debug("diagram loaded",
		zap.String("diagram", d.ID),
		zap.Int("shapes", len(d.shapes)),
		zap.Int("connectors", len(d.connectors)))
	d.notify(Event{Kind: DiagramLoaded})
}

// repairMembership makes group lists and shape back-references agree, and
// drops container references that would nest containers or point nowhere.
func (d *Diagram) repairMembership() {
	owner := make(map[string]string)
	for _, g := range d.groups {
		if g.Name == "" {
			g.Name = DefaultGroupName
		}
		members := make([]string, 0, len(g.ShapeIDs))
		for _, sid := range g.ShapeIDs {
			if _, ok := d.shapeIndex[sid]; !ok {
				continue
			}
			if _, taken := owner[sid]; taken {
				continue
			}
			owner[sid] = g.ID
			members = append(members, sid)
		}
		g.ShapeIDs = members
	}
	for _, s := range d.shapes {
		s.GroupID = owner[s.ID]
		if s.ContainerID == "" {
			continue
		}
		parent := d.shapeIndex[s.ContainerID]
		if parent == nil || parent == s || d.IsContainer(s) {
			s.ContainerID = ""
		}
	}
}

func compact[T any](items []*T) []*T {
	out := make([]*T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// MarshalJSON encodes the diagram as its Document.
func (d *Diagram) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToDocument())
}

// DecodeJSON parses a JSON document without loading it. Missing settings
// fields keep their defaults.
func DecodeJSON(data []byte) (*Document, error) {
	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode diagram json: %w", err)
	}
	return doc, nil
}

// LoadJSON replaces the diagram state with a JSON document.
func (d *Diagram) LoadJSON(data []byte) error {
	doc, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	d.LoadDocument(doc)
	return nil
}

// MarshalMsgpack encodes the diagram as a msgpack Document.
func (d *Diagram) MarshalMsgpack() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(d.ToDocument()); err != nil {
		return nil, fmt.Errorf("encode diagram msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack parses a msgpack document without loading it.
func DecodeMsgpack(data []byte) (*Document, error) {
	doc := newDocument()
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode diagram msgpack: %w", err)
	}
	return doc, nil
}

// LoadMsgpack replaces the diagram state with a msgpack document.
func (d *Diagram) LoadMsgpack(data []byte) error {
	doc, err := DecodeMsgpack(data)
	if err != nil {
		return err
	}
	d.LoadDocument(doc)
	return nil
}
