package diagram

import "go.uber.org/zap"

// Connectors returns all connectors in insertion order.
func (d *Diagram) Connectors() []*Connector {
	out := make([]*Connector, len(d.connectors))
	copy(out, d.connectors)
	return out
}

// GetConnector returns the connector with the given id, or nil.
func (d *Diagram) GetConnector(id string) *Connector {
	return d.connectorIndex[id]
}

// ConnectorIndex returns the position of a connector, or -1.
func (d *Diagram) ConnectorIndex(id string) int {
	for i, c := range d.connectors {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddConnector stores a connector. A missing id or layer is assigned;
// a duplicate id is refused with nil.
func (d *Diagram) AddConnector(c *Connector) *Connector {
	return d.AddConnectorAt(c, len(d.connectors))
}

// AddConnectorAt stores a connector at the given position.
func (d *Diagram) AddConnectorAt(c *Connector, index int) *Connector {
	if c == nil {
		return nil
	}
	if c.ID == "" {
		c.ID = NewID(PrefixConnector)
	}
	if _, exists := d.connectorIndex[c.ID]; exists {
		d.logger.Debug("duplicate connector id refused", zap.String("connector", c.ID))
		return nil
	}
	if c.LayerID == "" || d.GetLayer(c.LayerID) == nil {
		c.LayerID = d.layers[0].ID
	}
	if !c.RoutingType.Valid() {
		c.RoutingType = RoutingOrthogonal
	}

	if index < 0 || index > len(d.connectors) {
		index = len(d.connectors)
	}
	d.connectors = append(d.connectors, nil)
	copy(d.connectors[index+1:], d.connectors[index:])
	d.connectors[index] = c
	d.connectorIndex[c.ID] = c

	d.touch()
	d.notify(Event{Kind: ConnectorAdded, Connector: c})
	return c
}

// RemoveConnector deletes a connector. Returns nil when the id is unknown.
func (d *Diagram) RemoveConnector(id string) *Connector {
	idx := d.ConnectorIndex(id)
	if idx == -1 {
		return nil
	}
	c := d.connectors[idx]
	d.connectors = append(d.connectors[:idx], d.connectors[idx+1:]...)
	delete(d.connectorIndex, id)
	d.touch()
	d.notify(Event{Kind: ConnectorRemoved, Connector: c})
	return c
}

// UpdateConnector applies a patch to a connector.
func (d *Diagram) UpdateConnector(id string, p ConnectorPatch) *Connector {
	c := d.connectorIndex[id]
	if c == nil {
		return nil
	}
	if p.LayerID != nil && d.GetLayer(*p.LayerID) == nil {
		p.LayerID = nil
	}
	if p.RoutingType != nil && !p.RoutingType.Valid() {
		p.RoutingType = nil
	}
	p.apply(c)
	d.touch()
	d.notify(Event{Kind: ConnectorChanged, Connector: c})
	return c
}

// ConnectorsForShape returns every connector with either end on shapeID.
func (d *Diagram) ConnectorsForShape(shapeID string) []*Connector {
	var out []*Connector
	for _, c := range d.connectors {
		if c.References(shapeID) {
			out = append(out, c)
		}
	}
	return out
}
