// Package validation checks diagram documents for broken references before
// they are loaded into an editing session.
package validation

import (
	"fmt"

	"flowcraft/diagram"
)

// Validator checks that a document follows the model's consistency rules.
// Loading repairs most of these problems silently; the validator reports them.
type Validator struct {
	// Track validation errors
	errors []ValidationError
	// Options
	lookup     *diagram.Diagram // Catalog access for ports and container types
	strictMode bool             // Also flag unknown types, ports and tiny groups
}

// ValidationError describes one problem with the entity it was found on.
type ValidationError struct {
	Entity  string // shape, connector, layer, group or document
	ID      string
	Message string
}

// NewValidator creates a validator resolving shape types through catalog.
// A nil catalog gives every shape the standard ports and no container types.
func NewValidator(catalog diagram.Catalog) *Validator {
	return &Validator{lookup: diagram.New(diagram.WithCatalog(catalog))}
}

// SetStrictMode enables or disables strict validation.
func (v *Validator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks doc and returns every problem found, in document order.
func (v *Validator) Validate(doc *diagram.Document) []ValidationError {
	v.errors = nil
	if doc == nil {
		v.addError("document", "", "document is empty")
		return v.errors
	}

	layers := v.checkLayers(doc.Layers)
	shapes := v.checkShapes(doc.Shapes, layers)
	v.checkContainers(doc.Shapes, shapes)
	v.checkGroups(doc.Groups, doc.Shapes, shapes)
	v.checkConnectors(doc.Connectors, shapes, layers)
	return v.errors
}

// ValidateDiagram checks the current state of a live diagram.
func (v *Validator) ValidateDiagram(d *diagram.Diagram) []ValidationError {
	return v.Validate(d.ToDocument())
}

func (v *Validator) checkLayers(list []*diagram.Layer) map[string]bool {
	seen := make(map[string]bool, len(list))
	if len(list) == 0 {
		v.addError("document", "", "document has no layers")
	}
	for _, l := range list {
		if l == nil {
			v.addError("layer", "", "null layer entry")
			continue
		}
		if v.checkID("layer", l.ID, seen) {
			seen[l.ID] = true
		}
	}
	return seen
}

func (v *Validator) checkShapes(list []*diagram.Shape, layers map[string]bool) map[string]*diagram.Shape {
	byID := make(map[string]*diagram.Shape, len(list))
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		if s == nil {
			v.addError("shape", "", "null shape entry")
			continue
		}
		if !v.checkID("shape", s.ID, seen) {
			continue
		}
		seen[s.ID] = true
		byID[s.ID] = s

		if s.Width <= 0 || s.Height <= 0 {
			v.addError("shape", s.ID, "size %gx%g is not positive", s.Width, s.Height)
		}
		if !layers[s.LayerID] {
			v.addError("shape", s.ID, "layer %q does not exist", s.LayerID)
		}
		if v.strictMode && v.lookup.Catalog() != nil {
			if _, ok := v.lookup.Catalog().Lookup(s.Type); !ok {
				v.addError("shape", s.ID, "unknown type %q", s.Type)
			}
		}
	}
	return byID
}

func (v *Validator) checkContainers(list []*diagram.Shape, shapes map[string]*diagram.Shape) {
	for _, s := range list {
		if s == nil || s.ContainerID == "" {
			continue
		}
		parent := shapes[s.ContainerID]
		switch {
		case s.ContainerID == s.ID:
			v.addError("shape", s.ID, "shape contains itself")
		case parent == nil:
			v.addError("shape", s.ID, "container %q does not exist", s.ContainerID)
		case !v.lookup.IsContainer(parent):
			v.addError("shape", s.ID, "parent %q is not a container", s.ContainerID)
		case v.lookup.IsContainer(s):
			v.addError("shape", s.ID, "containers cannot be nested")
		}
	}
}

func (v *Validator) checkGroups(list []*diagram.Group, members []*diagram.Shape, shapes map[string]*diagram.Shape) {
	seen := make(map[string]bool, len(list))
	owner := make(map[string]string)
	for _, g := range list {
		if g == nil {
			v.addError("group", "", "null group entry")
			continue
		}
		if !v.checkID("group", g.ID, seen) {
			continue
		}
		seen[g.ID] = true

		for _, sid := range g.ShapeIDs {
			if shapes[sid] == nil {
				v.addError("group", g.ID, "member %q does not exist", sid)
				continue
			}
			if other, taken := owner[sid]; taken {
				v.addError("group", g.ID, "member %q already belongs to group %q", sid, other)
				continue
			}
			owner[sid] = g.ID
		}
		if v.strictMode && len(g.ShapeIDs) < 2 {
			v.addError("group", g.ID, "group has %d members", len(g.ShapeIDs))
		}
	}

	// Back-references must agree with the member lists
	for _, s := range members {
		if s == nil || shapes[s.ID] != s {
			continue
		}
		if s.GroupID != owner[s.ID] {
			v.addError("shape", s.ID, "group reference %q does not match membership %q", s.GroupID, owner[s.ID])
		}
	}
}

func (v *Validator) checkConnectors(list []*diagram.Connector, shapes map[string]*diagram.Shape, layers map[string]bool) {
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		if c == nil {
			v.addError("connector", "", "null connector entry")
			continue
		}
		if !v.checkID("connector", c.ID, seen) {
			continue
		}
		seen[c.ID] = true

		v.checkEnd(c.ID, "source", c.SourceShapeID, c.SourcePortID, c.SourcePoint != nil, shapes)
		v.checkEnd(c.ID, "target", c.TargetShapeID, c.TargetPortID, c.TargetPoint != nil, shapes)
		if c.RoutingType != "" && !c.RoutingType.Valid() {
			v.addError("connector", c.ID, "unknown routing type %q", c.RoutingType)
		}
		if !layers[c.LayerID] {
			v.addError("connector", c.ID, "layer %q does not exist", c.LayerID)
		}
	}
}

// checkEnd validates one end of a connector: attached to an existing shape,
// or free with a stored point.
func (v *Validator) checkEnd(id, end, shapeID, portID string, hasPoint bool, shapes map[string]*diagram.Shape) {
	if shapeID == "" {
		if !hasPoint {
			v.addError("connector", id, "%s end has neither a shape nor a point", end)
		}
		return
	}
	s := shapes[shapeID]
	if s == nil {
		v.addError("connector", id, "%s shape %q does not exist", end, shapeID)
		return
	}
	if v.strictMode {
		if _, ok := diagram.FindPort(v.lookup.PortsOf(s), portID); !ok {
			v.addError("connector", id, "%s port %q not found on shape %q", end, portID, shapeID)
		}
	}
}

// checkID reports empty and duplicate ids. Returns true when id is usable.
func (v *Validator) checkID(entity, id string, seen map[string]bool) bool {
	if id == "" {
		v.addError(entity, "", "missing id")
		return false
	}
	if seen[id] {
		v.addError(entity, id, "duplicate id")
		return false
	}
	return true
}

// addError adds a validation error.
func (v *Validator) addError(entity, id, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Message)
}
