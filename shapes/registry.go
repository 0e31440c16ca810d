// Package shapes provides the capability registry of the shape types known to the editor.
// Only what the core needs is recorded: ports, default size, container behaviour and lanes.
package shapes

import (
	"sort"

	"flowcraft/diagram"
)

// Entry is a registered shape type.
type Entry struct {
	diagram.Definition
	Category string
	Label    string
}

// Registry maps type tags to their capabilities. It implements diagram.Catalog.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds or replaces a shape type.
func (r *Registry) Register(e Entry) {
	if e.Type == "" {
		return
	}
	if _, exists := r.entries[e.Type]; !exists {
		r.order = append(r.order, e.Type)
	}
	r.entries[e.Type] = e
}

// Lookup returns the capabilities of a type.
func (r *Registry) Lookup(shapeType string) (diagram.Definition, bool) {
	e, ok := r.entries[shapeType]
	if !ok {
		return diagram.Definition{}, false
	}
	return e.Definition, true
}

// Entry returns the full registration of a type.
func (r *Registry) Entry(shapeType string) (Entry, bool) {
	e, ok := r.entries[shapeType]
	return e, ok
}

// Types returns the registered type tags in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range r.order {
		c := r.entries[t].Category
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats
}

// ByCategory returns the type tags of one category, sorted.
func (r *Registry) ByCategory(category string) []string {
	var out []string
	for _, t := range r.order {
		if r.entries[t].Category == category {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultSize returns the default dimensions of a type, falling back to
// those of a rectangle for unknown types.
func (r *Registry) DefaultSize(shapeType string) (width, height float64) {
	if e, ok := r.entries[shapeType]; ok && e.DefaultWidth > 0 && e.DefaultHeight > 0 {
		return e.DefaultWidth, e.DefaultHeight
	}
	return 140, 80
}

// NewShape builds a shape of the given type at x,y with the type's default size.
func (r *Registry) NewShape(shapeType string, x, y float64) *diagram.Shape {
	w, h := r.DefaultSize(shapeType)
	return diagram.NewShape(shapeType, x, y, w, h)
}
