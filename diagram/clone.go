package diagram

import "flowcraft/geometry"

// Clone creates a deep copy of the style bag.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return Style(cloneMap(s))
}

// Clone creates a deep copy of the data bag.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	return Data(cloneMap(d))
}

// Clone creates a deep copy of the shape
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}
	clone := *s
	clone.TextStyle = s.TextStyle.Clone()
	clone.Style = s.Style.Clone()
	clone.Data = s.Data.Clone()
	if s.Ports != nil {
		clone.Ports = make([]Port, len(s.Ports))
		copy(clone.Ports, s.Ports)
	}
	return &clone
}

// Clone creates a deep copy of the connector
func (c *Connector) Clone() *Connector {
	if c == nil {
		return nil
	}
	clone := *c
	if c.SourcePoint != nil {
		p := *c.SourcePoint
		clone.SourcePoint = &p
	}
	if c.TargetPoint != nil {
		p := *c.TargetPoint
		clone.TargetPoint = &p
	}
	if c.Points != nil {
		clone.Points = make([]geometry.Point, len(c.Points))
		copy(clone.Points, c.Points)
	}
	if c.Label != nil {
		l := *c.Label
		clone.Label = &l
	}
	clone.Style = c.Style.Clone()
	return &clone
}

// Clone creates a copy of the layer
func (l *Layer) Clone() *Layer {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// Clone creates a deep copy of the group
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	clone := *g
	clone.ShapeIDs = make([]string, len(g.ShapeIDs))
	copy(clone.ShapeIDs, g.ShapeIDs)
	return &clone
}

// cloneMap copies nested maps and slices; scalar values are shared.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Style:
		return val.Clone()
	case Data:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// mergeMap recursively merges src into dst; nested maps are merged, everything else replaced.
func mergeMap(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sub, ok := asMap(v); ok {
			if existing, ok := asMap(dst[k]); ok {
				dst[k] = mergeMap(existing, sub)
				continue
			}
		}
		dst[k] = cloneValue(v)
	}
	return dst
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Style:
		return map[string]any(m), true
	case Data:
		return map[string]any(m), true
	}
	return nil, false
}
