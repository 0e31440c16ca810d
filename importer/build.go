package importer

import (
	"fmt"

	"flowcraft/diagram"
	"flowcraft/editor"
	"flowcraft/geometry"
	"flowcraft/history"
	"flowcraft/layout"
	"flowcraft/shapes"
)

// BatchLabel names the undo step an import creates.
const BatchLabel = "Import Diagram"

type buildOptions struct {
	layered     *layout.Layered
	margin      float64
	padding     float64
	titleHeight float64
}

// Option configures Build.
type Option func(*buildOptions)

// WithLayout replaces the layered layout. Its direction is taken from the
// graph.
func WithLayout(l *layout.Layered) Option {
	return func(o *buildOptions) { o.layered = l }
}

// WithMargin sets the distance between the canvas origin and the closest box.
func WithMargin(m float64) Option {
	return func(o *buildOptions) { o.margin = m }
}

// WithClusterPadding sets the space between a container and its members.
func WithClusterPadding(p float64) Option {
	return func(o *buildOptions) { o.padding = p }
}

// Result maps the graph onto what Build created.
type Result struct {
	Shapes     map[string]string // Node key to shape id
	Containers map[string]string // Cluster key to shape id
	Connectors []string
	Skipped    int // Self-loops and edges with no free ports
}

// Build lays out g and adds it to the session as one undo step: clusters
// become containers, nodes become shapes and edges become routed connectors.
func Build(s *editor.Session, g *Graph, opts ...Option) (*Result, error) {
	o := buildOptions{layered: layout.NewLayered(), margin: 60, padding: 20, titleHeight: 30}
	for _, opt := range opts {
		opt(&o)
	}
	if g == nil || len(g.Nodes) == 0 {
		return nil, fmt.Errorf("graph has no nodes")
	}

	reg := s.Registry()
	types := make([]string, len(g.Nodes))
	nodes := make([]layout.Node, len(g.Nodes))
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		types[i] = n.Shape
		if _, ok := reg.Lookup(n.Shape); !ok {
			types[i] = shapes.TypeRectangle
		}
		w, h := reg.DefaultSize(types[i])
		nodes[i] = layout.Node{Width: w, Height: h}
		index[n.Key] = i
	}

	edges := make([]layout.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo {
			return nil, fmt.Errorf("edge %s -> %s: unknown node", e.From, e.To)
		}
		edges = append(edges, layout.Edge{From: from, To: to})
	}

	l := *o.layered
	l.Direction = g.Direction
	positions, err := l.Layout(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	// Leave room above the first row for cluster titles
	offset := max(o.margin, o.padding+o.titleHeight)
	bounds := make([]geometry.Rect, len(g.Nodes))
	for i, p := range positions {
		bounds[i] = geometry.Rect{X: p.X + offset, Y: p.Y + offset, Width: nodes[i].Width, Height: nodes[i].Height}
	}

	res := &Result{Shapes: map[string]string{}, Containers: map[string]string{}}
	h := s.History()
	h.BeginBatch()
	defer h.EndBatch(BatchLabel)

	for _, c := range g.Clusters {
		var member []geometry.Rect
		for i, n := range g.Nodes {
			if n.Cluster == c.Key {
				member = append(member, bounds[i])
			}
		}
		if len(member) == 0 {
			continue
		}
		u := geometry.Union(member...)
		r := geometry.Rect{
			X:      u.X - o.padding,
			Y:      u.Y - o.padding - o.titleHeight,
			Width:  u.Width + 2*o.padding,
			Height: u.Height + 2*o.padding + o.titleHeight,
		}
		sh := s.AddShape(shapes.TypeContainer, r.X, r.Y)
		s.SetBounds(sh.ID, r)
		s.SetText(sh.ID, c.Title)
		res.Containers[c.Key] = sh.ID
	}

	for i, n := range g.Nodes {
		sh := s.AddShape(types[i], bounds[i].X, bounds[i].Y)
		s.SetBounds(sh.ID, bounds[i])
		s.SetText(sh.ID, n.Text)
		if n.Fill != "" {
			s.SetStyle(sh.ID, history.PropertyStyle, diagram.Style{"fill": n.Fill})
		}
		if id, ok := res.Containers[n.Cluster]; ok {
			s.SetContainer(sh.ID, id)
		}
		res.Shapes[n.Key] = sh.ID
	}

	for _, e := range g.Edges {
		c := connector(s, res.Shapes[e.From], res.Shapes[e.To], e)
		if c == nil {
			res.Skipped++
			continue
		}
		res.Connectors = append(res.Connectors, s.AddConnector(c).ID)
	}
	return res, nil
}

// connector prepares the connector for one edge, or nil when the shapes
// cannot be joined.
func connector(s *editor.Session, fromID, toID string, e Edge) *diagram.Connector {
	m := s.Model()
	src, dst := m.GetShape(fromID), m.GetShape(toID)
	if src == nil || dst == nil || src.ID == dst.ID {
		return nil
	}
	sp, tp, ok := s.Router().AutoSelectPorts(src, dst)
	if !ok {
		return nil
	}

	c := diagram.NewConnector(src.ID, sp.ID, dst.ID, tp.ID)
	if e.StartArrow != "" {
		c.StartArrow = e.StartArrow
	}
	if e.EndArrow != "" {
		c.EndArrow = e.EndArrow
	}
	switch e.Style {
	case EdgeDashed:
		c.Style["strokeDash"] = "5 5"
	case EdgeThick:
		c.Style["strokeWidth"] = 4.0
	}
	if e.Color != "" {
		c.Style["stroke"] = e.Color
	}
	if e.Label != "" {
		c.Label = &diagram.Label{Text: e.Label, Position: 0.5}
	}
	return c
}
