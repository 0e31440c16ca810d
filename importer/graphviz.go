package importer

import (
	"fmt"
	"regexp"
	"strings"

	"flowcraft/diagram"
	"flowcraft/layout"
	"flowcraft/shapes"
)

var (
	dotHeader   = regexp.MustCompile(`^(?:strict\s+)?(di)?graph\b\s*("(?:[^"\\]|\\.)*"|[A-Za-z0-9_]*)\s*\{$`)
	dotSubgraph = regexp.MustCompile(`^subgraph\s*("[^"]*"|[A-Za-z0-9_.]*)\s*\{$`)
	dotAssign   = regexp.MustCompile(`^(\w+)\s*=\s*("[^"]*"|\S+)$`)
	dotEdgeOp   = regexp.MustCompile(`\s*(->|--)\s*`)
	dotAttr     = regexp.MustCompile(`(\w+)\s*=\s*("((?:[^"\\]|\\.)*)"|([^,;\s\]]+))`)
)

// GraphvizImporter imports Graphviz DOT format
type GraphvizImporter struct{}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{}
}

// CanImport checks if the content is a Graphviz DOT diagram
func (g *GraphvizImporter) CanImport(content string) bool {
	stmts := dotStatements(content)
	return len(stmts) > 0 && dotHeader.MatchString(stmts[0])
}

// Import converts DOT content into a graph. Clusters come from subgraphs;
// node and edge defaults apply to statements that follow them.
func (g *GraphvizImporter) Import(content string) (*Graph, error) {
	stmts := dotStatements(content)
	if len(stmts) == 0 {
		return nil, fmt.Errorf("empty Graphviz diagram")
	}
	header := dotHeader.FindStringSubmatch(stmts[0])
	if header == nil {
		return nil, fmt.Errorf("missing graph or digraph header")
	}

	p := &dotParser{
		graph:     NewGraph(),
		directed:  header[1] != "",
		nodeAttrs: map[string]string{},
		edgeAttrs: map[string]string{},
	}
	p.graph.Direction = layout.TopBottom

	for _, stmt := range stmts[1:] {
		if err := p.statement(stmt); err != nil {
			return nil, err
		}
	}

	if len(p.graph.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes found in Graphviz diagram")
	}
	return p.graph, nil
}

// FormatName returns the format name
func (g *GraphvizImporter) FormatName() string {
	return "Graphviz"
}

// FileExtensions returns common file extensions
func (g *GraphvizImporter) FileExtensions() []string {
	return []string{".dot", ".gv"}
}

type dotParser struct {
	graph     *Graph
	directed  bool
	subgraphs []string // Open subgraph keys, empty for anonymous blocks
	nodeAttrs map[string]string
	edgeAttrs map[string]string
}

func (p *dotParser) cluster() string {
	for i := len(p.subgraphs) - 1; i >= 0; i-- {
		if p.subgraphs[i] != "" {
			return p.subgraphs[i]
		}
	}
	return ""
}

func (p *dotParser) statement(stmt string) error {
	switch {
	case stmt == "{":
		p.subgraphs = append(p.subgraphs, "")
		return nil
	case stmt == "}":
		if len(p.subgraphs) > 0 {
			p.subgraphs = p.subgraphs[:len(p.subgraphs)-1]
		}
		return nil
	}

	if m := dotSubgraph.FindStringSubmatch(stmt); m != nil {
		key := unquote(m[1])
		// Only cluster_ subgraphs are drawn as boxes by Graphviz
		if !strings.HasPrefix(key, "cluster") {
			key = ""
		}
		if key != "" {
			p.graph.cluster(key).Title = strings.TrimPrefix(strings.TrimPrefix(key, "cluster"), "_")
		}
		p.subgraphs = append(p.subgraphs, key)
		return nil
	}

	if m := dotAssign.FindStringSubmatch(stmt); m != nil {
		p.graphAttr(m[1], unquote(m[2]))
		return nil
	}

	body, attrs := splitAttrs(stmt)
	switch body {
	case "graph":
		for k, v := range attrs {
			p.graphAttr(k, v)
		}
		return nil
	case "node":
		for k, v := range attrs {
			p.nodeAttrs[k] = v
		}
		return nil
	case "edge":
		for k, v := range attrs {
			p.edgeAttrs[k] = v
		}
		return nil
	}

	parts := dotEdgeOp.Split(body, -1)
	for _, part := range parts {
		if unquote(part) == "" {
			return fmt.Errorf("invalid statement %q", stmt)
		}
	}
	if len(parts) == 1 {
		p.node(unquote(parts[0]), attrs)
		return nil
	}
	for i := 0; i+1 < len(parts); i++ {
		p.edge(unquote(parts[i]), unquote(parts[i+1]), attrs)
	}
	return nil
}

func (p *dotParser) graphAttr(key, value string) {
	switch key {
	case "rankdir":
		p.graph.Direction = layout.ParseDirection(value)
	case "label":
		if c := p.cluster(); c != "" {
			p.graph.cluster(c).Title = dotText(value)
		}
	}
}

// node declares a node or updates one seen before.
func (p *dotParser) node(key string, attrs map[string]string) {
	_, existed := p.graph.Node(key)
	n := p.graph.ensure(key, shapes.TypeRectangle, p.cluster())
	if !existed {
		p.applyNode(n, p.nodeAttrs)
	}
	p.applyNode(n, attrs)
}

func (p *dotParser) applyNode(n *Node, attrs map[string]string) {
	if label, ok := attrs["label"]; ok {
		n.Text = dotText(label)
	}
	if shape, ok := attrs["shape"]; ok {
		n.Shape = dotShape(shape)
	}
	if style, ok := attrs["style"]; ok && strings.Contains(style, "rounded") && n.Shape == shapes.TypeRectangle {
		n.Shape = shapes.TypeRoundedBox
	}
	fill := attrs["fillcolor"]
	if fill == "" && strings.Contains(attrs["style"], "filled") {
		fill = attrs["color"]
	}
	if c := diagram.NormalizeColor(fill, ""); c != "" {
		n.Fill = c
	}
}

func (p *dotParser) edge(from, to string, attrs map[string]string) {
	for _, key := range []string{from, to} {
		if _, ok := p.graph.Node(key); !ok {
			p.node(key, nil)
		}
	}

	merged := make(map[string]string, len(p.edgeAttrs)+len(attrs))
	for k, v := range p.edgeAttrs {
		merged[k] = v
	}
	for k, v := range attrs {
		merged[k] = v
	}

	e := Edge{From: from, To: to, Label: dotText(merged["label"]), StartArrow: arrowNone, EndArrow: arrowNone}
	if p.directed {
		e.EndArrow = arrowHead
	}
	switch merged["dir"] {
	case "both":
		e.StartArrow, e.EndArrow = arrowHead, arrowHead
	case "back":
		e.StartArrow, e.EndArrow = arrowHead, arrowNone
	case "none":
		e.StartArrow, e.EndArrow = arrowNone, arrowNone
	case "forward":
		e.EndArrow = arrowHead
	}
	if e.EndArrow != arrowNone {
		if head, ok := merged["arrowhead"]; ok {
			e.EndArrow = dotArrow(head)
		}
	}
	if e.StartArrow != arrowNone {
		if tail, ok := merged["arrowtail"]; ok {
			e.StartArrow = dotArrow(tail)
		}
	}

	style := merged["style"]
	switch {
	case strings.Contains(style, "dashed"), strings.Contains(style, "dotted"):
		e.Style = EdgeDashed
	case strings.Contains(style, "bold"):
		e.Style = EdgeThick
	}
	e.Color = diagram.NormalizeColor(merged["color"], "")

	p.graph.Edges = append(p.graph.Edges, e)
}

// dotStatements splits content and joins a header whose opening brace sits
// on the next line.
func dotStatements(content string) []string {
	stmts := splitDOT(content)
	if len(stmts) > 1 && stmts[1] == "{" {
		stmts = append([]string{stmts[0] + " {"}, stmts[2:]...)
	}
	return stmts
}

// splitDOT breaks DOT source into statements. Comments are dropped, braces
// become statements of their own and "subgraph x {" stays whole.
func splitDOT(content string) []string {
	var stmts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	inQuote := false
	depth := 0 // Attribute list nesting
	for i := 0; i < len(content); i++ {
		ch := content[i]
		if inQuote {
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(content) {
				i++
				cur.WriteByte(content[i])
			} else if ch == '"' {
				inQuote = false
			}
			continue
		}

		switch {
		case ch == '"':
			inQuote = true
			cur.WriteByte(ch)
		case ch == '/' && i+1 < len(content) && content[i+1] == '/',
			ch == '#' && strings.TrimSpace(cur.String()) == "":
			for i < len(content) && content[i] != '\n' {
				i++
			}
			if depth == 0 {
				flush()
			}
		case ch == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				i = len(content)
			} else {
				i += end + 3
			}
		case ch == '[':
			depth++
			cur.WriteByte(ch)
		case ch == ']':
			depth--
			cur.WriteByte(ch)
		case depth > 0:
			if ch == '\n' {
				ch = ' '
			}
			cur.WriteByte(ch)
		case ch == '{':
			cur.WriteString(" {")
			s := strings.TrimSpace(cur.String())
			cur.Reset()
			stmts = append(stmts, s)
		case ch == '}':
			flush()
			stmts = append(stmts, "}")
		case ch == ';' || ch == '\n' || ch == ',':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return stmts
}

// splitAttrs separates "a -> b [k=v]" into its body and attribute map.
func splitAttrs(stmt string) (string, map[string]string) {
	attrs := map[string]string{}
	open := strings.Index(stmt, "[")
	if open < 0 || !strings.HasSuffix(stmt, "]") {
		return strings.TrimSpace(stmt), attrs
	}
	for _, m := range dotAttr.FindAllStringSubmatch(stmt[open+1:len(stmt)-1], -1) {
		value := m[3]
		if value == "" {
			value = m[4]
		}
		attrs[m[1]] = value
	}
	return strings.TrimSpace(stmt[:open]), attrs
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

var dotEscapes = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\l`, "\n", `\r`, "\n")

// dotText resolves escapes and turns DOT line breaks into newlines.
func dotText(s string) string {
	return strings.TrimSpace(dotEscapes.Replace(s))
}

// dotShape converts Graphviz shape names to shape types.
func dotShape(shape string) string {
	shapeMap := map[string]string{
		"box":           shapes.TypeRectangle,
		"rect":          shapes.TypeRectangle,
		"rectangle":     shapes.TypeRectangle,
		"square":        shapes.TypeRectangle,
		"circle":        "basic:circle",
		"doublecircle":  "basic:circle",
		"point":         "basic:circle",
		"ellipse":       shapes.TypeEllipse,
		"oval":          shapes.TypeEllipse,
		"diamond":       shapes.TypeDecision,
		"hexagon":       "basic:hexagon",
		"triangle":      "basic:triangle",
		"star":          "basic:star",
		"parallelogram": "flowchart:io",
		"cylinder":      shapes.TypeDatabase,
		"note":          shapes.TypeNote,
		"folder":        "uml:package",
		"tab":           "uml:package",
		"component":     "uml:component",
		"trapezium":     "flowchart:manual-op",
		"invtrapezium":  "flowchart:manual-op",
		"cds":           "basic:arrow-shape",
	}

	if normalized, ok := shapeMap[strings.ToLower(shape)]; ok {
		return normalized
	}
	return shapes.TypeRectangle
}

func dotArrow(name string) string {
	switch strings.TrimPrefix(strings.ToLower(name), "o") {
	case "none":
		return arrowNone
	case "diamond", "ediamond":
		return arrowDiamond
	case "dot":
		return arrowCircle
	default:
		return arrowHead
	}
}
