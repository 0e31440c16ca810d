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
	mermaidFlowchart = regexp.MustCompile(`^(?:graph|flowchart)(?:\s+([A-Za-z]{2}))?\s*;?$`)
	mermaidOther     = regexp.MustCompile(`^(?:sequenceDiagram|classDiagram|stateDiagram(?:-v2)?|erDiagram|gantt|pie|journey|gitGraph|mindmap|timeline)\b`)
	mermaidID        = regexp.MustCompile(`^[A-Za-z0-9_]+`)
	mermaidEntity    = regexp.MustCompile(`#\w+$`)
	// A --> B, A -.-> B, A ==> B, A <--> B, A o--o B, A -->|label| B
	mermaidArrow = regexp.MustCompile(`^(<|o|x)?(-\.+-|-{2,}|={2,})(>|o|x)?(?:\s*\|([^|]*)\|)?`)
	// A -- label --> B, A -. label .-> B, A == label ==> B
	mermaidTextArrow = regexp.MustCompile(`^(<|o|x)?(--|==|-\.)\s+([^-=.|>][^|>]*?)\s+(-{2,}|={2,}|\.+-)(>|o|x)?`)
)

// mermaidShapes maps node brackets to shape types. Longer openers come first.
var mermaidShapes = []struct {
	open, close, shape string
}{
	{"(((", ")))", "basic:circle"},
	{"([", "])", shapes.TypeTerminal},
	{"[[", "]]", "flowchart:predefined"},
	{"[(", ")]", shapes.TypeDatabase},
	{"((", "))", "basic:circle"},
	{"{{", "}}", "basic:hexagon"},
	{"[/", "/]", "basic:parallelogram"},
	{"[/", `\]`, "flowchart:manual-op"},
	{`[\`, `\]`, "basic:parallelogram"},
	{`[\`, "/]", "flowchart:manual-op"},
	{">", "]", "basic:arrow-shape"},
	{"[", "]", shapes.TypeRectangle},
	{"(", ")", shapes.TypeRoundedBox},
	{"{", "}", shapes.TypeDecision},
}

// Statements that carry styling or interaction only.
var mermaidIgnored = []string{"classDef ", "class ", "linkStyle ", "click ", "direction "}

// MermaidImporter imports Mermaid flowcharts.
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid diagram of any kind.
func (m *MermaidImporter) CanImport(content string) bool {
	first := firstMermaidLine(content)
	return mermaidFlowchart.MatchString(first) || mermaidOther.MatchString(first)
}

// Import parses a flowchart. Other Mermaid diagram types are rejected.
func (m *MermaidImporter) Import(content string) (*Graph, error) {
	header := mermaidFlowchart.FindStringSubmatch(firstMermaidLine(content))
	if header == nil {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}

	p := &mermaidParser{graph: NewGraph()}
	p.graph.Direction = layout.ParseDirection(header[1])

	seenHeader := false
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}
		for _, stmt := range splitMermaid(line) {
			if err := p.statement(strings.TrimSpace(stmt)); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
	}

	if len(p.graph.Nodes) == 0 {
		return nil, fmt.Errorf("no nodes found in Mermaid diagram")
	}
	return p.graph, nil
}

// FormatName returns the format name
func (m *MermaidImporter) FormatName() string {
	return "Mermaid"
}

// FileExtensions returns common file extensions
func (m *MermaidImporter) FileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}

// splitMermaid splits a line on semicolons outside quotes. A semicolon that
// closes an entity such as #quot; is kept.
func splitMermaid(line string) []string {
	var out []string
	start, inQuote := 0, false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case ';':
			if inQuote || mermaidEntity.MatchString(line[start:i]) {
				continue
			}
			out = append(out, line[start:i])
			start = i + 1
		}
	}
	return append(out, line[start:])
}

func firstMermaidLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "%%") {
			return line
		}
	}
	return ""
}

type mermaidParser struct {
	graph     *Graph
	subgraphs []string // Open subgraph keys, innermost last
}

func (p *mermaidParser) cluster() string {
	if len(p.subgraphs) == 0 {
		return ""
	}
	return p.subgraphs[len(p.subgraphs)-1]
}

func (p *mermaidParser) statement(stmt string) error {
	if stmt == "" {
		return nil
	}
	if stmt == "end" {
		if len(p.subgraphs) > 0 {
			p.subgraphs = p.subgraphs[:len(p.subgraphs)-1]
		}
		return nil
	}
	if rest, ok := strings.CutPrefix(stmt, "subgraph "); ok {
		p.subgraph(strings.TrimSpace(rest))
		return nil
	}
	if rest, ok := strings.CutPrefix(stmt, "style "); ok {
		p.style(strings.TrimSpace(rest))
		return nil
	}
	for _, prefix := range mermaidIgnored {
		if strings.HasPrefix(stmt, prefix) {
			return nil
		}
	}

	from, rest, err := p.nodeGroup(stmt)
	if err != nil {
		return err
	}
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil
		}
		edge, n, ok := parseMermaidArrow(rest)
		if !ok {
			return fmt.Errorf("unexpected %q", rest)
		}
		to, r, err := p.nodeGroup(strings.TrimSpace(rest[n:]))
		if err != nil {
			return err
		}
		for _, f := range from {
			for _, t := range to {
				e := edge
				e.From, e.To = f, t
				p.graph.Edges = append(p.graph.Edges, e)
			}
		}
		from, rest = to, r
	}
}

// subgraph opens a cluster. Accepted forms: "id", "id[Title]" and a bare
// title of several words.
func (p *mermaidParser) subgraph(decl string) {
	key, title := decl, decl
	if id := mermaidID.FindString(decl); id != "" {
		rest := strings.TrimSpace(decl[len(id):])
		if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
			key, title = id, rest[1:len(rest)-1]
		}
	}
	title = cleanText(strings.Trim(strings.TrimSpace(title), `"`))
	key = strings.Trim(key, `"`)

	p.graph.cluster(key).Title = title
	p.subgraphs = append(p.subgraphs, key)
}

// style reads the fill of "style id fill:#f9f,stroke:#333".
func (p *mermaidParser) style(decl string) {
	id, props, ok := strings.Cut(decl, " ")
	if !ok {
		return
	}
	n, found := p.graph.Node(id)
	if !found {
		return
	}
	for _, prop := range strings.Split(props, ",") {
		k, v, _ := strings.Cut(strings.TrimSpace(prop), ":")
		if k == "fill" {
			if c := diagram.NormalizeColor(v, ""); c != "" {
				n.Fill = c
			}
		}
	}
}

// nodeGroup reads "A", "A[text]" or several of them joined by "&".
func (p *mermaidParser) nodeGroup(s string) ([]string, string, error) {
	var keys []string
	for {
		key, rest, err := p.nodeRef(s)
		if err != nil {
			return nil, "", err
		}
		keys = append(keys, key)
		trimmed := strings.TrimSpace(rest)
		if !strings.HasPrefix(trimmed, "&") {
			return keys, rest, nil
		}
		s = strings.TrimSpace(trimmed[1:])
	}
}

func (p *mermaidParser) nodeRef(s string) (string, string, error) {
	id := mermaidID.FindString(s)
	if id == "" {
		return "", "", fmt.Errorf("expected node at %q", s)
	}
	rest := s[len(id):]
	n := p.graph.ensure(id, shapes.TypeRectangle, p.cluster())

	for _, sh := range mermaidShapes {
		if !strings.HasPrefix(rest, sh.open) {
			continue
		}
		text, used, ok := bracketText(rest[len(sh.open):], sh.close)
		if !ok {
			continue
		}
		n.Shape = sh.shape
		n.Text = text
		return id, rest[len(sh.open)+used:], nil
	}
	return id, rest, nil
}

// bracketText returns the text before close and how many bytes it used,
// close included. Quoted text may contain the closing bracket.
func bracketText(s, close string) (string, int, bool) {
	if strings.HasPrefix(s, `"`) {
		if q := strings.Index(s[1:], `"`); q >= 0 && strings.HasPrefix(s[q+2:], close) {
			return cleanText(s[1 : q+1]), q + 2 + len(close), true
		}
	}
	i := strings.Index(s, close)
	if i < 0 {
		return "", 0, false
	}
	return cleanText(s[:i]), i + len(close), true
}

var mermaidEntities = strings.NewReplacer(
	"<br/>", "\n", "<br />", "\n", "<br>", "\n", `\n`, "\n",
	"#quot;", `"`, "#124;", "|", "#35;", "#",
)

func cleanText(s string) string {
	return strings.TrimSpace(mermaidEntities.Replace(s))
}

// parseMermaidArrow reads the link at the start of s. The returned edge has
// no ends yet.
func parseMermaidArrow(s string) (Edge, int, bool) {
	var start, line, end, label string
	var n int
	if m := mermaidTextArrow.FindStringSubmatch(s); m != nil {
		start, line, label, end = m[1], m[2]+m[4], m[3], m[5]
		n = len(m[0])
	} else if m := mermaidArrow.FindStringSubmatch(s); m != nil {
		start, line, end, label = m[1], m[2], m[3], m[4]
		n = len(m[0])
	} else {
		return Edge{}, 0, false
	}

	e := Edge{
		Label:      cleanText(label),
		StartArrow: mermaidHead(start),
		EndArrow:   mermaidHead(end),
	}
	switch {
	case strings.Contains(line, "."):
		e.Style = EdgeDashed
	case strings.Contains(line, "="):
		e.Style = EdgeThick
	}
	return e, n, true
}

func mermaidHead(mark string) string {
	switch mark {
	case ">", "<":
		return arrowHead
	case "o":
		return arrowCircle
	default:
		return arrowNone
	}
}
