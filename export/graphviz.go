package export

import (
	"fmt"
	"strings"

	"flowcraft/diagram"
	"flowcraft/layout"
	"flowcraft/shapes"
)

// GraphvizExporter exports diagrams to Graphviz DOT syntax
type GraphvizExporter struct {
	Direction layout.Direction
}

// NewGraphvizExporter creates a left-to-right Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{Direction: layout.LeftRight}
}

// Export converts the diagram to a DOT digraph. Containers become
// cluster subgraphs; connectors with a free end are left out.
func (e *GraphvizExporter) Export(d *diagram.Diagram) (string, error) {
	v, err := collect(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph \"%s\" {\n", dotEscape(d.Name))
	fmt.Fprintf(&sb, "  rankdir=%s;\n", e.Direction)
	sb.WriteString("  node [shape=box];\n\n")

	for _, c := range v.clusters {
		fmt.Fprintf(&sb, "  subgraph cluster_%s {\n", c.id)
		fmt.Fprintf(&sb, "    label=\"%s\";\n", dotEscape(c.title))
		for _, n := range c.members {
			fmt.Fprintf(&sb, "    %s;\n", dotNode(n))
		}
		sb.WriteString("  }\n")
	}
	for _, n := range v.nodes {
		fmt.Fprintf(&sb, "  %s;\n", dotNode(n))
	}

	// Add blank line between nodes and edges
	if len(v.edges) > 0 {
		sb.WriteString("\n")
	}
	for _, ed := range v.edges {
		if attrs := dotEdgeAttributes(ed); attrs != "" {
			fmt.Fprintf(&sb, "  %s -> %s [%s];\n", ed.from, ed.to, attrs)
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", ed.from, ed.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// FileExtension returns the recommended file extension
func (e *GraphvizExporter) FileExtension() string {
	return ".dot"
}

// FormatName returns the format name
func (e *GraphvizExporter) FormatName() string {
	return "Graphviz"
}

// dotEscape escapes quotes and backslashes and turns newlines into \n.
func dotEscape(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return strings.ReplaceAll(label, "\n", `\n`)
}

func dotNode(n node) string {
	attrs := []string{fmt.Sprintf("label=\"%s\"", dotEscape(n.shape.Text))}
	var styles []string

	switch shape := dotShapeOf(n.shape.Type); shape {
	case "box":
	case "rounded":
		styles = append(styles, "rounded")
	default:
		attrs = append(attrs, "shape="+shape)
	}
	if f := fill(n.shape); f != "" {
		styles = append(styles, "filled")
		attrs = append(attrs, fmt.Sprintf("fillcolor=\"%s\"", f))
	}
	if len(styles) > 0 {
		attrs = append(attrs, fmt.Sprintf("style=\"%s\"", strings.Join(styles, ",")))
	}
	return fmt.Sprintf("%s [%s]", n.id, strings.Join(attrs, ", "))
}

// dotShapeOf maps a shape type to a DOT shape. "rounded" means a box with
// rounded corners.
func dotShapeOf(shapeType string) string {
	shapeMap := map[string]string{
		shapes.TypeRoundedBox: "rounded",
		shapes.TypeTerminal:   "rounded",
		"basic:circle":        "circle",
		shapes.TypeEllipse:    "ellipse",
		"uml:usecase":         "ellipse",
		shapes.TypeDecision:   "diamond",
		shapes.TypeDiamond:    "diamond",
		"basic:hexagon":       "hexagon",
		"basic:triangle":      "triangle",
		"basic:star":          "star",
		"basic:parallelogram": "parallelogram",
		"flowchart:io":        "parallelogram",
		shapes.TypeDatabase:   "cylinder",
		"network:database":    "cylinder",
		shapes.TypeNote:       "note",
		"uml:package":         "folder",
		"uml:component":       "component",
		"flowchart:manual-op": "trapezium",
		"basic:arrow-shape":   "cds",
	}
	if s, ok := shapeMap[shapeType]; ok {
		return s
	}
	return "box"
}

func dotEdgeAttributes(ed edge) string {
	var attrs []string

	if ed.label != "" {
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", dotEscape(ed.label)))
	}
	switch {
	case ed.dashed:
		attrs = append(attrs, "style=dashed")
	case ed.thick:
		attrs = append(attrs, "style=bold")
	}
	if ed.color != "" {
		attrs = append(attrs, fmt.Sprintf("color=\"%s\"", ed.color))
	}

	start, end := hasHead(ed.startArrow), hasHead(ed.endArrow)
	switch {
	case start && end:
		attrs = append(attrs, "dir=both")
	case start:
		attrs = append(attrs, "dir=back")
	case !end:
		attrs = append(attrs, "dir=none")
	}
	if end && ed.endArrow != "arrow" {
		attrs = append(attrs, "arrowhead="+dotArrowName(ed.endArrow))
	}
	if start && ed.startArrow != "arrow" {
		attrs = append(attrs, "arrowtail="+dotArrowName(ed.startArrow))
	}

	return strings.Join(attrs, ", ")
}

func dotArrowName(arrow string) string {
	switch arrow {
	case "circle":
		return "dot"
	case "diamond":
		return "diamond"
	default:
		return "normal"
	}
}
