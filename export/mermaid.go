package export

import (
	"fmt"
	"strings"

	"flowcraft/diagram"
	"flowcraft/layout"
	"flowcraft/shapes"
)

// MermaidExporter exports diagrams to Mermaid flowchart syntax
type MermaidExporter struct {
	Direction layout.Direction
}

// NewMermaidExporter creates a left-to-right Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{Direction: layout.LeftRight}
}

// Export converts the diagram to a Mermaid flowchart. Containers become
// subgraphs; connectors with a free end are left out.
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	v, err := collect(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "flowchart %s\n", e.Direction)

	for _, c := range v.clusters {
		fmt.Fprintf(&sb, "    subgraph %s [%s]\n", c.id, mermaidLabel(c.title))
		for _, n := range c.members {
			fmt.Fprintf(&sb, "        %s\n", mermaidNode(n))
		}
		sb.WriteString("    end\n")
	}
	for _, n := range v.nodes {
		fmt.Fprintf(&sb, "    %s\n", mermaidNode(n))
	}

	// Add a blank line between nodes and connections
	if len(v.edges) > 0 {
		sb.WriteString("\n")
	}
	for _, ed := range v.edges {
		from, to := ed.from, ed.to
		start, end := ed.startArrow, ed.endArrow
		// Mermaid has no head-at-start-only link
		if hasHead(start) && !hasHead(end) {
			from, to = to, from
			start, end = end, start
		}

		link := mermaidLink(ed.dashed, ed.thick, start, end)
		if ed.label != "" {
			fmt.Fprintf(&sb, "    %s %s|%s| %s\n", from, link, strings.ReplaceAll(ed.label, "|", "#124;"), to)
		} else {
			fmt.Fprintf(&sb, "    %s %s %s\n", from, link, to)
		}
	}

	var styled []node
	for _, c := range v.clusters {
		styled = append(styled, c.members...)
	}
	styled = append(styled, v.nodes...)
	for _, n := range styled {
		if f := fill(n.shape); f != "" {
			fmt.Fprintf(&sb, "    style %s fill:%s\n", n.id, f)
		}
	}

	return sb.String(), nil
}

// FileExtension returns the recommended file extension
func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

// FormatName returns the format name
func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}

// mermaidNode formats a node with its shape brackets.
func mermaidNode(n node) string {
	open, close := "[", "]"
	switch n.shape.Type {
	case shapes.TypeRoundedBox:
		open, close = "(", ")"
	case shapes.TypeTerminal:
		open, close = "([", "])"
	case "flowchart:predefined":
		open, close = "[[", "]]"
	case shapes.TypeDatabase, "network:database":
		open, close = "[(", ")]"
	case "basic:circle", shapes.TypeEllipse:
		open, close = "((", "))"
	case shapes.TypeDecision, shapes.TypeDiamond:
		open, close = "{", "}"
	case "basic:hexagon":
		open, close = "{{", "}}"
	case "basic:parallelogram", "flowchart:io":
		open, close = "[/", "/]"
	case "flowchart:manual-op":
		open, close = "[/", `\]`
	case "basic:arrow-shape":
		open, close = ">", "]"
	}
	return n.id + open + mermaidLabel(n.shape.Text) + close
}

// mermaidLabel quotes text that would otherwise end the brackets early.
func mermaidLabel(text string) string {
	text = strings.ReplaceAll(text, "\n", "<br/>")
	if text == "" || strings.ContainsAny(text, `[](){}|<>/\"`) {
		return `"` + strings.ReplaceAll(text, `"`, "#quot;") + `"`
	}
	return text
}

func mermaidLink(dashed, thick bool, start, end string) string {
	line := "--"
	switch {
	case dashed:
		line = "-.-"
	case thick:
		line = "=="
	}
	head := func(arrow string, mark string) string {
		switch arrow {
		case "circle":
			return "o"
		case "none", "":
			return ""
		default:
			return mark
		}
	}
	s, e := head(start, "<"), head(end, ">")
	if e == "" && s == "" && !dashed {
		// Plain links need a third dash or equals sign
		line += line[:1]
	}
	return s + line + e
}
