// Package export writes diagrams as Mermaid flowcharts or Graphviz DOT.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"flowcraft/diagram"
	"flowcraft/layout"
)

// Format represents an export format
type Format string

const (
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports to Graphviz DOT syntax
	FormatGraphviz Format = "graphviz"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// FileExtension returns the recommended file extension for this format
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// NewExporter creates an exporter for the specified format. dir is written
// as the flow direction of the output.
func NewExporter(format Format, dir layout.Direction) (Exporter, error) {
	switch format {
	case FormatMermaid:
		return &MermaidExporter{Direction: dir}, nil
	case FormatGraphviz:
		return &GraphvizExporter{Direction: dir}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "graphviz", "dot", "gv":
		return FormatGraphviz, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// FormatForFile picks the format from the extension of path.
func FormatForFile(path string) (Format, bool) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	return f, err == nil
}

// Formats returns a list of all available export formats
func Formats() []Format {
	return []Format{FormatMermaid, FormatGraphviz}
}
