// Package importer reads diagrams written in text formats into a Graph
// that Build lays out and adds to an editor session.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Importer reads one text format.
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import parses content into a graph
	Import(content string) (*Graph, error)

	// FormatName returns the human-readable name of the format
	FormatName() string

	// FileExtensions returns common file extensions for this format
	FileExtensions() []string
}

// Registry manages available importers
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with the Mermaid and Graphviz importers.
func NewRegistry() *Registry {
	return &Registry{
		importers: []Importer{
			NewMermaidImporter(),
			NewGraphvizImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *Registry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *Registry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// ForFile returns the importer registered for the extension of path.
func (r *Registry) ForFile(path string) (Importer, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for _, imp := range r.importers {
		for _, e := range imp.FileExtensions() {
			if e == ext {
				return imp, true
			}
		}
	}
	return nil, false
}

// Import attempts to import content using auto-detection
func (r *Registry) Import(content string) (*Graph, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *Registry) ImportWithFormat(content, format string) (*Graph, error) {
	format = strings.ToLower(format)

	for _, imp := range r.importers {
		if strings.ToLower(imp.FormatName()) == format {
			return imp.Import(content)
		}
	}

	return nil, fmt.Errorf("unknown format: %s", format)
}

// Formats returns the names of the registered formats.
func (r *Registry) Formats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.FormatName()
	}
	return formats
}
