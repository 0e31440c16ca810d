package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"Mermaid", "Graphviz"}, r.Formats())

	tests := []struct {
		name    string
		content string
		format  string
	}{
		{"mermaid graph", "graph TD\n a --> b", "Mermaid"},
		{"mermaid flowchart", "%% c\nflowchart LR\n a", "Mermaid"},
		{"mermaid sequence", "sequenceDiagram\n a->>b: x", "Mermaid"},
		{"dot digraph", "digraph G {\n a -> b\n}", "Graphviz"},
		{"dot strict graph", "strict graph {\n a -- b\n}", "Graphviz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := r.DetectFormat(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.format, imp.FormatName())
		})
	}

	_, err := r.DetectFormat("hello world")
	require.Error(t, err)
	_, err = r.Import("hello world")
	assert.EqualError(t, err, "unable to detect format")
}

func TestRegistryForFile(t *testing.T) {
	r := NewRegistry()
	for path, want := range map[string]string{
		"flow.mmd":       "Mermaid",
		"flow.MERMAID":   "Mermaid",
		"deps.gv":        "Graphviz",
		"dir.v2/arch.dot": "Graphviz",
	} {
		imp, ok := r.ForFile(path)
		require.True(t, ok, path)
		assert.Equal(t, want, imp.FormatName(), path)
	}
	for _, path := range []string{"notes.txt", "Makefile"} {
		_, ok := r.ForFile(path)
		assert.False(t, ok, path)
	}
}

func TestImportWithFormat(t *testing.T) {
	r := NewRegistry()

	g, err := r.ImportWithFormat("digraph { a -> b }", "graphviz")
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)

	g, err = r.Import("graph LR\n a --> b --> c")
	require.NoError(t, err)
	assert.Len(t, g.Edges, 2)

	_, err = r.ImportWithFormat("a -> b", "plantuml")
	assert.EqualError(t, err, "unknown format: plantuml")
}
