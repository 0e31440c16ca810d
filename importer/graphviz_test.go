package importer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcraft/layout"
	"flowcraft/shapes"
)

func TestGraphvizDigraph(t *testing.T) {
	src := `// services
digraph Services {
    rankdir=LR;
    node [shape=box, style="rounded,filled", fillcolor=lightblue];
    edge [color=gray];

    api [label="API\nGateway"];
    db [shape=cylinder, fillcolor="#FFEECC"];
    /* storage */
    api -> auth -> db [label="query", style=dashed];
    cache [shape=diamond]
    api -> cache [dir=both, penwidth=2, style=bold]
}`
	imp := NewGraphvizImporter()
	require.True(t, imp.CanImport(src))
	g, err := imp.Import(src)
	require.NoError(t, err)
	assert.Equal(t, layout.LeftRight, g.Direction)

	wantNodes := []Node{
		{Key: "api", Text: "API\nGateway", Shape: shapes.TypeRoundedBox, Fill: "#add8e6"},
		{Key: "db", Text: "db", Shape: shapes.TypeDatabase, Fill: "#ffeecc"},
		{Key: "auth", Text: "auth", Shape: shapes.TypeRoundedBox, Fill: "#add8e6"},
		{Key: "cache", Text: "cache", Shape: shapes.TypeDecision, Fill: "#add8e6"},
	}
	if diff := cmp.Diff(wantNodes, g.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}

	wantEdges := []Edge{
		{From: "api", To: "auth", Label: "query", Style: EdgeDashed, Color: "#808080", StartArrow: arrowNone, EndArrow: arrowHead},
		{From: "auth", To: "db", Label: "query", Style: EdgeDashed, Color: "#808080", StartArrow: arrowNone, EndArrow: arrowHead},
		{From: "api", To: "cache", Style: EdgeThick, Color: "#808080", StartArrow: arrowHead, EndArrow: arrowHead},
	}
	if diff := cmp.Diff(wantEdges, g.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphvizUndirectedClusters(t *testing.T) {
	src := `graph
{
    subgraph cluster_backend {
        label = "Back end"
        svc -- store
    }
    subgraph helpers { h }
    { rank=same; svc; web }
    web -- svc [arrowhead=diamond]
}`
	g, err := NewGraphvizImporter().Import(src)
	require.NoError(t, err)
	assert.Equal(t, layout.TopBottom, g.Direction)
	assert.Equal(t, []Cluster{{Key: "cluster_backend", Title: "Back end"}}, g.Clusters)
	assert.Equal(t, []string{"svc", "store"}, g.Members("cluster_backend"))

	web, ok := g.Node("web")
	require.True(t, ok)
	assert.Empty(t, web.Cluster, "anonymous blocks and plain subgraphs are not clusters")
	h, ok := g.Node("h")
	require.True(t, ok)
	assert.Empty(t, h.Cluster)

	for _, e := range g.Edges {
		assert.Equal(t, arrowNone, e.StartArrow)
		assert.Equal(t, arrowNone, e.EndArrow, "undirected edges have no heads")
	}
}

func TestGraphvizArrowHeads(t *testing.T) {
	tests := []struct {
		attrs      string
		start, end string
	}{
		{"", arrowNone, arrowHead},
		{"dir=none", arrowNone, arrowNone},
		{"dir=back", arrowHead, arrowNone},
		{"arrowhead=odiamond", arrowNone, arrowDiamond},
		{"arrowhead=dot", arrowNone, arrowCircle},
		{"arrowhead=none", arrowNone, arrowNone},
		{"dir=both, arrowtail=dot", arrowCircle, arrowHead},
	}

	for _, tt := range tests {
		t.Run(tt.attrs, func(t *testing.T) {
			g, err := NewGraphvizImporter().Import("digraph { a -> b [" + tt.attrs + "] }")
			require.NoError(t, err)
			require.Len(t, g.Edges, 1)
			assert.Equal(t, tt.start, g.Edges[0].StartArrow)
			assert.Equal(t, tt.end, g.Edges[0].EndArrow)
		})
	}
}

func TestGraphvizErrors(t *testing.T) {
	imp := NewGraphvizImporter()

	assert.False(t, imp.CanImport("graph LR\n  A --> B"))

	_, err := imp.Import("")
	require.Error(t, err)

	_, err = imp.Import("flowchart {\n a -> b\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")

	_, err = imp.Import("digraph {\n rankdir=TB\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes")

	_, err = imp.Import("digraph {\n a -> \n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid statement")
}
