package importer

import "flowcraft/layout"

// Arrow heads understood by connectors.
const (
	arrowNone    = "none"
	arrowHead    = "arrow"
	arrowCircle  = "circle"
	arrowDiamond = "diamond"
)

// EdgeStyle is the line style of an imported edge.
type EdgeStyle int

const (
	EdgeSolid EdgeStyle = iota
	EdgeDashed
	EdgeThick
)

// Node is a box found in the source text.
type Node struct {
	Key     string // Identifier used by edges
	Text    string
	Shape   string // Shape type from the shapes package
	Fill    string // Fill color, empty for the default
	Cluster string // Key of the innermost enclosing cluster
}

// Edge is a link between two node keys.
type Edge struct {
	From, To   string
	Label      string
	Style      EdgeStyle
	Color      string
	StartArrow string
	EndArrow   string
}

// Cluster groups nodes under a title. It becomes a container.
type Cluster struct {
	Key   string
	Title string
}

// Graph is what every importer produces before it is laid out and turned
// into shapes and connectors.
type Graph struct {
	Direction layout.Direction
	Nodes     []Node
	Edges     []Edge
	Clusters  []Cluster

	nodes    map[string]int
	clusters map[string]int
}

// NewGraph creates an empty left-to-right graph.
func NewGraph() *Graph {
	return &Graph{
		Direction: layout.LeftRight,
		nodes:     make(map[string]int),
		clusters:  make(map[string]int),
	}
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (*Node, bool) {
	i, ok := g.nodes[key]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// ensure returns the node for key, adding one labelled with the key when it
// is new. The cluster is only recorded on first sight.
func (g *Graph) ensure(key, shape, cluster string) *Node {
	if n, ok := g.Node(key); ok {
		return n
	}
	g.nodes[key] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Key: key, Text: key, Shape: shape, Cluster: cluster})
	return &g.Nodes[len(g.Nodes)-1]
}

// cluster returns the cluster with the given key, adding it when new.
func (g *Graph) cluster(key string) *Cluster {
	if i, ok := g.clusters[key]; ok {
		return &g.Clusters[i]
	}
	g.clusters[key] = len(g.Clusters)
	g.Clusters = append(g.Clusters, Cluster{Key: key, Title: key})
	return &g.Clusters[len(g.Clusters)-1]
}

// Members returns the keys of the nodes directly inside a cluster.
func (g *Graph) Members(cluster string) []string {
	var keys []string
	for _, n := range g.Nodes {
		if n.Cluster == cluster {
			keys = append(keys, n.Key)
		}
	}
	return keys
}
