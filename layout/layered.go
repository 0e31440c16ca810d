// Package layout positions imported nodes in layers along the flow direction.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"flowcraft/geometry"
)

// Direction is the way edges flow between layers.
type Direction int

const (
	LeftRight Direction = iota
	TopBottom
	RightLeft
	BottomTop
)

// ParseDirection reads Mermaid and Graphviz direction names (LR, TD, TB,
// RL, BT). Anything else means left to right.
func ParseDirection(s string) Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TD", "TB":
		return TopBottom
	case "RL":
		return RightLeft
	case "BT":
		return BottomTop
	default:
		return LeftRight
	}
}

func (d Direction) String() string {
	switch d {
	case TopBottom:
		return "TB"
	case RightLeft:
		return "RL"
	case BottomTop:
		return "BT"
	default:
		return "LR"
	}
}

func (d Direction) horizontal() bool {
	return d == LeftRight || d == RightLeft
}

// Node is the size of one box to place. Nodes are identified by index.
type Node struct {
	Width, Height float64
}

// Edge connects two node indexes.
type Edge struct {
	From, To int
}

// Layered implements a layered layout: nodes are ranked by their longest
// distance from a root, each rank becomes a layer, and layers follow each
// other along the flow direction.
type Layered struct {
	LayerSpacing     float64 // Gap between consecutive layers
	NodeSpacing      float64 // Gap between nodes of one layer
	ComponentSpacing float64 // Gap between unconnected parts of the graph
	Direction        Direction
}

// NewLayered creates a left-to-right layout with default spacing.
func NewLayered() *Layered {
	return &Layered{
		LayerSpacing:     80,
		NodeSpacing:      40,
		ComponentSpacing: 80,
		Direction:        LeftRight,
	}
}

// graph holds adjacency lists without self-loops.
type graph struct {
	outgoing [][]int
	incoming [][]int
}

// Layout returns the top-left corner of every node, in node order.
func (l *Layered) Layout(nodes []Node, edges []Edge) ([]geometry.Point, error) {
	if len(nodes) == 0 {
		return []geometry.Point{}, nil
	}

	g := graph{outgoing: make([][]int, len(nodes)), incoming: make([][]int, len(nodes))}
	for _, e := range edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			return nil, fmt.Errorf("invalid edge %d -> %d: %d nodes", e.From, e.To, len(nodes))
		}
		// Skip self-loops for layout purposes
		if e.From == e.To {
			continue
		}
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
	}

	// main runs along the flow, cross across it
	mainSize := func(n Node) float64 {
		if l.Direction.horizontal() {
			return n.Width
		}
		return n.Height
	}
	crossSize := func(n Node) float64 {
		if l.Direction.horizontal() {
			return n.Height
		}
		return n.Width
	}

	main := make([]float64, len(nodes))
	cross := make([]float64, len(nodes))

	// Layout each component separately
	offset := 0.0
	for _, component := range detectComponents(g) {
		layers := assignLayers(component, g)

		pos := offset
		layerCross := make([]float64, len(layers))
		maxCross := 0.0
		for i, layer := range layers {
			depth := 0.0
			c := 0.0
			for j, id := range layer {
				main[id] = pos
				cross[id] = c
				c += crossSize(nodes[id])
				if j < len(layer)-1 {
					c += l.NodeSpacing
				}
				if m := mainSize(nodes[id]); m > depth {
					depth = m
				}
			}
			layerCross[i] = c
			if c > maxCross {
				maxCross = c
			}
			pos += depth + l.LayerSpacing
		}

		// Center each layer on the tallest one
		for i, layer := range layers {
			shift := (maxCross - layerCross[i]) / 2
			for _, id := range layer {
				cross[id] += shift
			}
		}
		offset = pos - l.LayerSpacing + l.ComponentSpacing
	}

	if l.Direction == RightLeft || l.Direction == BottomTop {
		extent := 0.0
		for i, n := range nodes {
			if e := main[i] + mainSize(n); e > extent {
				extent = e
			}
		}
		for i, n := range nodes {
			main[i] = extent - main[i] - mainSize(n)
		}
	}

	out := make([]geometry.Point, len(nodes))
	for i := range nodes {
		if l.Direction.horizontal() {
			out[i] = geometry.Point{X: main[i], Y: cross[i]}
		} else {
			out[i] = geometry.Point{X: cross[i], Y: main[i]}
		}
	}
	return out, nil
}

// detectComponents finds connected components using DFS.
func detectComponents(g graph) [][]int {
	visited := make([]bool, len(g.outgoing))
	var components [][]int

	var dfs func(id int, component *[]int)
	dfs = func(id int, component *[]int) {
		if visited[id] {
			return
		}
		visited[id] = true
		*component = append(*component, id)
		for _, next := range g.outgoing[id] {
			dfs(next, component)
		}
		for _, prev := range g.incoming[id] {
			dfs(prev, component)
		}
	}

	for id := range g.outgoing {
		if !visited[id] {
			var component []int
			dfs(id, &component)
			sort.Ints(component) // Sort for determinism
			components = append(components, component)
		}
	}
	return components
}

// backEdge represents an edge that creates a cycle
type backEdge struct {
	from, to int
}

// findBackEdges identifies edges that create cycles using DFS
func findBackEdges(component []int, g graph) map[backEdge]bool {
	back := make(map[backEdge]bool)
	state := make(map[int]int) // 0=unvisited, 1=visiting, 2=visited

	var dfs func(id int)
	dfs = func(id int) {
		state[id] = 1
		for _, next := range g.outgoing[id] {
			switch state[next] {
			case 1:
				back[backEdge{from: id, to: next}] = true
			case 0:
				dfs(next)
			}
		}
		state[id] = 2
	}

	for _, id := range component {
		if state[id] == 0 {
			dfs(id)
		}
	}
	return back
}

// assignLayers ranks the nodes of one component. Back-edges are ignored so
// cycles still produce layers; each node lands one layer after its latest
// predecessor.
func assignLayers(component []int, g graph) [][]int {
	back := findBackEdges(component, g)

	inDegree := make(map[int]int, len(component))
	for _, id := range component {
		inDegree[id] = 0
	}
	for _, id := range component {
		for _, next := range g.outgoing[id] {
			if !back[backEdge{from: id, to: next}] {
				inDegree[next]++
			}
		}
	}

	var queue []int
	for _, id := range component {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var layers [][]int
	for len(queue) > 0 {
		layers = append(layers, queue)

		var nextQueue []int
		for _, id := range queue {
			for _, next := range g.outgoing[id] {
				if back[backEdge{from: id, to: next}] {
					continue
				}
				inDegree[next]--
				if inDegree[next] == 0 {
					nextQueue = append(nextQueue, next)
				}
			}
		}
		sort.Ints(nextQueue) // Deterministic ordering
		queue = nextQueue
	}
	return layers
}
