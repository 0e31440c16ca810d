package export

import (
	"fmt"

	"flowcraft/diagram"
)

// view is the part of a diagram text formats can express: boxes, the
// containers around them and connectors joining two boxes.
type view struct {
	nodes    []node
	clusters []cluster
	edges    []edge
	skipped  int // Connectors with a free end or a container end
}

type node struct {
	id    string
	shape *diagram.Shape
}

type cluster struct {
	id      string
	title   string
	members []node
}

type edge struct {
	from, to   string
	label      string
	dashed     bool
	thick      bool
	color      string
	startArrow string
	endArrow   string
}

// collect numbers the boxes N1, N2, ... and the non-empty containers C1,
// C2, ... in model order.
func collect(d *diagram.Diagram) (*view, error) {
	if d == nil {
		return nil, fmt.Errorf("diagram is nil")
	}

	v := &view{}
	ids := map[string]string{}
	byContainer := map[string][]node{}
	var containers []*diagram.Shape
	for _, s := range d.Shapes() {
		if d.IsContainer(s) {
			containers = append(containers, s)
			continue
		}
		n := node{id: fmt.Sprintf("N%d", len(ids)+1), shape: s}
		ids[s.ID] = n.id
		if p := d.GetShape(s.ContainerID); p != nil && d.IsContainer(p) {
			byContainer[s.ContainerID] = append(byContainer[s.ContainerID], n)
		} else {
			v.nodes = append(v.nodes, n)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("diagram has no shapes")
	}

	for _, c := range containers {
		members := byContainer[c.ID]
		if len(members) == 0 {
			continue
		}
		v.clusters = append(v.clusters, cluster{
			id:      fmt.Sprintf("C%d", len(v.clusters)+1),
			title:   c.Text,
			members: members,
		})
	}

	defaultStroke := diagram.DefaultConnectorStyle().String("stroke")
	for _, c := range d.Connectors() {
		from, okFrom := ids[c.SourceShapeID]
		to, okTo := ids[c.TargetShapeID]
		if !okFrom || !okTo {
			v.skipped++
			continue
		}
		e := edge{
			from:       from,
			to:         to,
			dashed:     c.Style.String("strokeDash") != "",
			thick:      c.Style.Float("strokeWidth") >= 3,
			startArrow: c.StartArrow,
			endArrow:   c.EndArrow,
		}
		if c.Label != nil {
			e.label = c.Label.Text
		}
		if stroke := diagram.NormalizeColor(c.Style.String("stroke"), ""); stroke != "" && stroke != defaultStroke {
			e.color = stroke
		}
		v.edges = append(v.edges, e)
	}
	return v, nil
}

// fill returns the fill color of a shape when it is not the default one.
func fill(s *diagram.Shape) string {
	f := diagram.NormalizeColor(s.Style.String("fill"), "")
	if f == diagram.DefaultShapeStyle().String("fill") {
		return ""
	}
	return f
}

func hasHead(arrow string) bool {
	return arrow != "" && arrow != "none"
}
