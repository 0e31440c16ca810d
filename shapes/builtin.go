package shapes

import "flowcraft/diagram"

// Type tags of the shapes with behaviour the core cares about.
const (
	TypeRectangle  = "basic:rectangle"
	TypeSwimLane   = "flowchart:swim-lane"
	TypeTimeline   = "flowchart:timeline"
	TypeContainer  = "container:container"
	TypeSwimlaneH  = "container:swimlane-h"
	TypeSwimlaneV  = "container:swimlane-v"
	TypeLifeline   = "uml:lifeline"
	TypeDecision   = "flowchart:decision"
	TypeProcess    = "flowchart:process"
	TypeTerminal   = "flowchart:terminal"
	TypeDatabase   = "flowchart:database"
	TypeNote       = "uml:note"
	TypeEllipse    = "basic:ellipse"
	TypeDiamond    = "basic:diamond"
	TypeRoundedBox = "basic:rounded-rect"
)

type builtin struct {
	category, shapeType, label string
	width, height              float64
}

var basicShapes = []builtin{
	{"Basic", TypeRectangle, "Rectangle", 140, 80},
	{"Basic", TypeRoundedBox, "Rounded Rect", 140, 80},
	{"Basic", "basic:circle", "Circle", 100, 100},
	{"Basic", TypeEllipse, "Ellipse", 140, 90},
	{"Basic", "basic:triangle", "Triangle", 120, 100},
	{"Basic", TypeDiamond, "Diamond", 120, 100},
	{"Basic", "basic:parallelogram", "Parallelogram", 140, 80},
	{"Basic", "basic:star", "Star", 110, 110},
	{"Basic", "basic:hexagon", "Hexagon", 130, 110},
	{"Basic", "basic:arrow-shape", "Arrow", 140, 70},
	{"Flowchart", TypeProcess, "Process", 140, 70},
	{"Flowchart", TypeDecision, "Decision", 130, 100},
	{"Flowchart", TypeTerminal, "Start/End", 140, 60},
	{"Flowchart", "flowchart:io", "Input/Output", 140, 70},
	{"Flowchart", "flowchart:document", "Document", 140, 80},
	{"Flowchart", "flowchart:predefined", "Predefined Process", 140, 70},
	{"Flowchart", "flowchart:manual-op", "Manual Operation", 140, 70},
	{"Flowchart", TypeDatabase, "Database", 100, 110},
	{"Flowchart", "flowchart:delay", "Delay", 140, 70},
	{"Flowchart", "flowchart:manual-input", "Manual Input", 140, 70},
	{"Flowchart", "flowchart:merge", "Merge", 100, 80},
	{"UML", "uml:class", "Class", 160, 120},
	{"UML", "uml:interface", "Interface", 160, 100},
	{"UML", "uml:package", "Package", 160, 110},
	{"UML", TypeNote, "Note", 140, 100},
	{"UML", "uml:actor", "Actor", 60, 100},
	{"UML", "uml:usecase", "Use Case", 150, 80},
	{"UML", "uml:component", "Component", 160, 100},
	{"UML", TypeLifeline, "Lifeline", 120, 160},
	{"Network", "network:server", "Server", 70, 100},
	{"Network", "network:desktop", "Desktop", 100, 90},
	{"Network", "network:laptop", "Laptop", 110, 80},
	{"Network", "network:cloud", "Cloud", 150, 100},
	{"Network", "network:router", "Router", 100, 60},
	{"Network", "network:switch", "Switch", 120, 50},
	{"Network", "network:firewall", "Firewall", 90, 80},
	{"Network", "network:database", "Database", 80, 100},
	{"Network", "network:mobile", "Mobile", 60, 100},
	{"Org Chart", "org:person", "Person Card", 180, 70},
	{"ER Diagram", "er:entity", "Entity", 140, 70},
	{"ER Diagram", "er:relationship", "Relationship", 120, 80},
	{"ER Diagram", "er:attribute", "Attribute", 120, 70},
	{"Mind Map", "mindmap:central", "Central Topic", 180, 80},
	{"Mind Map", "mindmap:subtopic", "Sub-topic", 140, 50},
	{"Mind Map", "mindmap:idea", "Idea", 120, 40},
}

// Default returns a registry preloaded with the built-in shape types.
func Default() *Registry {
	r := NewRegistry()
	for _, b := range basicShapes {
		r.Register(Entry{
			Definition: diagram.Definition{
				Type:          b.shapeType,
				DefaultWidth:  b.width,
				DefaultHeight: b.height,
			},
			Category: b.category,
			Label:    b.label,
		})
	}

	r.Register(Entry{
		Definition: diagram.Definition{
			Type:          TypeSwimLane,
			DefaultWidth:  800,
			DefaultHeight: 180,
			Lanes:         EqualLanes{},
		},
		Category: "Flowchart",
		Label:    "Swim Lane",
	})
	r.Register(Entry{
		Definition: diagram.Definition{
			Type:          TypeTimeline,
			Ports:         []diagram.Port{},
			DefaultWidth:  800,
			DefaultHeight: 40,
		},
		Category: "Flowchart",
		Label:    "Timeline",
	})

	for _, c := range []builtin{
		{"Containers", TypeContainer, "Container", 300, 250},
		{"Containers", TypeSwimlaneH, "Swimlane (H)", 600, 400},
		{"Containers", TypeSwimlaneV, "Swimlane (V)", 600, 400},
	} {
		r.Register(Entry{
			Definition: diagram.Definition{
				Type:          c.shapeType,
				DefaultWidth:  c.width,
				DefaultHeight: c.height,
				Container:     true,
			},
			Category: c.category,
			Label:    c.label,
		})
	}
	return r
}

// EqualLanes splits a shape vertically into len(data.lanes) lanes of equal height.
type EqualLanes struct{}

// LaneCenters returns the absolute y of the middle of each lane.
// Shapes without lanes have none.
func (EqualLanes) LaneCenters(s *diagram.Shape) []float64 {
	n := LaneCount(s)
	if n == 0 || s.Height <= 0 {
		return nil
	}
	laneH := s.Height / float64(n)
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = s.Y + laneH*float64(i) + laneH/2
	}
	return centers
}

// LaneCount returns the number of entries in data.lanes.
func LaneCount(s *diagram.Shape) int {
	if s == nil || s.Data == nil {
		return 0
	}
	switch lanes := s.Data["lanes"].(type) {
	case []any:
		return len(lanes)
	case []map[string]any:
		return len(lanes)
	case []string:
		return len(lanes)
	}
	return 0
}

// LaneAt returns the index of the lane under the absolute y, or -1.
func LaneAt(s *diagram.Shape, y float64) int {
	n := LaneCount(s)
	if n == 0 || s.Height <= 0 {
		return -1
	}
	idx := int((y - s.Y) / (s.Height / float64(n)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
