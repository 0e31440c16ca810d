package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcraft/diagram"
	"flowcraft/geometry"
)

func TestSetBounds(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)
	c := s.Connect("a", "b")
	require.NotNil(t, c)

	s.SetBounds("a", geometry.Rect{X: 10, Y: 20, Width: 200, Height: 100})
	a := s.Model().GetShape("a")
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 200, Height: 100}, a.Bounds())
	assert.Equal(t, pt(210, 70), s.Model().GetConnector(c.ID).Points[0], "connector follows the new right edge")
	assert.Equal(t, []string{"Resize Shape", "Add Connector"}, undoLabels(s))

	s.SetBounds("a", geometry.Rect{Width: 0.5, Height: 10})
	s.SetBounds("ghost", geometry.Rect{Width: 10, Height: 10})
	s.SetBounds("a", a.Bounds())
	assert.Len(t, undoLabels(s), 2, "degenerate, unknown and unchanged bounds record nothing")

	s.Undo()
	assert.Equal(t, geometry.Rect{Width: 140, Height: 80}, s.Model().GetShape("a").Bounds())
}

func TestSetConnectorStyle(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)
	c := s.Connect("a", "b")
	require.NotNil(t, c)
	stroke := c.Style["stroke"]

	s.SetConnectorStyle(c.ID, diagram.Style{"strokeDash": "5 5"})
	got := s.Model().GetConnector(c.ID).Style
	assert.Equal(t, "5 5", got["strokeDash"])
	assert.Equal(t, stroke, got["stroke"], "other values are kept")

	s.Undo()
	assert.NotEqual(t, "5 5", s.Model().GetConnector(c.ID).Style["strokeDash"])

	s.SetConnectorStyle(c.ID, nil)
	s.SetConnectorStyle("ghost", diagram.Style{"stroke": "#000000"})
	assert.Equal(t, []string{"Add Connector"}, undoLabels(s))
}

func TestConnectorLabel(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)
	c := s.Connect("a", "b")
	require.NotNil(t, c)

	s.SetConnectorLabel(c.ID, "yes")
	assert.Equal(t, diagram.Label{Text: "yes", Position: 0.5}, LabelOf(s.Model().GetConnector(c.ID)))
	assert.Equal(t, []string{"Add Connector"}, undoLabels(s), "label edits are not undo steps")

	tests := []struct {
		name    string
		pointer geometry.Point
		want    float64
	}{
		{"quarter of the way", pt(205, 100), 0.25},
		{"clamped at the source", pt(0, 40), LabelMin},
		{"clamped at the target", pt(1000, 0), LabelMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.MoveConnectorLabel(c.ID, tt.pointer)
			label := LabelOf(s.Model().GetConnector(c.ID))
			assert.InDelta(t, tt.want, label.Position, 1e-9)
			assert.Equal(t, "yes", label.Text)
		})
	}
}

func TestAddConnectorRoutesWhenEmpty(t *testing.T) {
	s := newSession(false)
	place(s, "a", 0, 0)
	place(s, "b", 400, 0)

	c := s.AddConnector(diagram.NewConnector("a", "right", "b", "left"))
	require.NotNil(t, c)
	require.GreaterOrEqual(t, len(c.Points), 2)
	assert.Equal(t, pt(140, 40), c.Points[0])
	assert.Equal(t, pt(400, 40), c.Points[len(c.Points)-1])
	assert.Nil(t, s.AddConnector(nil))
}

func TestSetContainer(t *testing.T) {
	s := newSession(false)
	placeContainer(s, "box", 0, 0)
	placeContainer(s, "other", 500, 0)
	place(s, "a", 20, 20)

	s.SetContainer("a", "box")
	assert.Equal(t, "box", s.Model().GetShape("a").ContainerID)
	assert.Equal(t, []string{"Set Container"}, undoLabels(s))

	s.SetContainer("a", "box")
	s.SetContainer("a", "ghost")
	s.SetContainer("box", "other")
	s.SetContainer("other", "a")
	assert.Len(t, undoLabels(s), 1, "no-ops and nested containers record nothing")
	assert.Empty(t, s.Model().GetShape("box").ContainerID)

	s.SetContainer("a", "")
	assert.Empty(t, s.Model().GetShape("a").ContainerID)
	s.Undo()
	assert.Equal(t, "box", s.Model().GetShape("a").ContainerID)
}
