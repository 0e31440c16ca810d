package diagram

import "flowcraft/geometry"

// ShapePatch lists the fields to change on a shape. Nil fields are left alone.
// For GroupID and ContainerID a pointer to "" clears the reference.
type ShapePatch struct {
	Type        *string
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	Rotation    *float64
	Text        *string
	TextStyle   Style
	Style       Style
	LayerID     *string
	GroupID     *string
	ContainerID *string
	Locked      *bool
	Ports       []Port
	Data        Data
}

// MovePatch is a shorthand for a position change.
func MovePatch(x, y float64) ShapePatch {
	return ShapePatch{X: &x, Y: &y}
}

// BoundsPatch is a shorthand for a position and size change.
func BoundsPatch(r geometry.Rect) ShapePatch {
	return ShapePatch{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height}
}

// TextPatch is a shorthand for a text change.
func TextPatch(text string) ShapePatch {
	return ShapePatch{Text: &text}
}

// apply writes the patch onto s. With deep set, the map-valued fields are
// merged recursively instead of being replaced.
func (p ShapePatch) apply(s *Shape, deep bool) {
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	if p.Text != nil {
		s.Text = *p.Text
	}
	if p.LayerID != nil {
		s.LayerID = *p.LayerID
	}
	if p.GroupID != nil {
		s.GroupID = *p.GroupID
	}
	if p.ContainerID != nil {
		s.ContainerID = *p.ContainerID
	}
	if p.Locked != nil {
		s.Locked = *p.Locked
	}
	if p.Ports != nil {
		s.Ports = make([]Port, len(p.Ports))
		copy(s.Ports, p.Ports)
	}

	if deep {
		if p.TextStyle != nil {
			s.TextStyle = Style(mergeMap(s.TextStyle, p.TextStyle))
		}
		if p.Style != nil {
			s.Style = Style(mergeMap(s.Style, p.Style))
		}
		if p.Data != nil {
			s.Data = Data(mergeMap(s.Data, p.Data))
		}
		return
	}
	if p.TextStyle != nil {
		s.TextStyle = p.TextStyle.Clone()
	}
	if p.Style != nil {
		s.Style = p.Style.Clone()
	}
	if p.Data != nil {
		s.Data = p.Data.Clone()
	}
}

// ConnectorPatch lists the fields to change on a connector. Nil fields are left alone.
type ConnectorPatch struct {
	SourceShapeID *string
	SourcePortID  *string
	TargetShapeID *string
	TargetPortID  *string
	SourcePoint   *geometry.Point
	TargetPoint   *geometry.Point
	Points        []geometry.Point
	RoutingType   *RoutingType
	Style         Style
	StartArrow    *string
	EndArrow      *string
	Label         *Label
	LayerID       *string
}

func (p ConnectorPatch) apply(c *Connector) {
	if p.SourceShapeID != nil {
		c.SourceShapeID = *p.SourceShapeID
	}
	if p.SourcePortID != nil {
		c.SourcePortID = *p.SourcePortID
	}
	if p.TargetShapeID != nil {
		c.TargetShapeID = *p.TargetShapeID
	}
	if p.TargetPortID != nil {
		c.TargetPortID = *p.TargetPortID
	}
	if p.SourcePoint != nil {
		pt := *p.SourcePoint
		c.SourcePoint = &pt
	}
	if p.TargetPoint != nil {
		pt := *p.TargetPoint
		c.TargetPoint = &pt
	}
	if p.Points != nil {
		c.Points = make([]geometry.Point, len(p.Points))
		copy(c.Points, p.Points)
	}
	if p.RoutingType != nil {
		c.RoutingType = *p.RoutingType
	}
	if p.Style != nil {
		c.Style = p.Style.Clone()
	}
	if p.StartArrow != nil {
		c.StartArrow = *p.StartArrow
	}
	if p.EndArrow != nil {
		c.EndArrow = *p.EndArrow
	}
	if p.Label != nil {
		l := *p.Label
		c.Label = &l
	}
	if p.LayerID != nil {
		c.LayerID = *p.LayerID
	}
}

// LayerPatch lists the fields to change on a layer.
type LayerPatch struct {
	Name    *string
	Order   *int
	Visible *bool
	Locked  *bool
}

func (p LayerPatch) apply(l *Layer) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Order != nil {
		l.Order = *p.Order
	}
	if p.Visible != nil {
		l.Visible = *p.Visible
	}
	if p.Locked != nil {
		l.Locked = *p.Locked
	}
}

// SettingsPatch lists the settings to change.
type SettingsPatch struct {
	GridSize    *float64
	SnapToGrid  *bool
	ShowGrid    *bool
	CanvasColor *string
}
