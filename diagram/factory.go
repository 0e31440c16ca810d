package diagram

// DefaultTextStyle returns the text style given to newly created shapes.
func DefaultTextStyle() Style {
	return Style{
		"fontFamily":     "Inter, system-ui, sans-serif",
		"fontSize":       10.0,
		"fontWeight":     "normal",
		"fontStyle":      "normal",
		"textDecoration": "none",
		"color":          "#1a1a2e",
		"align":          "center",
		"vAlign":         "middle",
	}
}

// DefaultShapeStyle returns the style given to newly created shapes.
func DefaultShapeStyle() Style {
	return Style{
		"fill":        "#ffffff",
		"stroke":      "#1a7a4c",
		"strokeWidth": 2.0,
		"strokeDash":  "",
		"opacity":     1.0,
		"shadow":      false,
	}
}

// DefaultConnectorStyle returns the style given to newly created connectors.
func DefaultConnectorStyle() Style {
	return Style{
		"stroke":      "#1a7a4c",
		"strokeWidth": 2.0,
		"strokeDash":  "",
	}
}

// NewShape builds a shape with default styles and a fresh id.
// The layer is left empty; AddShape assigns the first layer.
func NewShape(shapeType string, x, y, width, height float64) *Shape {
	return &Shape{
		ID:        NewID(PrefixShape),
		Type:      shapeType,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		TextStyle: DefaultTextStyle(),
		Style:     DefaultShapeStyle(),
		Data:      Data{},
	}
}

// NewConnector builds an orthogonal connector between two shape ports.
// Either shape id may be empty for a dangling end.
func NewConnector(sourceShapeID, sourcePortID, targetShapeID, targetPortID string) *Connector {
	return &Connector{
		ID:            NewID(PrefixConnector),
		SourceShapeID: sourceShapeID,
		SourcePortID:  sourcePortID,
		TargetShapeID: targetShapeID,
		TargetPortID:  targetPortID,
		Style:         DefaultConnectorStyle(),
		StartArrow:    "none",
		EndArrow:      "arrow",
		Label:         &Label{Text: "", Position: 0.5},
		RoutingType:   RoutingOrthogonal,
	}
}
