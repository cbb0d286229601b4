package scene

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Kind identifies the primitive a Node describes
type Kind int

const (
	KindRect Kind = iota
	KindPolygon
	KindLine
	KindAxis
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindPolygon:
		return "polygon"
	case KindLine:
		return "line"
	case KindAxis:
		return "axis"
	default:
		return "unknown"
	}
}

// Point is a pixel position relative to the owning group
type Point struct {
	X float64
	Y float64
}

// Style holds the paint attributes of a node
type Style struct {
	Fill        drawing.Color
	FillOpacity float64
	Stroke      drawing.Color
	StrokeWidth float64
}

// Tick is one axis tick: the domain value, its pixel position and label
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Node is one drawable primitive.
// Rects use X, Y, Width and Height. Polygons use Points. Lines use the
// first two Points. Axes are drawn at (X, Y) along Width with Ticks below.
type Node struct {
	Key    string
	Class  string
	Kind   Kind
	X      float64
	Y      float64
	Width  float64
	Height float64
	Points []Point
	Ticks  []Tick
	Title  string
	Style  Style
}

// Group is a translated container of nodes, one per sub-chart.
// It doubles as the sub-chart's wrap: every primitive of the chart is a
// direct child, positioned relative to Translate.
type Group struct {
	Key       string
	Class     string
	Translate Point
	Nodes     []Node
}

// Frame is the complete desired scene for one render
type Frame struct {
	Width  float64
	Height float64
	Groups []Group
}

// NodeCount returns the total number of nodes in the frame
func (f Frame) NodeCount() int {
	n := 0
	for _, g := range f.Groups {
		n += len(g.Nodes)
	}
	return n
}
