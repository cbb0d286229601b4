package bullet

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bulletrow/internal/models"
	"bulletrow/internal/scene"
)

// Marker and band style constants
const (
	BaseStrokeWidth = 2
	BaseArrowSize   = 10
	BandOpacity     = 0.3
	AxisTickCount   = 10
	AxisTickSize    = 6
)

// Element classes, also used as node key prefixes
const (
	ClassGroup      = "bullet-cvs"
	ClassMaxResults = "maxresults"
	ClassResult     = "result"
	ClassMarker     = "marker"
	ClassAxis       = "axis"
	ClassLimits     = "limits"
)

// BarWidth is the pixel length of a bar or band for value v
func BarWidth(s Scale, v float64) float64 {
	return math.Abs(s.Apply(v) - s.Apply(0))
}

// BarHeight is the height of result bar k; later bars are thinner
func BarHeight(innerHeight float64, k int) float64 {
	return innerHeight / (float64(k)/4 + 1) / 2
}

// MarkerBase is the base width of marker k; it shrinks with k
func MarkerBase(k int) float64 {
	return BaseArrowSize / float64(k+1)
}

// MarkerStrokeWidth is the stroke width of marker k; it grows with k
func MarkerStrokeWidth(k int) float64 {
	return BaseStrokeWidth * float64(k+1)
}

// Pointer returns a downward triangle of the given base and height whose
// apex touches (x, y)
func Pointer(base, height, x, y float64) []scene.Point {
	return []scene.Point{
		{X: x - base/2, Y: y - height},
		{X: x + base/2, Y: y - height},
		{X: x, Y: y},
	}
}

// BuildFrame lays out the datasets and builds one group per sub-chart
func BuildFrame(opts Options, data []models.Dataset) scene.Frame {
	l := ComputeLayout(opts, data)
	f := scene.Frame{
		Width:  opts.Width,
		Height: opts.Height,
		Groups: make([]scene.Group, 0, len(l.Slots)),
	}
	for _, s := range l.Slots {
		f.Groups = append(f.Groups, BuildGroup(opts, l, s))
	}
	return f
}

// BuildGroup computes the primitives of one sub-chart: background bands,
// result bars, target markers, the bottom axis and the two limit lines.
// Results feed both the bars and the markers.
func BuildGroup(opts Options, l Layout, s Slot) scene.Group {
	extentY := l.InnerHeight
	maxResults := opts.MaxResults(s.Dataset)
	results := opts.Results(s.Dataset)
	var labels []string
	if opts.Labels != nil {
		labels = opts.Labels(s.Dataset)
	}

	nodes := make([]scene.Node, 0, len(maxResults)+2*len(results)+3)

	for k, v := range maxResults {
		nodes = append(nodes, scene.Node{
			Key:    nodeKey(ClassMaxResults, k),
			Class:  ClassMaxResults,
			Kind:   scene.KindRect,
			Width:  BarWidth(s.Scale, v),
			Height: extentY,
			Style: scene.Style{
				Fill:        opts.BandPalette.At(k),
				FillOpacity: BandOpacity,
			},
		})
	}

	for k, v := range results {
		h := BarHeight(extentY, k)
		n := scene.Node{
			Key:    nodeKey(ClassResult, k),
			Class:  ClassResult,
			Kind:   scene.KindRect,
			Y:      (extentY - h) / 2,
			Width:  BarWidth(s.Scale, v),
			Height: h,
			Style:  scene.Style{Fill: opts.ResultPalette.At(k), FillOpacity: 1},
		}
		if k < len(labels) {
			n.Title = labels[k]
		}
		nodes = append(nodes, n)
	}

	for k, v := range results {
		nodes = append(nodes, scene.Node{
			Key:    nodeKey(ClassMarker, k),
			Class:  ClassMarker,
			Kind:   scene.KindPolygon,
			Points: Pointer(MarkerBase(k), BaseArrowSize, s.Scale.Apply(v), extentY),
			Style: scene.Style{
				Fill:        opts.ResultPalette.At(k),
				FillOpacity: 1,
				Stroke:      opts.ResultPalette.At(k),
				StrokeWidth: MarkerStrokeWidth(k),
			},
		})
	}

	nodes = append(nodes, scene.Node{
		Key:   nodeKey(ClassAxis, 0),
		Class: ClassAxis,
		Kind:  scene.KindAxis,
		Y:     extentY,
		Width: s.Scale.Range[1] - s.Scale.Range[0],
		Ticks: AxisTicks(s.Scale, opts.TickFormat),
		Style: scene.Style{Stroke: drawing.ColorBlack, StrokeWidth: 1},
	})

	// limits map the values 0 and GraphWidth through the scale
	for k, v := range []float64{0, l.GraphWidth} {
		x := s.Scale.Apply(v)
		nodes = append(nodes, scene.Node{
			Key:    nodeKey(ClassLimits, k),
			Class:  ClassLimits,
			Kind:   scene.KindLine,
			Points: []scene.Point{{X: x, Y: 0}, {X: x, Y: extentY}},
			Style:  scene.Style{Stroke: drawing.ColorBlack, StrokeWidth: opts.GraphMarginH},
		})
	}

	return scene.Group{
		Key:       nodeKey(ClassGroup, s.Index),
		Class:     ClassGroup,
		Translate: scene.Point{X: s.XOffset, Y: opts.Margins.Top},
		Nodes:     nodes,
	}
}

// AxisTicks returns the labelled ticks of a sub-chart axis.
// A nil formatter prints each value with just enough decimals for the
// tick step.
func AxisTicks(s Scale, vf chart.ValueFormatter) []scene.Tick {
	values := s.Ticks(AxisTickCount)
	if len(values) == 0 {
		return nil
	}
	if vf == nil {
		vf = stepFormatter(s.TickStep(AxisTickCount))
	}
	ticks := make([]scene.Tick, len(values))
	for i, v := range values {
		ticks[i] = scene.Tick{Value: v, Pos: s.Apply(v), Label: vf(v)}
	}
	return ticks
}

func stepFormatter(step float64) chart.ValueFormatter {
	precision := 0
	if step > 0 && !math.IsInf(step, 0) {
		if p := -int(math.Floor(math.Log10(step))); p > 0 {
			precision = p
		}
	}
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		return strconv.FormatFloat(f, 'f', precision, 64)
	}
}

func nodeKey(class string, k int) string {
	return class + "/" + strconv.Itoa(k)
}
