package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bulletrow/internal/bullet"
	"bulletrow/internal/logger"
	"bulletrow/internal/scene"
)

const (
	axisFontSize  = 8.0
	labelFontSize = 7.0

	// maxPixel bounds device coordinates; extrapolated geometry beyond it
	// is pinned to the bound
	maxPixel = 1 << 20
)

var (
	fontOnce sync.Once
	font     *truetype.Font
	fontErr  error
)

func defaultFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		font, fontErr = chart.GetDefaultFont()
	})
	return font, fontErr
}

// Canvas is a retained drawing surface backed by go-chart renderers.
// Draw reconciles the new frame against the retained one; Flush paints
// the retained frame and encodes it. A Canvas is not safe for
// concurrent use.
type Canvas struct {
	format  Format
	tree    scene.Tree
	lastOps []scene.Op
	out     bytes.Buffer
	log     *logger.Logger

	// SnippetID names the root element of html output
	SnippetID string
	// SnippetTitle is the heading of html output
	SnippetTitle string
}

var _ bullet.Surface = (*Canvas)(nil)

// NewCanvas creates an empty canvas encoding to format
func NewCanvas(format Format, log *logger.Logger) *Canvas {
	if log == nil {
		log = logger.Component("render")
	}
	return &Canvas{
		format:       format,
		log:          log,
		SnippetID:    "bullet-row",
		SnippetTitle: "Progress",
	}
}

// Format returns the output encoding of the canvas
func (c *Canvas) Format() Format { return c.format }

// Draw reconciles f against the retained frame
func (c *Canvas) Draw(f scene.Frame) error {
	c.lastOps = c.tree.Apply(f)
	counts := scene.Count(c.lastOps)
	c.log.Debug("frame reconciled", logger.Fields{
		"groups": len(f.Groups),
		"nodes":  f.NodeCount(),
		"create": counts[scene.Create],
		"update": counts[scene.Update],
		"delete": counts[scene.Delete],
	})
	return nil
}

// Ops returns the changes applied by the last Draw
func (c *Canvas) Ops() []scene.Op { return c.lastOps }

// Flush paints the retained frame and replaces the encoded output
func (c *Canvas) Flush() error {
	f, ok := c.tree.Frame()
	if !ok {
		return fmt.Errorf("nothing drawn")
	}
	w, h := pixel(f.Width), pixel(f.Height)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid canvas size %vx%v", f.Width, f.Height)
	}

	r, err := c.format.provider()(w, h)
	if err != nil {
		return fmt.Errorf("failed to create %s renderer: %w", c.format, err)
	}
	fnt, err := defaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	r.SetFont(fnt)

	p := painter{r: r, log: c.log}
	p.background(w, h)
	for _, g := range f.Groups {
		p.group(g)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.format, err)
	}

	c.out.Reset()
	if c.format == FormatHTML {
		c.out.WriteString(NewSnippet(c.SnippetID, c.SnippetTitle, buf.Bytes()).HTML)
	} else {
		c.out.Write(buf.Bytes())
	}
	c.log.Debug("canvas flushed", logger.Fields{"format": string(c.format), "bytes": c.out.Len(), "skipped": p.skipped})
	return nil
}

// Bytes returns the output of the last Flush
func (c *Canvas) Bytes() []byte { return c.out.Bytes() }

// WriteTo writes the output of the last Flush to w
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.out.Bytes())
	return int64(n), err
}

// painter draws scene nodes onto one go-chart renderer
type painter struct {
	r       chart.Renderer
	log     *logger.Logger
	skipped int
}

func (p *painter) background(w, h int) {
	p.r.ResetStyle()
	p.r.SetFillColor(drawing.ColorWhite)
	p.r.MoveTo(0, 0)
	p.r.LineTo(w, 0)
	p.r.LineTo(w, h)
	p.r.LineTo(0, h)
	p.r.Close()
	p.r.Fill()
}

func (p *painter) group(g scene.Group) {
	for _, n := range g.Nodes {
		if !drawable(n) {
			p.skipped++
			p.log.Debug("skipping degenerate node", logger.Fields{"group": g.Key, "node": n.Key})
			continue
		}
		p.r.ResetStyle()
		p.r.SetClassName(n.Class)
		switch n.Kind {
		case scene.KindRect:
			p.rect(g.Translate, n)
		case scene.KindPolygon:
			p.polygon(g.Translate, n)
		case scene.KindLine:
			p.line(g.Translate, n)
		case scene.KindAxis:
			p.axis(g.Translate, n)
		}
	}
}

func (p *painter) rect(o scene.Point, n scene.Node) {
	x0, y0 := pixel(o.X+n.X), pixel(o.Y+n.Y)
	x1, y1 := pixel(o.X+n.X+n.Width), pixel(o.Y+n.Y+n.Height)
	p.r.SetFillColor(withOpacity(n.Style.Fill, n.Style.FillOpacity))
	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y0)
	p.r.LineTo(x1, y1)
	p.r.LineTo(x0, y1)
	p.r.Close()
	p.r.Fill()

	if n.Title != "" && n.Height >= labelFontSize+2 {
		p.r.SetFontSize(labelFontSize)
		p.r.SetFontColor(drawing.ColorBlack)
		p.r.Text(n.Title, x0+2, pixel(o.Y+n.Y+n.Height/2+labelFontSize/2))
	}
}

func (p *painter) polygon(o scene.Point, n scene.Node) {
	if len(n.Points) == 0 {
		return
	}
	p.r.SetFillColor(withOpacity(n.Style.Fill, n.Style.FillOpacity))
	p.r.SetStrokeColor(n.Style.Stroke)
	p.r.SetStrokeWidth(n.Style.StrokeWidth)
	for i, pt := range n.Points {
		x, y := pixel(o.X+pt.X), pixel(o.Y+pt.Y)
		if i == 0 {
			p.r.MoveTo(x, y)
		} else {
			p.r.LineTo(x, y)
		}
	}
	p.r.Close()
	p.r.FillStroke()
}

func (p *painter) line(o scene.Point, n scene.Node) {
	if len(n.Points) < 2 {
		return
	}
	p.r.SetStrokeColor(n.Style.Stroke)
	p.r.SetStrokeWidth(n.Style.StrokeWidth)
	p.r.MoveTo(pixel(o.X+n.Points[0].X), pixel(o.Y+n.Points[0].Y))
	p.r.LineTo(pixel(o.X+n.Points[1].X), pixel(o.Y+n.Points[1].Y))
	p.r.Stroke()
}

func (p *painter) axis(o scene.Point, n scene.Node) {
	y := pixel(o.Y + n.Y)
	p.r.SetStrokeColor(n.Style.Stroke)
	p.r.SetStrokeWidth(n.Style.StrokeWidth)
	p.r.MoveTo(pixel(o.X+n.X), y)
	p.r.LineTo(pixel(o.X+n.X+n.Width), y)
	p.r.Stroke()

	p.r.SetFontSize(axisFontSize)
	p.r.SetFontColor(drawing.ColorBlack)
	for _, t := range n.Ticks {
		x := pixel(o.X + n.X + t.Pos)
		p.r.MoveTo(x, y)
		p.r.LineTo(x, y+bullet.AxisTickSize)
		p.r.Stroke()

		box := p.r.MeasureText(t.Label)
		p.r.Text(t.Label, x-box.Width()/2, y+bullet.AxisTickSize+2+box.Height())
	}
}

// drawable reports whether every coordinate of n is finite
func drawable(n scene.Node) bool {
	vals := []float64{n.X, n.Y, n.Width, n.Height}
	for _, pt := range n.Points {
		vals = append(vals, pt.X, pt.Y)
	}
	for _, t := range n.Ticks {
		vals = append(vals, t.Pos)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func pixel(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxPixel:
		return maxPixel
	case v < -maxPixel:
		return -maxPixel
	}
	return int(math.Round(v))
}

func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	return c.WithAlpha(uint8(math.Round(opacity * 255)))
}
