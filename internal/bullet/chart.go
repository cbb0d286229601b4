package bullet

import (
	"github.com/wcharczuk/go-chart/v2"

	"bulletrow/internal/models"
	"bulletrow/internal/scene"
)

// Accessor reads a numeric series from a dataset
type Accessor func(d models.Dataset) []float64

// LabelAccessor reads the result labels from a dataset
type LabelAccessor func(d models.Dataset) []string

// Margins is the space between the canvas edges and the packed sub-charts
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Options is an immutable snapshot of a Chart's configuration.
// Layout and geometry only ever read an Options value.
type Options struct {
	Width        float64
	Height       float64
	Margins      Margins
	GraphMarginH float64

	MaxResults Accessor
	Results    Accessor
	Labels     LabelAccessor

	// TickFormat formats axis tick labels; nil uses the step precision
	TickFormat chart.ValueFormatter

	BandPalette   Palette
	ResultPalette Palette
}

// InnerWidth is the canvas width without the left and right margins
func (o Options) InnerWidth() float64 {
	return o.Width - o.Margins.Left - o.Margins.Right
}

// InnerHeight is the canvas height without the top and bottom margins
func (o Options) InnerHeight() float64 {
	return o.Height - o.Margins.Top - o.Margins.Bottom
}

// Default configuration values
const (
	DefaultWidth        = 960
	DefaultHeight       = 100
	DefaultGraphMarginH = 5
)

// DefaultMargins are the margins a new Chart starts with
var DefaultMargins = Margins{Top: 10, Right: 5, Bottom: 20, Left: 5}

// DefaultMaxResults reads Dataset.MaxResults
func DefaultMaxResults(d models.Dataset) []float64 { return d.MaxResults }

// DefaultResults reads Dataset.Results
func DefaultResults(d models.Dataset) []float64 { return d.Results }

// DefaultLabels reads Dataset.RLabels
func DefaultLabels(d models.Dataset) []string { return d.RLabels }

// Chart is the mutable configuration of a row of bullet charts.
// Setters return the chart so calls can be chained. A Chart must not be
// mutated while a render is reading it.
type Chart struct {
	opts Options
	data []models.Dataset
}

// New creates a chart with the default size, margins and accessors
func New() *Chart {
	return &Chart{
		opts: Options{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			Margins:       DefaultMargins,
			GraphMarginH:  DefaultGraphMarginH,
			MaxResults:    DefaultMaxResults,
			Results:       DefaultResults,
			Labels:        DefaultLabels,
			BandPalette:   SchemeSet1,
			ResultPalette: SchemeSet1,
		},
	}
}

// Options returns a snapshot of the current configuration
func (c *Chart) Options() Options {
	return c.opts
}

// Data returns the bound datasets
func (c *Chart) Data() []models.Dataset { return c.data }

// SetData binds the datasets, one per sub-chart, in display order
func (c *Chart) SetData(data []models.Dataset) *Chart {
	c.data = data
	return c
}

// MaxResults returns the accessor for the range band values
func (c *Chart) MaxResults() Accessor { return c.opts.MaxResults }

// SetMaxResults sets the accessor for the range band values
func (c *Chart) SetMaxResults(fn Accessor) *Chart {
	c.opts.MaxResults = fn
	return c
}

// Results returns the accessor for the bar and marker values
func (c *Chart) Results() Accessor { return c.opts.Results }

// SetResults sets the accessor for the bar and marker values
func (c *Chart) SetResults(fn Accessor) *Chart {
	c.opts.Results = fn
	return c
}

// Labels returns the accessor for result bar titles
func (c *Chart) Labels() LabelAccessor { return c.opts.Labels }

// SetLabels sets the accessor for result bar titles
func (c *Chart) SetLabels(fn LabelAccessor) *Chart {
	c.opts.Labels = fn
	return c
}

// Width returns the canvas width
func (c *Chart) Width() float64 { return c.opts.Width }

// SetWidth sets the canvas width
func (c *Chart) SetWidth(w float64) *Chart {
	c.opts.Width = w
	return c
}

// Height returns the canvas height
func (c *Chart) Height() float64 { return c.opts.Height }

// SetHeight sets the canvas height
func (c *Chart) SetHeight(h float64) *Chart {
	c.opts.Height = h
	return c
}

// Margins returns the canvas margins
func (c *Chart) Margins() Margins { return c.opts.Margins }

// SetMargins sets the canvas margins
func (c *Chart) SetMargins(m Margins) *Chart {
	c.opts.Margins = m
	return c
}

// GraphMarginH is the gap between sub-charts and the limit stroke width
func (c *Chart) GraphMarginH() float64 { return c.opts.GraphMarginH }

// SetGraphMarginH sets the gap between sub-charts
func (c *Chart) SetGraphMarginH(g float64) *Chart {
	c.opts.GraphMarginH = g
	return c
}

// TickFormat returns the axis label formatter; nil means step precision
func (c *Chart) TickFormat() chart.ValueFormatter { return c.opts.TickFormat }

// SetTickFormat sets the axis label formatter
func (c *Chart) SetTickFormat(vf chart.ValueFormatter) *Chart {
	c.opts.TickFormat = vf
	return c
}

// BandPalette returns the range band colors
func (c *Chart) BandPalette() Palette { return c.opts.BandPalette }

// SetBandPalette sets the range band colors
func (c *Chart) SetBandPalette(p Palette) *Chart {
	c.opts.BandPalette = p
	return c
}

// ResultPalette returns the bar and marker colors
func (c *Chart) ResultPalette() Palette { return c.opts.ResultPalette }

// SetResultPalette sets the bar and marker colors
func (c *Chart) SetResultPalette(p Palette) *Chart {
	c.opts.ResultPalette = p
	return c
}

// Frame computes the layout and geometry of the bound datasets
func (c *Chart) Frame() scene.Frame {
	return BuildFrame(c.opts, c.data)
}

// Surface receives computed frames and paints them
type Surface interface {
	// Draw hands the desired scene to the surface
	Draw(f scene.Frame) error
	// Flush applies anything pending on the surface immediately
	Flush() error
}

// Render computes the full frame and issues it to the surface
func (c *Chart) Render(s Surface) error {
	if err := s.Draw(c.Frame()); err != nil {
		return err
	}
	return s.Flush()
}
