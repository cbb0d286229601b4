package bullet

import (
	"math"

	"bulletrow/internal/models"
)

// Slot is the placement of one sub-chart in the row
type Slot struct {
	Index     int
	DomainMax float64
	Scale     Scale
	XOffset   float64
	Dataset   models.Dataset
}

// Layout is the derived per-render state of a row of sub-charts
type Layout struct {
	InnerWidth  float64
	InnerHeight float64
	GraphWidth  float64
	Slots       []Slot
}

// ComputeLayout packs one sub-chart per dataset left to right.
// Every sub-chart gets the same width; each scale maps [0, max] of its
// dataset's maxima and results onto [0, GraphWidth]. No input is
// rejected: zero datasets give an infinite width, an empty series gives
// a -Inf domain maximum.
func ComputeLayout(opts Options, data []models.Dataset) Layout {
	l := Layout{
		InnerWidth:  opts.InnerWidth(),
		InnerHeight: opts.InnerHeight(),
	}
	n := float64(len(data))
	l.GraphWidth = l.InnerWidth/n - 2*opts.GraphMarginH

	l.Slots = make([]Slot, len(data))
	for i, d := range data {
		domainMax := math.Max(seriesMax(opts.MaxResults(d)), seriesMax(opts.Results(d)))
		fi := float64(i)
		l.Slots[i] = Slot{
			Index:     i,
			DomainMax: domainMax,
			Scale:     Linear(0, domainMax, 0, l.GraphWidth),
			XOffset:   opts.Margins.Left + fi*l.GraphWidth + fi*opts.GraphMarginH,
			Dataset:   d,
		}
	}
	return l
}

// seriesMax returns the largest value, -Inf for an empty series
func seriesMax(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v > m {
			m = v
		}
	}
	return m
}
