package bullet

import (
	"errors"
	"fmt"
	"math"

	"bulletrow/internal/models"
)

// Validation failures. Rendering never checks these itself; callers
// that want loud failures run Validate first.
var (
	ErrNoDatasets     = errors.New("no datasets to render")
	ErrEmptySeries    = errors.New("series is empty")
	ErrNonFinite      = errors.New("value is not finite")
	ErrNegativeValue  = errors.New("value is negative")
	ErrCanvasTooSmall = errors.New("margins leave no drawable area")
)

// ValidationError locates a validation failure.
// Index is -1 for canvas-level problems.
type ValidationError struct {
	Index int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("dataset %d: invalid %s: %v", e.Index, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate reports the first input that would render degenerately:
// a canvas without inner area, no datasets, an empty series, or a
// negative or non-finite value. Mismatched label counts are allowed.
func Validate(opts Options, data []models.Dataset) error {
	if !(opts.InnerWidth() > 0) {
		return &ValidationError{Index: -1, Field: "width", Err: ErrCanvasTooSmall}
	}
	if !(opts.InnerHeight() > 0) {
		return &ValidationError{Index: -1, Field: "height", Err: ErrCanvasTooSmall}
	}
	if len(data) == 0 {
		return &ValidationError{Index: -1, Field: "data", Err: ErrNoDatasets}
	}
	if !(ComputeLayout(opts, data).GraphWidth > 0) {
		return &ValidationError{Index: -1, Field: "graphMarginH", Err: ErrCanvasTooSmall}
	}

	for i, d := range data {
		if err := validateSeries(opts.MaxResults(d)); err != nil {
			return &ValidationError{Index: i, Field: "maxresults", Err: err}
		}
		if err := validateSeries(opts.Results(d)); err != nil {
			return &ValidationError{Index: i, Field: "results", Err: err}
		}
	}
	return nil
}

// LabelMismatches returns the indexes of datasets whose label count
// differs from their result count
func LabelMismatches(opts Options, data []models.Dataset) []int {
	if opts.Labels == nil {
		return nil
	}
	var out []int
	for i, d := range data {
		labels := opts.Labels(d)
		if len(labels) > 0 && len(labels) != len(opts.Results(d)) {
			out = append(out, i)
		}
	}
	return out
}

func validateSeries(values []float64) error {
	if len(values) == 0 {
		return ErrEmptySeries
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
		if v < 0 {
			return fmt.Errorf("%w: %g", ErrNegativeValue, v)
		}
	}
	return nil
}
