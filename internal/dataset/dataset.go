package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"bulletrow/internal/models"
)

// Format is an input encoding for datasets
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat indicates an input file type that cannot be read
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// LoadError locates a failure while reading datasets
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load datasets from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatFromPath picks the input format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the datasets in the file at path, chosen by extension
func Load(path string) ([]models.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	if format == FormatXLSX {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, &LoadError{Source: path, Err: err}
		}
		defer f.Close()
		data, err := fromWorkbook(f)
		if err != nil {
			return nil, &LoadError{Source: path, Err: err}
		}
		return data, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer file.Close()

	data, err := Decode(file, format)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return data, nil
}

// Decode reads datasets from r in the given format.
// JSON and YAML hold a list of {maxresults, results, rlabels} objects.
func Decode(r io.Reader, format Format) ([]models.Dataset, error) {
	var data []models.Dataset
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("invalid xlsx: %w", err)
		}
		defer f.Close()
		return fromWorkbook(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return data, nil
}

// fromWorkbook reads one dataset per sheet, in workbook order.
// Column A names the row (maxresults, results or rlabels); the
// following cells hold the values. Other rows are ignored.
func fromWorkbook(f *excelize.File) ([]models.Dataset, error) {
	var data []models.Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		var d models.Dataset
		for i, row := range rows {
			if len(row) == 0 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(row[0]))
			cells := trimTrailingEmpty(row[1:])
			switch key {
			case "maxresults":
				if d.MaxResults, err = parseNumbers(cells); err != nil {
					return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
				}
			case "results":
				if d.Results, err = parseNumbers(cells); err != nil {
					return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
				}
			case "rlabels":
				d.RLabels = cells
			}
		}
		data = append(data, d)
	}
	return data, nil
}

func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func parseNumbers(cells []string) ([]float64, error) {
	out := make([]float64, 0, len(cells))
	for _, c := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", c)
		}
		out = append(out, v)
	}
	return out, nil
}
