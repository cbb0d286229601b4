package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"bulletrow/internal/bullet"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8981" {
					t.Errorf("Expected default Port to be '8981', got '%s'", cfg.Port)
				}
				if cfg.Width != 960 || cfg.Height != 100 {
					t.Errorf("Expected default canvas 960x100, got %vx%v", cfg.Width, cfg.Height)
				}
				if cfg.Margins() != bullet.DefaultMargins {
					t.Errorf("Expected default margins %+v, got %+v", bullet.DefaultMargins, cfg.Margins())
				}
				if cfg.GraphMarginH != 5 {
					t.Errorf("Expected default GraphMarginH 5, got %v", cfg.GraphMarginH)
				}
				if cfg.Palette != "set1" {
					t.Errorf("Expected default Palette 'set1', got '%s'", cfg.Palette)
				}
				if cfg.OutputFormat != "svg" {
					t.Errorf("Expected default OutputFormat 'svg', got '%s'", cfg.OutputFormat)
				}
				if cfg.OutputDir != "./charts" {
					t.Errorf("Expected default OutputDir './charts', got '%s'", cfg.OutputDir)
				}
				if cfg.GCSBucket != "" {
					t.Errorf("Expected empty GCSBucket, got '%s'", cfg.GCSBucket)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
					t.Errorf("Expected info/text logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":                  "9000",
				"BULLET_WIDTH":          "1200",
				"BULLET_HEIGHT":         "80",
				"BULLET_MARGIN_TOP":     "2",
				"BULLET_MARGIN_RIGHT":   "3",
				"BULLET_MARGIN_BOTTOM":  "4",
				"BULLET_MARGIN_LEFT":    "6",
				"BULLET_GRAPH_MARGIN_H": "1.5",
				"BULLET_PALETTE":        "set2",
				"OUTPUT_FORMAT":         "png",
				"OUTPUT_DIR":            "/tmp/out",
				"GCS_BUCKET":            "charts-bucket",
				"ENVIRONMENT":           "production",
				"LOG_LEVEL":             "debug",
				"LOG_FORMAT":            "json",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
				}
				if cfg.Width != 1200 || cfg.Height != 80 {
					t.Errorf("Expected canvas 1200x80, got %vx%v", cfg.Width, cfg.Height)
				}
				want := bullet.Margins{Top: 2, Right: 3, Bottom: 4, Left: 6}
				if cfg.Margins() != want {
					t.Errorf("Expected margins %+v, got %+v", want, cfg.Margins())
				}
				if cfg.GraphMarginH != 1.5 {
					t.Errorf("Expected GraphMarginH 1.5, got %v", cfg.GraphMarginH)
				}
				if cfg.OutputFormat != "png" || cfg.OutputDir != "/tmp/out" || cfg.GCSBucket != "charts-bucket" {
					t.Errorf("Unexpected output config: %+v", cfg)
				}
				if cfg.Environment != "production" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
					t.Errorf("Unexpected service config: %+v", cfg)
				}
			},
		},
		{
			name:        "unknown palette",
			envVars:     map[string]string{"BULLET_PALETTE": "rainbow"},
			expectError: true,
		},
		{
			name:        "non-numeric width",
			envVars:     map[string]string{"BULLET_WIDTH": "wide"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithLookuper(context.Background(), envconfig.MapLookuper(tt.envVars))
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestNewChart(t *testing.T) {
	cfg, err := LoadWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"BULLET_WIDTH":   "500",
		"BULLET_PALETTE": "set2",
	}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	c := cfg.NewChart()
	if c.Width() != 500 {
		t.Errorf("Expected chart width 500, got %v", c.Width())
	}
	if c.Height() != 100 {
		t.Errorf("Expected chart height 100, got %v", c.Height())
	}
	if c.Margins() != bullet.DefaultMargins {
		t.Errorf("Expected default margins, got %+v", c.Margins())
	}
	if c.BandPalette().At(0) != bullet.SchemeSet2.At(0) || c.ResultPalette().At(0) != bullet.SchemeSet2.At(0) {
		t.Errorf("Expected set2 palettes on the chart")
	}
}
