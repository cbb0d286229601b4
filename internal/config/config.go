package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"bulletrow/internal/bullet"
)

// Config holds all configuration for the bullet chart renderer and service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Canvas configuration
	Width        float64 `env:"BULLET_WIDTH,default=960"`
	Height       float64 `env:"BULLET_HEIGHT,default=100"`
	MarginTop    float64 `env:"BULLET_MARGIN_TOP,default=10"`
	MarginRight  float64 `env:"BULLET_MARGIN_RIGHT,default=5"`
	MarginBottom float64 `env:"BULLET_MARGIN_BOTTOM,default=20"`
	MarginLeft   float64 `env:"BULLET_MARGIN_LEFT,default=5"`
	GraphMarginH float64 `env:"BULLET_GRAPH_MARGIN_H,default=5"`
	Palette      string  `env:"BULLET_PALETTE,default=set1"`

	// Output configuration
	OutputFormat string `env:"OUTPUT_FORMAT,default=svg"`
	OutputDir    string `env:"OUTPUT_DIR,default=./charts"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWithLookuper(ctx, envconfig.OsLookuper())
}

// LoadWithLookuper loads configuration from the given variable source
func LoadWithLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if _, ok := bullet.PaletteByName(cfg.Palette); !ok {
		return nil, fmt.Errorf("unknown palette %q", cfg.Palette)
	}
	return &cfg, nil
}

// Margins returns the configured canvas margins
func (c *Config) Margins() bullet.Margins {
	return bullet.Margins{
		Top:    c.MarginTop,
		Right:  c.MarginRight,
		Bottom: c.MarginBottom,
		Left:   c.MarginLeft,
	}
}

// NewChart creates a chart carrying the configured size, margins and palette
func (c *Config) NewChart() *bullet.Chart {
	palette, ok := bullet.PaletteByName(c.Palette)
	if !ok {
		palette = bullet.SchemeSet1
	}
	return bullet.New().
		SetWidth(c.Width).
		SetHeight(c.Height).
		SetMargins(c.Margins()).
		SetGraphMarginH(c.GraphMarginH).
		SetBandPalette(palette).
		SetResultPalette(palette)
}
