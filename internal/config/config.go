// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ironsheep/mser-tools-mcp/internal/mser"
)

// Config holds the server's environment-driven settings.
//
// The nine MSER fields set the baseline detector parameters; tool calls may
// override any of them per request.
type Config struct {
	LogLevel string `env:"MSER_MCP_LOG_LEVEL" envDefault:"info"`

	Delta         int     `env:"MSER_MCP_DELTA" envDefault:"5"`
	MinArea       int     `env:"MSER_MCP_MIN_AREA" envDefault:"60"`
	MaxArea       int     `env:"MSER_MCP_MAX_AREA" envDefault:"14400"`
	MaxVariation  float64 `env:"MSER_MCP_MAX_VARIATION" envDefault:"0.25"`
	MinDiversity  float64 `env:"MSER_MCP_MIN_DIVERSITY" envDefault:"0.2"`
	MaxEvolution  int     `env:"MSER_MCP_MAX_EVOLUTION" envDefault:"200"`
	AreaThreshold float64 `env:"MSER_MCP_AREA_THRESHOLD" envDefault:"1.01"`
	MinMargin     float64 `env:"MSER_MCP_MIN_MARGIN" envDefault:"0.003"`
	EdgeBlurSize  int     `env:"MSER_MCP_EDGE_BLUR_SIZE" envDefault:"5"`

	// MaxRegions caps the regions returned by one detection call.
	MaxRegions int `env:"MSER_MCP_MAX_REGIONS" envDefault:"500"`

	// DetectorCacheSize is how many configured detectors are kept alive.
	DetectorCacheSize int `env:"MSER_MCP_DETECTOR_CACHE_SIZE" envDefault:"8"`

	OCRLanguage string `env:"MSER_MCP_OCR_LANGUAGE" envDefault:"eng"`
}

// Default returns the configuration Load produces with no variables set.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		Delta:             mser.DefaultDelta,
		MinArea:           mser.DefaultMinArea,
		MaxArea:           mser.DefaultMaxArea,
		MaxVariation:      mser.DefaultMaxVariation,
		MinDiversity:      mser.DefaultMinDiversity,
		MaxEvolution:      mser.DefaultMaxEvolution,
		AreaThreshold:     mser.DefaultAreaThreshold,
		MinMargin:         mser.DefaultMinMargin,
		EdgeBlurSize:      mser.DefaultEdgeBlurSize,
		MaxRegions:        500,
		DetectorCacheSize: 8,
		OCRLanguage:       "eng",
	}
}

// parseEnv fills cfg from environment variables and envDefault tags.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no meaningful out-of-range value.
// MSER parameters are passed through unchecked.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid MSER_MCP_LOG_LEVEL %q: want debug, info, warn or error", c.LogLevel)
	}
	if c.MaxRegions <= 0 {
		return fmt.Errorf("invalid MSER_MCP_MAX_REGIONS %d: must be positive", c.MaxRegions)
	}
	if c.DetectorCacheSize <= 0 {
		return fmt.Errorf("invalid MSER_MCP_DETECTOR_CACHE_SIZE %d: must be positive", c.DetectorCacheSize)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Builder returns a builder with all nine MSER parameters set from c.
func (c *Config) Builder() mser.Builder {
	return mser.NewBuilder().
		Delta(c.Delta).
		MinArea(c.MinArea).
		MaxArea(c.MaxArea).
		MaxVariation(c.MaxVariation).
		MinDiversity(c.MinDiversity).
		MaxEvolution(c.MaxEvolution).
		AreaThreshold(c.AreaThreshold).
		MinMargin(c.MinMargin).
		EdgeBlurSize(c.EdgeBlurSize)
}
