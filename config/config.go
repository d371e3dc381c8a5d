// Package config loads engine settings from YAML.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/cumulative"
	"github.com/combocurve/typecurve/format"
	"github.com/combocurve/typecurve/memo"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/rollup"
)

// Fill policy names.
const (
	FillNone  = "none"
	FillZero  = "zero"
	FillHold  = "hold"
	FillModel = "model"
)

// Config is the complete engine configuration.
type Config struct {
	Alignment       string            `yaml:"alignment"`        // align | noalign
	Resolution      string            `yaml:"resolution"`       // daily | monthly
	PhaseType       string            `yaml:"phase_type"`       // rate | ratio; empty follows the fit source
	OverlayForecast bool              `yaml:"overlay_forecast"` // include fill/forecast values in rollups
	HonorFit        bool              `yaml:"honor_fit"`        // bridge cumulative curves to the fit start
	Statistics      []string          `yaml:"statistics"`       // mean, median, pNN
	Fill            string            `yaml:"fill"`             // none | zero | hold | model
	StatConvention  bool              `yaml:"stat_convention"`  // percentile ranks as 100 - exceedance
	Schedule        []cumulative.Step `yaml:"schedule"`
	Cache           CacheConfig       `yaml:"cache"`
	Log             LogConfig         `yaml:"log"`
}

// CacheConfig sizes the rollup memo.
type CacheConfig struct {
	Size        int    `yaml:"size"`        // entries; negative disables the cache
	Compression string `yaml:"compression"` // none | zstd | s2 | lz4
}

// LogConfig configures the engine logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Alignment:       align.ModeAlign.String(),
		Resolution:      align.Daily.String(),
		OverlayForecast: true,
		Statistics:      []string{"mean", "median", "p10", "p90"},
		Fill:            FillNone,
		Schedule:        slices.Clone(cumulative.DefaultSchedule),
		Cache: CacheConfig{
			Size:        memo.DefaultCapacity,
			Compression: "s2",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and validates the YAML file at path. Keys absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.AlignMode(); err != nil {
		return fmt.Errorf("alignment: %w", err)
	}
	if _, err := c.Res(); err != nil {
		return fmt.Errorf("resolution: %w", err)
	}
	if _, err := c.Phase(); err != nil {
		return fmt.Errorf("phase_type: %w", err)
	}
	if _, err := c.Stats(); err != nil {
		return fmt.Errorf("statistics: %w", err)
	}
	switch c.Fill {
	case FillNone, FillZero, FillHold, FillModel:
	default:
		return fmt.Errorf("fill must be one of none, zero, hold, model, got %q", c.Fill)
	}
	if err := cumulative.Schedule(c.Schedule).Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if _, err := c.CacheCompression(); err != nil {
		return fmt.Errorf("cache compression: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

// AlignMode parses Alignment.
func (c *Config) AlignMode() (align.Mode, error) {
	return align.ParseMode(c.Alignment)
}

// Res parses Resolution.
func (c *Config) Res() (align.Resolution, error) {
	return align.ParseResolution(c.Resolution)
}

// Phase parses PhaseType. The empty string parses as Rate.
func (c *Config) Phase() (phase.Type, error) {
	if c.PhaseType == "" {
		return phase.Rate, nil
	}

	return phase.ParseType(c.PhaseType)
}

// Stats parses Statistics. An empty list selects rollup.DefaultStatistics.
func (c *Config) Stats() ([]rollup.Statistic, error) {
	if len(c.Statistics) == 0 {
		return rollup.DefaultStatistics(), nil
	}
	out := make([]rollup.Statistic, len(c.Statistics))
	for i, name := range c.Statistics {
		s, err := rollup.ParseStatistic(name)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}

	return out, nil
}

// CacheCompression parses Cache.Compression.
func (c *Config) CacheCompression() (format.CompressionType, error) {
	return format.ParseCompression(c.Cache.Compression)
}

// LogLevel parses Log.Level. The empty string is info.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(c.Log.Level)
}
