// Package config provides the configuration system for the table bridge.
// It defines a single BridgeConfig structure shared by the converters, the
// lazy convert-on-write table, and the benchmark command.
//
// The configuration is organized into logical sections:
//   - Conversion: parallelism and strategy overrides
//   - Time: the preferred time zone used by time-of-day conversions
//   - Logging: zap logger settings
//   - Metrics: Prometheus collection toggle
//
// Example usage:
//
//	cfg := config.NewBridgeConfig()
//	cfg.Conversion.Workers = 8
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/ajitpratap0/tablebridge/pkg/logger"
)

// BridgeConfig is the single configuration structure used by all bridge
// components. Sections can be loaded from YAML with Load.
type BridgeConfig struct {
	// Conversion settings control how tables are converted
	Conversion ConversionConfig `yaml:"conversion" json:"conversion"`

	// Time holds the preferred time zone
	Time TimeConfig `yaml:"time" json:"time"`

	// Logging configures the global zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configures metric collection
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ConversionConfig contains the conversion strategy settings.
type ConversionConfig struct {
	// Workers bounds the number of concurrent column tasks (0 = NumCPU)
	Workers int `yaml:"workers" json:"workers"`
	// ForceSequential disables the direct and parallel-row strategies
	ForceSequential bool `yaml:"force_sequential" json:"force_sequential"`
	// LazyByDefault makes table to example set conversions return lazy views
	LazyByDefault bool `yaml:"lazy_by_default" json:"lazy_by_default"`
}

// TimeConfig holds time zone settings.
type TimeConfig struct {
	// Zone is an IANA time zone name such as "Europe/Berlin"
	Zone string `yaml:"zone" json:"zone"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored levels and stack traces on errors
	Development bool `yaml:"development" json:"development"`
}

// MetricsConfig toggles metric collection.
type MetricsConfig struct {
	// Enabled activates Prometheus metric recording
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// NewBridgeConfig creates a BridgeConfig with defaults suitable for most
// workloads.
func NewBridgeConfig() *BridgeConfig {
	return &BridgeConfig{
		Conversion: ConversionConfig{
			Workers:         runtime.NumCPU(),
			ForceSequential: false,
			LazyByDefault:   false,
		},
		Time: TimeConfig{
			Zone: "UTC",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for correctness.
func (bc *BridgeConfig) Validate() error {
	if bc.Conversion.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	if bc.Time.Zone == "" {
		return fmt.Errorf("time zone is required")
	}
	if _, err := time.LoadLocation(bc.Time.Zone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", bc.Time.Zone, err)
	}
	switch bc.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log encoding %q", bc.Logging.Encoding)
	}
	return nil
}

// GetWorkers returns the number of workers, ensuring it's at least 1
func (c *ConversionConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// LoggerConfig converts the logging section for logger.Init.
func (l *LoggingConfig) LoggerConfig() logger.Config {
	encoding := l.Encoding
	if encoding == "" {
		encoding = "json"
	}
	level := l.Level
	if level == "" {
		level = "info"
	}
	return logger.Config{
		Level:       level,
		Development: l.Development,
		Encoding:    encoding,
	}
}
