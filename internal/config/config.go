// Package config loads and validates the pipeline configuration: logging,
// data-directory paths, and the resolution constants that the engines take
// as explicit values rather than ambient globals.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Resolution ResolutionConfig `yaml:"resolution" envconfig:"RESOLUTION"`
}

// LoggingConfig contains logging configuration. Defaults come from Default(),
// never from envconfig tags: a default tag would make envconfig overwrite
// YAML-loaded values whenever the env var is absent.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the data directory layout. All paths are relative to
// DataDir unless absolute.
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR"`
	RawDir      string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	MasterDir   string `yaml:"master_dir" envconfig:"MASTER_DIR"`
	MappingsDir string `yaml:"mappings_dir" envconfig:"MAPPINGS_DIR"`
}

// ResolutionConfig carries the constants shared by the resolver and the match
// engine. The sentinel dates stand in for open-ended or missing window bounds
// so that interval arithmetic never sees a null; the remaining fields tune
// match scoring. ESGLagYears is the knowledge-lag convention exported for
// downstream consumers; the resolution engines themselves never read it.
type ResolutionConfig struct {
	FarFutureDate      string `yaml:"far_future_date" envconfig:"FAR_FUTURE_DATE" validate:"required"`
	EarlyPastDate      string `yaml:"early_past_date" envconfig:"EARLY_PAST_DATE" validate:"required"`
	PreferredExchanges []int  `yaml:"preferred_exchanges" envconfig:"PREFERRED_EXCHANGES"`
	OverlapYearCap     int    `yaml:"overlap_year_cap" envconfig:"OVERLAP_YEAR_CAP" validate:"min=0"`
	ESGLagYears        int    `yaml:"esg_lag_years" envconfig:"ESG_LAG_YEARS" validate:"min=0"`
}

// FarFuture returns the parsed far-future sentinel date.
func (r ResolutionConfig) FarFuture() (time.Time, error) {
	return time.Parse("2006-01-02", r.FarFutureDate)
}

// EarlyPast returns the parsed early-past sentinel date.
func (r ResolutionConfig) EarlyPast() (time.Time, error) {
	return time.Parse("2006-01-02", r.EarlyPastDate)
}

// Load reads configuration from an optional YAML file, overlays environment
// variables with the ESGMAP prefix, and validates the result. Precedence is
// defaults, then file, then environment: envconfig only writes fields whose
// env var is actually set, so file values survive the overlay.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("ESGMAP", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/esgmap.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			RawDir:      "raw",
			MasterDir:   "processed/security_master",
			MappingsDir: "processed/id_mappings",
		},
		Resolution: ResolutionConfig{
			FarFutureDate:      "2262-04-11",
			EarlyPastDate:      "1900-01-01",
			PreferredExchanges: []int{1, 3},
			OverlapYearCap:     3,
			ESGLagYears:        1,
		},
	}
}

// Validate checks structural constraints and that the sentinel dates parse
// and are ordered.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	far, err := c.Resolution.FarFuture()
	if err != nil {
		return fmt.Errorf("far_future_date: %w", err)
	}
	early, err := c.Resolution.EarlyPast()
	if err != nil {
		return fmt.Errorf("early_past_date: %w", err)
	}
	if !early.Before(far) {
		return fmt.Errorf("early_past_date %s must precede far_future_date %s",
			c.Resolution.EarlyPastDate, c.Resolution.FarFutureDate)
	}

	return nil
}
