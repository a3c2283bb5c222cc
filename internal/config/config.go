// Package config provides configuration management for the election data
// pipeline.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/election-dates/internal/states"
)

// Configuration validation errors.
var (
	ErrMissingDataDir      = errors.New("data_dir is required")
	ErrInvalidYear         = errors.New("year must be a four-digit election year")
	ErrMissingStatuteCSV   = errors.New("inputs.statute_rules is required")
	ErrInvalidTimeout      = errors.New("scrape.timeout_sec must be at least 1")
	ErrMissingUserAgent    = errors.New("scrape.user_agent is required")
	ErrSourceMissingState  = errors.New("state is required")
	ErrSourceUnknownState  = errors.New("unknown state code")
	ErrSourceMissingURL    = errors.New("calendar_url is required")
	ErrInvalidCalendarType = errors.New("calendar_type must be 'html' or 'pdf'")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete pipeline configuration.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Year    int           `yaml:"year"`
	Inputs  InputsConfig  `yaml:"inputs"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputsConfig locates the raw CSV inputs consumed by the pipeline.
type InputsConfig struct {
	EAVSCSV     string `yaml:"eavs_csv"`
	StatuteCSV  string `yaml:"statute_rules"`
	SpecialsCSV string `yaml:"special_elections"`
}

// ScrapeConfig controls the SOS calendar scraper.
type ScrapeConfig struct {
	TimeoutSec int            `yaml:"timeout_sec"`
	UserAgent  string         `yaml:"user_agent"`
	Sources    []SourceConfig `yaml:"sources"`
}

// SourceConfig describes one state's Secretary of State calendar page.
type SourceConfig struct {
	State        string `yaml:"state"`
	SOSURL       string `yaml:"sos_url"`
	CalendarURL  string `yaml:"calendar_url"`
	CalendarType string `yaml:"calendar_type"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with sensible defaults. Scrape sources
// are empty; states without a source fall back to the known-dates table.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Year:    2026,
		Inputs: InputsConfig{
			EAVSCSV:     "data/eavs_jurisdictions.csv",
			StatuteCSV:  "data/statute_rules.csv",
			SpecialsCSV: "data/special_elections.csv",
		},
		Scrape: ScrapeConfig{
			TimeoutSec: 15,
			UserAgent:  "election-dates/1.0 (github.com/pfrederiksen/election-dates)",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrMissingDataDir
	}

	if c.Year < 1000 || c.Year > 9999 {
		return ErrInvalidYear
	}

	if c.Inputs.StatuteCSV == "" {
		return ErrMissingStatuteCSV
	}

	if c.Scrape.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Scrape.UserAgent == "" {
		return ErrMissingUserAgent
	}

	for i, src := range c.Scrape.Sources {
		if src.State == "" {
			return fmt.Errorf("%w: scrape.sources[%d]", ErrSourceMissingState, i)
		}

		if !states.IsValidCode(src.State) {
			return fmt.Errorf("%w: scrape.sources[%d]: %s", ErrSourceUnknownState, i, src.State)
		}

		if src.CalendarURL == "" {
			return fmt.Errorf("%w: scrape.sources[%d]", ErrSourceMissingURL, i)
		}

		if src.CalendarType != "html" && src.CalendarType != "pdf" {
			return fmt.Errorf("%w: scrape.sources[%d]: %q", ErrInvalidCalendarType, i, src.CalendarType)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a short representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Year: %d, DataDir: %s, ScrapeSources: %d}",
		c.Year, c.DataDir, len(c.Scrape.Sources))
}
