package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"midnightfront/pkg/countdown"
	"midnightfront/pkg/holidays"
	"midnightfront/pkg/refresh"
)

// HolidaysConfig points the holidays panel at its upstream API.
type HolidaysConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Limit   int           `yaml:"limit"`
	Retries int           `yaml:"retries"`
}

// Config is the root of the YAML configuration file.
type Config struct {
	Version         int                 `yaml:"version"`
	RefreshInterval time.Duration       `yaml:"refresh_interval"`
	Countries       []countdown.Country `yaml:"roster"`
	Holidays        HolidaysConfig      `yaml:"holidays"`
}

const defaultRetries = 2

// ValidationError names the config field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Version: 1, Holidays: HolidaysConfig{Retries: defaultRetries}}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads, defaults and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Omitted keys keep these values; a roster-only file is version 1.
	cfg := Config{Version: 1, Holidays: HolidaysConfig{Retries: defaultRetries}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = refresh.DefaultInterval
	}
	if len(c.Countries) == 0 {
		c.Countries = countdown.DefaultCountries()
	}
	if c.Holidays.URL == "" {
		c.Holidays.URL = holidays.DefaultURL
	}
	if c.Holidays.Timeout == 0 {
		c.Holidays.Timeout = 10 * time.Second
	}
	if c.Holidays.Limit == 0 {
		c.Holidays.Limit = 10
	}
}

// Validate checks the file version, the numeric settings and that every
// roster timezone resolves.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ValidationError{Field: "version", Err: fmt.Errorf("unsupported config version %d (expected 1)", c.Version)}
	}
	if c.RefreshInterval < 0 {
		return &ValidationError{Field: "refresh_interval", Err: errors.New("must be positive")}
	}
	if c.Holidays.Timeout < 0 {
		return &ValidationError{Field: "holidays.timeout", Err: errors.New("must be positive")}
	}
	if c.Holidays.Retries < 0 {
		return &ValidationError{Field: "holidays.retries", Err: errors.New("must be >= 0")}
	}
	if _, err := countdown.NewRoster(c.Countries); err != nil {
		return &ValidationError{Field: "roster", Err: err}
	}
	return nil
}

// Roster resolves the configured countries.
func (c *Config) Roster() (countdown.Roster, error) {
	return countdown.NewRoster(c.Countries)
}

// HolidaysClient builds a client for the configured holidays API.
func (c *Config) HolidaysClient() *holidays.Client {
	return holidays.NewClient(c.Holidays.URL,
		holidays.WithTimeout(c.Holidays.Timeout),
		holidays.WithLimit(c.Holidays.Limit),
		holidays.WithRetries(c.Holidays.Retries),
	)
}
