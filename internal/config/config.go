// Package config provides Viper-based configuration loading for the arbiter
// engine binaries.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds ruleset content settings.
type ContentConfig struct {
	// Dir is the root directory of the authored content channels
	// (entities/, statuses/, interactions/, opposition.yaml).
	Dir string `mapstructure:"dir"`
}

// ClockConfig holds the starting calendar date of the game clock.
type ClockConfig struct {
	Year  int `mapstructure:"year"`
	Month int `mapstructure:"month"`
	Day   int `mapstructure:"day"`
	Hour  int `mapstructure:"hour"`
}

// DiceConfig holds randomness settings.
type DiceConfig struct {
	// Seed selects a deterministic dice source when non-zero; 0 uses the
	// crypto source.
	Seed int64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Clock   ClockConfig   `mapstructure:"clock"`
	Dice    DiceConfig    `mapstructure:"dice"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if err := validateClock(c.Clock); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateClock(c ClockConfig) error {
	var errs []string
	if c.Year < 1 {
		errs = append(errs, fmt.Sprintf("clock.year must be >= 1, got %d", c.Year))
	}
	if c.Month < 1 || c.Month > 12 {
		errs = append(errs, fmt.Sprintf("clock.month must be 1-12, got %d", c.Month))
	}
	if c.Day < 1 || c.Day > 30 {
		errs = append(errs, fmt.Sprintf("clock.day must be 1-30, got %d", c.Day))
	}
	if c.Hour < 0 || c.Hour > 23 {
		errs = append(errs, fmt.Sprintf("clock.hour must be 0-23, got %d", c.Hour))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARBITER_ prefix
	v.SetEnvPrefix("ARBITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.dir", "content")

	v.SetDefault("clock.year", 1)
	v.SetDefault("clock.month", 1)
	v.SetDefault("clock.day", 1)
	v.SetDefault("clock.hour", 8)

	v.SetDefault("dice.seed", 0)
}
