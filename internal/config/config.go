// Package config handles nmapflat configuration loading and validation.
// Configuration is read from an optional YAML file; every field has a
// working default so the converter runs with no config file at all.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete converter configuration
type Config struct {
	// Conversion defaults
	Convert ConvertConfig `yaml:"convert" json:"convert" validate:"required"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging" validate:"required"`
}

// ConvertConfig holds conversion-related settings
type ConvertConfig struct {
	// Default port status filter applied when no flag is given
	DefaultStatus string `yaml:"default_status" json:"default_status" validate:"oneof=all open closed filtered"`

	// Default output format
	DefaultFormat string `yaml:"default_format" json:"default_format" validate:"oneof=json table"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`

	// Output destination (stdout, stderr, or file path)
	Output string `yaml:"output" json:"output" validate:"required"`
}

var validate = validator.New()

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			DefaultStatus: "all",
			DefaultFormat: "json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	// Start with defaults
	config := Default()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // Return defaults if no config file
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid value for %s: %v", first.Namespace(), first.Value())
		}
		return err
	}
	return nil
}
