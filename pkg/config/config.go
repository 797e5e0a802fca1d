// Package config provides configuration loading and management for brukerfid.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Reader parameters
	Reader struct {
		// MethodFile is the name of the parameter file inside a scan directory
		MethodFile string `yaml:"methodFile" mapstructure:"methodFile"`

		// FIDFile is the name of the raw sample file inside a scan directory
		FIDFile string `yaml:"fidFile" mapstructure:"fidFile"`

		// ByteOrder of the fid words: "little" or "big"
		ByteOrder string `yaml:"byteOrder" mapstructure:"byteOrder"`

		// Strict rejects parameter files with skipped or degraded entries
		Strict bool `yaml:"strict" mapstructure:"strict"`
	} `yaml:"reader" mapstructure:"reader"`

	// Output parameters
	Output struct {
		// Dir is where exported files are written
		Dir string `yaml:"dir" mapstructure:"dir"`

		// Format of sidecar and header output: "yaml" or "json"
		Format string `yaml:"format" mapstructure:"format"`

		// WriteRaw controls whether the raw complex64 dump is written
		WriteRaw bool `yaml:"writeRaw" mapstructure:"writeRaw"`
	} `yaml:"output" mapstructure:"output"`

	// Spectrum parameters
	Spectrum struct {
		// ZeroFill is the FFT length after zero filling (0 disables)
		ZeroFill int `yaml:"zeroFill" mapstructure:"zeroFill"`

		// NoiseFraction is the share of the spectrum edges used as noise
		NoiseFraction float64 `yaml:"noiseFraction" mapstructure:"noiseFraction"`

		// CentrePPM is the chemical shift assigned to zero frequency
		CentrePPM float64 `yaml:"centrePPM" mapstructure:"centrePPM"`
	} `yaml:"spectrum" mapstructure:"spectrum"`

	// Preview parameters
	Preview struct {
		// Quality is the JPEG quality
		Quality int `yaml:"quality" mapstructure:"quality"`

		// Gamma is applied to normalised magnitudes
		Gamma float64 `yaml:"gamma" mapstructure:"gamma"`
	} `yaml:"preview" mapstructure:"preview"`

	// Logging parameters
	Logging struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level" mapstructure:"level"`
	} `yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Reader.MethodFile = "method"
	cfg.Reader.FIDFile = "fid"
	cfg.Reader.ByteOrder = "little"
	cfg.Reader.Strict = false

	cfg.Output.Dir = "."
	cfg.Output.Format = "yaml"
	cfg.Output.WriteRaw = true

	cfg.Spectrum.ZeroFill = 0
	cfg.Spectrum.NoiseFraction = 0.2
	cfg.Spectrum.CentrePPM = 4.65

	cfg.Preview.Quality = 90
	cfg.Preview.Gamma = 1.0

	cfg.Logging.Level = "info"

	return cfg
}

// Validate checks that enumerated and ranged values are usable
func (c *Config) Validate() error {
	if _, err := c.Order(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "yaml", "yml", "json":
	default:
		return fmt.Errorf("invalid output format: %s (must be yaml or json)", c.Output.Format)
	}
	if c.Spectrum.NoiseFraction <= 0 || c.Spectrum.NoiseFraction >= 1 {
		return fmt.Errorf("invalid noise fraction: %g (must be between 0 and 1)", c.Spectrum.NoiseFraction)
	}
	if c.Spectrum.ZeroFill < 0 {
		return fmt.Errorf("invalid zero fill: %d", c.Spectrum.ZeroFill)
	}
	if c.Preview.Quality < 1 || c.Preview.Quality > 100 {
		return fmt.Errorf("invalid preview quality: %d (must be between 1 and 100)", c.Preview.Quality)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Logging.Level)
	}
	return nil
}

// Order returns the configured fid byte order
func (c *Config) Order() (binary.ByteOrder, error) {
	switch c.Reader.ByteOrder {
	case "little", "":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("invalid byte order: %s (must be little or big)", c.Reader.ByteOrder)
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
