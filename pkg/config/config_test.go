package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if cfg.Reader.MethodFile != "method" || cfg.Reader.FIDFile != "fid" {
		t.Errorf("Unexpected default file names %q and %q", cfg.Reader.MethodFile, cfg.Reader.FIDFile)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Expected default format yaml, got %s", cfg.Output.Format)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "reader:\n  byteOrder: big\n  strict: true\noutput:\n  format: json\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Reader.Strict {
		t.Error("Expected strict to be loaded")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Output.Format)
	}
	if cfg.Reader.MethodFile != "method" {
		t.Errorf("Expected unset fields to keep defaults, got %q", cfg.Reader.MethodFile)
	}
	order, err := cfg.Order()
	if err != nil || order != binary.BigEndian {
		t.Errorf("Expected big endian, got %v (%v)", order, err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("reader: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected reloaded config to equal defaults, got %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"byte order", func(c *Config) { c.Reader.ByteOrder = "middle" }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"noise fraction", func(c *Config) { c.Spectrum.NoiseFraction = 1 }},
		{"zero fill", func(c *Config) { c.Spectrum.ZeroFill = -1 }},
		{"quality", func(c *Config) { c.Preview.Quality = 0 }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected %s to be rejected", tt.name)
		}
	}
}
