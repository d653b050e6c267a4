// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"greenquote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Storage contains quote persistence settings
	Storage StorageConfig `json:"storage"`

	// Settings contains account settings sources
	Settings SettingsConfig `json:"settings"`

	// Mapping contains geocoder settings
	Mapping MappingConfig `json:"mapping"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// EstimateDelayMs is the synthetic delay before an estimate is
	// returned, for the "detecting your lawn" UI state. Purely cosmetic;
	// results are identical at zero.
	EstimateDelayMs int `json:"estimate_delay_ms"`
}

// StorageConfig contains quote persistence settings
type StorageConfig struct {
	// Backend is "file" or "memory"
	Backend string `json:"backend"`

	// Directory holds quote documents for the file backend
	Directory string `json:"directory"`
}

// SettingsConfig contains account settings sources
type SettingsConfig struct {
	// Path is the HCL account settings file; empty uses built-in defaults
	Path string `json:"path"`
}

// MappingConfig contains geocoder settings
type MappingConfig struct {
	// PlaceIndexPath is the JSON seed file for the place index; empty
	// uses the built-in sample places
	PlaceIndexPath string `json:"place_index_path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".greenquote", "quotes")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:            ":8080",
			EstimateDelayMs: 600,
		},
		Storage: StorageConfig{
			Backend:   "file",
			Directory: dataDir,
		},
		Settings: SettingsConfig{},
		Mapping:  MappingConfig{},
		Logging:  logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
