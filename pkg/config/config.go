// Package config holds the runtime configuration for the tally tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/TallyKit/tally/pkg/common/log"
)

const CurrentConfigVersion = 1

var ErrInvalidConfig = errors.New("invalid configuration")

// Config controls container sizing and program behavior. The map's
// load factor is fixed at 0.75 and deliberately not configurable; the
// growth contract depends on it.
type Config struct {
	Version int `json:"version"`

	// HashMap configuration
	InitialBuckets int `json:"initial_buckets"`

	// Heap configuration
	HeapArity int `json:"heap_arity"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// NewDefaultConfig creates a Config with the default values: 16
// initial buckets and a binary heap.
func NewDefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		InitialBuckets: 16,
		HeapArity:      2,
		LogLevel:       "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("%w: invalid version %d", ErrInvalidConfig, c.Version)
	}

	if c.InitialBuckets < 1 {
		return fmt.Errorf("%w: initial buckets must be at least 1", ErrInvalidConfig)
	}

	if c.HeapArity < 1 {
		return fmt.Errorf("%w: heap arity must be at least 1", ErrInvalidConfig)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// LoadConfigFromFile reads and validates a configuration file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfigToFile writes the configuration as indented JSON, going
// through a temp file so a crash never leaves a truncated config.
func (c *Config) SaveConfigToFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename config: %w", err)
	}

	return nil
}
