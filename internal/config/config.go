// Package config provides configuration management for hgrep.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the hgrep configuration. Command-line flags override
// any value loaded from the config file.
type Config struct {
	// Endpoint is the base URL of the Hound server.
	Endpoint string `yaml:"endpoint"`

	// BatchSize is the window width used once windowing becomes necessary.
	BatchSize int `yaml:"batch_size"`

	// Workers bounds the concurrent window fetches.
	Workers int `yaml:"workers"`

	// TimeoutSecs is the per-request network timeout in seconds.
	TimeoutSecs int `yaml:"timeout_secs"`

	// CollectTimeoutSecs bounds the wait per completed fetch outcome.
	CollectTimeoutSecs int `yaml:"collect_timeout_secs"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "http://localhost:6080",
		BatchSize:          50,
		Workers:            10,
		TimeoutSecs:        10,
		CollectTimeoutSecs: 2,
	}
}

// Load reads the config from the default path, falling back to defaults
// when no file exists.
func Load() (*Config, error) {
	return LoadFromFile(ConfigFile())
}

// LoadFromFile reads the config from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("HGREP_ENDPOINT"); endpoint != "" {
		c.Endpoint = endpoint
	}
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	if c.BatchSize < 1 {
		return errors.New("batch_size must be at least 1")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.TimeoutSecs < 1 || c.CollectTimeoutSecs < 1 {
		return errors.New("timeouts must be at least 1 second")
	}
	return nil
}
