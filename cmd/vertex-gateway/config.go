package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig represents the YAML configuration structure
type GatewayConfig struct {
	Version  string        `yaml:"version"`
	Project  string        `yaml:"project"`
	Location string        `yaml:"location,omitempty"`
	Endpoint string        `yaml:"endpoint,omitempty"`
	Models   []ModelConfig `yaml:"models"`
	Timeout  string        `yaml:"timeout,omitempty"`
}

// TimeoutDuration parses the configured timeout. A zero duration means
// no per-request timeout.
func (c *GatewayConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// ModelConfig represents a single exposed model configuration
type ModelConfig struct {
	Name        string `yaml:"name"`
	Preview     bool   `yaml:"preview,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LoadConfig loads and parses the YAML configuration file
func LoadConfig(path string) (*GatewayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GatewayConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *GatewayConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("version is required")
	}
	if cfg.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (supported: 1.0)", cfg.Version)
	}

	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project is required")
	}

	if len(cfg.Models) == 0 {
		return fmt.Errorf("at least one model must be configured")
	}

	if _, err := cfg.TimeoutDuration(); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	seen := make(map[string]bool)
	for i, model := range cfg.Models {
		if strings.TrimSpace(model.Name) == "" {
			return fmt.Errorf("models[%d]: name cannot be empty", i)
		}
		if seen[model.Name] {
			return fmt.Errorf("models[%d]: duplicate model name: %s", i, model.Name)
		}
		seen[model.Name] = true
	}

	return nil
}

// GetModel looks up the configuration for a model by name.
func (c *GatewayConfig) GetModel(name string) (*ModelConfig, error) {
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i], nil
		}
	}
	return nil, fmt.Errorf("model %q is not configured", name)
}
