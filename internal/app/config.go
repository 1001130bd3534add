// Package app aggregates configuration and wires the service graph into the
// reusable bot core.
package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "bindcast/core/config"
	coredatabase "bindcast/core/database"
)

// Config aggregates the core bot configuration with the database settings.
type Config struct {
	coreconfig.Config `yaml:",inline"`
	Database          coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 10
	}
	return &cfg, nil
}
