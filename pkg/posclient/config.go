// Package posclient is the terminal-side SDK: a REST client with a query
// cache, a file-persisted cart, and a watcher that mirrors server theme
// broadcasts into shared state.
package posclient

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the terminal configuration, loaded from a YAML file.
type Config struct {
	ServerURL    string `yaml:"server_url"`
	StateDir     string `yaml:"state_dir"`
	TerminalName string `yaml:"terminal_name"`
}

// LoadConfig reads and validates a YAML config file. Missing optional fields
// get defaults; a missing server_url is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("config %s: server_url is required", path)
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".baancha")
	}
	if cfg.TerminalName == "" {
		cfg.TerminalName = "terminal"
	}
	return &cfg, nil
}
