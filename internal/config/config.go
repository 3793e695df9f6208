// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is mole's settings file (~/.mole/config.yaml).
type Config struct {
	// Editor for `mole edit` (overrides $VISUAL/$EDITOR).
	Editor string `yaml:"editor,omitempty"`
	// SSH config file path (defaults to ~/.ssh/config).
	SSHConfig string `yaml:"ssh_config,omitempty"`
	// Health check timeout in seconds.
	HealthTimeout int `yaml:"health_timeout"`
	// Max tunnel log file size in bytes before rotation.
	MaxLogSize int64 `yaml:"max_log_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HealthTimeout: 5,
		MaxLogSize:    1 << 20,
	}
}

// Load reads config.yaml, falling back to defaults when the file is
// missing or unreadable. A broken config never blocks the CLI.
func Load() *Config {
	return LoadFrom(File())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default()
	}
	return cfg
}

// Init writes a default config file if none exists and returns its path.
func Init() (string, error) {
	path := File()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("failed to serialize default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ResolveEditor picks the editor to use: config > $VISUAL > $EDITOR > vi.
func (c *Config) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vi"
}

// SSHConfigPath returns the configured SSH config path, or ~/.ssh/config.
func (c *Config) SSHConfigPath() string {
	if c.SSHConfig != "" {
		return c.SSHConfig
	}
	return DefaultSSHConfigPath()
}
