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

// Package config holds mole's own configuration: paths under ~/.mole
// and the config.yaml settings file.
package config

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory.
func HomeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

// Dir returns mole's state directory (~/.mole).
func Dir() string {
	return filepath.Join(HomeDir(), ".mole")
}

// PidDir returns the directory holding tunnel PID files.
func PidDir() string {
	return filepath.Join(Dir(), "pids")
}

// LogDir returns the directory holding tunnel log files.
func LogDir() string {
	return filepath.Join(Dir(), "logs")
}

// File returns the path to config.yaml.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// SSHDir returns the user's ~/.ssh directory.
func SSHDir() string {
	return filepath.Join(HomeDir(), ".ssh")
}

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() string {
	return filepath.Join(SSHDir(), "config")
}

// EnsureDirs creates mole's state directories if missing.
func EnsureDirs() error {
	for _, d := range []string{PidDir(), LogDir()} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
