// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Missing(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.HealthTimeout != 5 {
		t.Errorf("HealthTimeout = %d, want default 5", cfg.HealthTimeout)
	}
	if cfg.MaxLogSize != 1<<20 {
		t.Errorf("MaxLogSize = %d, want default %d", cfg.MaxLogSize, 1<<20)
	}
}

func TestLoadFrom_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("editor: nano\nhealth_timeout: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadFrom(path)
	if cfg.Editor != "nano" {
		t.Errorf("Editor = %q, want nano", cfg.Editor)
	}
	if cfg.HealthTimeout != 9 {
		t.Errorf("HealthTimeout = %d, want 9", cfg.HealthTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.MaxLogSize != 1<<20 {
		t.Errorf("MaxLogSize = %d, want default", cfg.MaxLogSize)
	}
}

func TestLoadFrom_Broken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadFrom(path)
	if cfg.HealthTimeout != 5 {
		t.Errorf("broken config should fall back to defaults, got %+v", cfg)
	}
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	cfg := &Config{Editor: "hx"}
	if got := cfg.ResolveEditor(); got != "hx" {
		t.Errorf("config editor: got %q, want hx", got)
	}

	cfg = &Config{}
	t.Setenv("VISUAL", "code")
	if got := cfg.ResolveEditor(); got != "code" {
		t.Errorf("$VISUAL: got %q, want code", got)
	}

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "vim")
	if got := cfg.ResolveEditor(); got != "vim" {
		t.Errorf("$EDITOR: got %q, want vim", got)
	}

	t.Setenv("EDITOR", "")
	if got := cfg.ResolveEditor(); got != "vi" {
		t.Errorf("fallback: got %q, want vi", got)
	}
}

func TestSSHConfigPath_Override(t *testing.T) {
	cfg := &Config{SSHConfig: "/tmp/custom_ssh_config"}
	if got := cfg.SSHConfigPath(); got != "/tmp/custom_ssh_config" {
		t.Errorf("SSHConfigPath() = %q, want override", got)
	}
}
