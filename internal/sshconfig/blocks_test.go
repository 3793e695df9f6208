// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sshconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupHome points HOME at a temp dir with the given ~/.ssh/config.
func setupHome(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(sshDir, "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

const threeBlocks = `Host a
  HostName a.com
  LocalForward 80 localhost:80

Host b
  HostName b.com
  LocalForward 90 localhost:90

Host c
  HostName c.com
  LocalForward 100 localhost:100
`

func TestFindHostRange(t *testing.T) {
	path := setupHome(t, threeBlocks)

	tests := []struct {
		name       string
		start, end int
		found      bool
	}{
		{"a", 0, 4, true},
		{"b", 4, 8, true},
		{"c", 8, 12, true},
		{"missing", 0, 0, false},
	}
	for _, tt := range tests {
		start, end, found, err := findHostRange(path, tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if found != tt.found || start != tt.start || (found && end != tt.end) {
			t.Errorf("findHostRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.name, start, end, found, tt.start, tt.end, tt.found)
		}
	}
}

func TestReadHostBlock(t *testing.T) {
	setupHome(t, threeBlocks)

	_, block, found, err := ReadHostBlock("b")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("block b not found")
	}
	if !strings.Contains(block, "HostName b.com") {
		t.Errorf("block missing HostName: %q", block)
	}
	if strings.Contains(block, "a.com") || strings.Contains(block, "c.com") {
		t.Errorf("block bleeds into neighbors: %q", block)
	}
}

func TestRemoveHostBlock(t *testing.T) {
	path := setupHome(t, threeBlocks)

	file, err := RemoveHostBlock("b")
	if err != nil {
		t.Fatal(err)
	}
	if file != path {
		t.Errorf("removed from %q, want %q", file, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "b.com") {
		t.Errorf("block b still present:\n%s", content)
	}
	if !strings.Contains(content, "a.com") || !strings.Contains(content, "c.com") {
		t.Errorf("neighbor blocks damaged:\n%s", content)
	}
	if !strings.HasSuffix(content, "\n") {
		t.Error("file should end with a newline")
	}
}

func TestRemoveHostBlock_NotFound(t *testing.T) {
	setupHome(t, threeBlocks)
	if _, err := RemoveHostBlock("missing"); err == nil {
		t.Error("expected error for missing block")
	}
}

func TestRenameHostBlock(t *testing.T) {
	path := setupHome(t, threeBlocks)

	if _, err := RenameHostBlock("b", "beta"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "Host beta\n") {
		t.Errorf("renamed Host line missing:\n%s", content)
	}
	if strings.Contains(content, "Host b\n") {
		t.Errorf("old Host line still present:\n%s", content)
	}
	// The block body is untouched.
	if !strings.Contains(content, "HostName b.com") {
		t.Errorf("block body damaged:\n%s", content)
	}
}

func TestGatherChoicesFrom(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(sshDir, "config")
	content := `Host bastion
  HostName bastion.example.com
  User ops

Host db
  HostName db.internal
  User admin
  IdentityFile ~/.ssh/id_db
  ProxyJump bastion
  LocalForward 5432 db.private:5432
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	// A keypair: private + public means the private key is offered.
	if err := os.WriteFile(filepath.Join(sshDir, "id_ed25519"), []byte("key"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sshDir, "id_ed25519.pub"), []byte("pub"), 0644); err != nil {
		t.Fatal(err)
	}

	c := GatherChoicesFrom(sshDir, configPath)

	if len(c.Hosts) != 2 {
		t.Fatalf("got %d hosts, want 2: %+v", len(c.Hosts), c.Hosts)
	}
	if c.Hosts[0].Alias != "bastion" || c.Hosts[1].Hostname != "db.internal" {
		t.Errorf("unexpected hosts: %+v", c.Hosts)
	}
	if len(c.Users) != 2 || c.Users[0] != "admin" || c.Users[1] != "ops" {
		t.Errorf("unexpected users: %+v", c.Users)
	}
	found := false
	for _, id := range c.IdentityFiles {
		if id == "~/.ssh/id_ed25519" {
			found = true
		}
	}
	if !found {
		t.Errorf("keypair not offered as identity: %+v", c.IdentityFiles)
	}
	if len(c.ProxyJumps) != 1 || c.ProxyJumps[0] != "bastion" {
		t.Errorf("unexpected proxy jumps: %+v", c.ProxyJumps)
	}
	if len(c.RemoteHosts) != 1 || c.RemoteHosts[0] != "db.private" {
		t.Errorf("unexpected remote hosts: %+v", c.RemoteHosts)
	}
}
