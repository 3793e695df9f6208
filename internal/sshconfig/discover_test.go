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
	"testing"

	"github.com/twbot/mole/internal/tunnel"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func parse(t *testing.T, content string) []tunnel.Host {
	t.Helper()
	path := writeConfig(t, content)
	var tunnels []tunnel.Host
	if err := parseFile(path, filepath.Dir(path), &tunnels); err != nil {
		t.Fatal(err)
	}
	return tunnels
}

func TestSplitDirective(t *testing.T) {
	tests := []struct {
		line       string
		key, value string
		ok         bool
	}{
		{"Host my-tunnel", "Host", "my-tunnel", true},
		{"HostName = 10.0.0.1", "HostName", "10.0.0.1", true},
		{"LocalForward\t8080 localhost:80", "LocalForward", "8080 localhost:80", true},
		{"", "", "", false},
		{"   ", "", "", false},
		{"KeyOnly", "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := splitDirective(tt.line)
		if ok != tt.ok || key != tt.key || value != tt.value {
			t.Errorf("splitDirective(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, key, value, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestParseLocalForward(t *testing.T) {
	fwd, ok := ParseLocalForward("16443 localhost:6443")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if fwd.LocalPort != 16443 || fwd.RemoteHost != "localhost" || fwd.RemotePort != 6443 {
		t.Errorf("unexpected forward: %+v", fwd)
	}

	if _, ok := ParseLocalForward("not_a_port localhost:80"); ok {
		t.Error("bad port should not parse")
	}
	if _, ok := ParseLocalForward("8080"); ok {
		t.Error("missing target should not parse")
	}
	if _, ok := ParseLocalForward(""); ok {
		t.Error("empty value should not parse")
	}
}

func TestParseRemoteForward(t *testing.T) {
	fwd, ok := ParseRemoteForward("9090 localhost:3000")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if fwd.BindPort != 9090 || fwd.RemoteHost != "localhost" || fwd.RemotePort != 3000 {
		t.Errorf("unexpected forward: %+v", fwd)
	}
	if _, ok := ParseRemoteForward("9090"); ok {
		t.Error("missing target should not parse")
	}
}

func TestParseDynamicForward(t *testing.T) {
	fwd, ok := ParseDynamicForward("1080")
	if !ok || fwd.ListenPort != 1080 {
		t.Errorf("ParseDynamicForward(1080) = %+v, %v", fwd, ok)
	}
	fwd, ok = ParseDynamicForward("127.0.0.1:1080")
	if !ok || fwd.ListenPort != 1080 {
		t.Errorf("ParseDynamicForward(with bind addr) = %+v, %v", fwd, ok)
	}
	if _, ok := ParseDynamicForward("not_a_port"); ok {
		t.Error("bad port should not parse")
	}
}

func TestParseFile_Basic(t *testing.T) {
	tunnels := parse(t, "Host my-tunnel\n  HostName 10.0.0.1\n  LocalForward 16443 localhost:6443\n")
	if len(tunnels) != 1 {
		t.Fatalf("got %d tunnels, want 1", len(tunnels))
	}
	tun := tunnels[0]
	if tun.Name != "my-tunnel" || tun.Hostname != "10.0.0.1" {
		t.Errorf("unexpected host: %+v", tun)
	}
	if len(tun.Forwards) != 1 || tun.Forwards[0].LocalPort != 16443 {
		t.Errorf("unexpected forwards: %+v", tun.Forwards)
	}
}

func TestParseFile_SkipsWildcardsAndForwardless(t *testing.T) {
	tunnels := parse(t, "Host *\n  ServerAliveInterval 60\n\nHost dev-*\n  User admin\n\nHost plain\n  HostName x\n")
	if len(tunnels) != 0 {
		t.Errorf("got %d tunnels, want 0: %+v", len(tunnels), tunnels)
	}
}

func TestParseFile_Groups(t *testing.T) {
	tunnels := parse(t, `Host tunnel-a
  # mole:group=prod
  HostName a.example.com
  LocalForward 8080 localhost:80

Host tunnel-b
  # mole:group=staging
  HostName b.example.com
  LocalForward 9090 localhost:90

Host tunnel-c
  HostName c.example.com
  LocalForward 7070 localhost:70
`)
	if len(tunnels) != 3 {
		t.Fatalf("got %d tunnels, want 3", len(tunnels))
	}
	wantGroups := []string{"prod", "staging", ""}
	for i, want := range wantGroups {
		if tunnels[i].Group != want {
			t.Errorf("tunnel %d group = %q, want %q", i, tunnels[i].Group, want)
		}
	}
}

func TestParseFile_AllForwardTypes(t *testing.T) {
	tunnels := parse(t, "Host all-types\n  HostName 10.0.0.1\n  LocalForward 8080 localhost:80\n  RemoteForward 9090 localhost:3000\n  DynamicForward 1080\n")
	if len(tunnels) != 1 {
		t.Fatalf("got %d tunnels, want 1", len(tunnels))
	}
	tun := tunnels[0]
	if len(tun.Forwards) != 1 || len(tun.RemoteForwards) != 1 || len(tun.DynamicForwards) != 1 {
		t.Errorf("unexpected forward counts: %+v", tun)
	}
	if tun.DynamicForwards[0].ListenPort != 1080 {
		t.Errorf("dynamic port = %d, want 1080", tun.DynamicForwards[0].ListenPort)
	}
}

func TestParseFile_Include(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "conf.d")
	if err := os.MkdirAll(extra, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(extra, "work"), []byte("Host work-db\n  HostName db.work\n  LocalForward 5432 localhost:5432\n"), 0600); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "config")
	if err := os.WriteFile(main, []byte("Include conf.d/*\n\nHost home\n  HostName home.example\n  LocalForward 8080 localhost:80\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var tunnels []tunnel.Host
	if err := parseFile(main, dir, &tunnels); err != nil {
		t.Fatal(err)
	}
	if len(tunnels) != 2 {
		t.Fatalf("got %d tunnels, want 2: %+v", len(tunnels), tunnels)
	}
	if tunnels[0].Name != "work-db" || tunnels[1].Name != "home" {
		t.Errorf("unexpected tunnel names: %q, %q", tunnels[0].Name, tunnels[1].Name)
	}
}
