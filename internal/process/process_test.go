// Mole - SSH Tunnel Manager
// Copyright (C) 2026 twbot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseEtime(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"05:30", 330, true},
		{"02:14:05", 2*3600 + 14*60 + 5, true},
		{"3-01:00:00", 3*86400 + 3600, true},
		{"  10:00  ", 600, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseEtime(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseEtime(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	now := time.Now().Unix()
	tests := []struct {
		start int64
		want  string
	}{
		{now - 120, "2m"},
		{now - 30, "1m"},
		{now - 7200, "2h 0m"},
		{now - 90000, "1d 1h"},
	}
	for _, tt := range tests {
		if got := FormatUptime(tt.start); got != tt.want {
			t.Errorf("FormatUptime(now-%d) = %q, want %q", now-tt.start, got, tt.want)
		}
	}
}

func TestPidFileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := writePidFile("db", 12345, 1700000000); err != nil {
		t.Fatal(err)
	}
	pid, start, ok := readPidFile("db")
	if !ok || pid != 12345 || start != 1700000000 {
		t.Errorf("readPidFile = (%d, %d, %v), want (12345, 1700000000, true)", pid, start, ok)
	}
}

func TestReadPidFile_OldFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := os.MkdirAll(filepath.Dir(PidFile("db")), 0755); err != nil {
		t.Fatal(err)
	}
	// Older releases wrote the PID only.
	if err := os.WriteFile(PidFile("db"), []byte("4242\n"), 0644); err != nil {
		t.Fatal(err)
	}
	pid, start, ok := readPidFile("db")
	if !ok || pid != 4242 || start != 0 {
		t.Errorf("readPidFile = (%d, %d, %v), want (4242, 0, true)", pid, start, ok)
	}
}

func TestReadPidFile_Corrupt(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := os.MkdirAll(filepath.Dir(PidFile("db")), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(PidFile("db"), []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := readPidFile("db"); ok {
		t.Error("corrupt PID file should not parse")
	}
	if _, err := os.Stat(PidFile("db")); !os.IsNotExist(err) {
		t.Error("corrupt PID file should be removed")
	}
}

func TestRotateLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.log")
	if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}

	rotateLog(path, 1000)
	if _, err := os.Stat(path); err != nil {
		t.Error("small log should not rotate")
	}

	rotateLog(path, 10)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("oversized log should be renamed away")
	}
	if _, err := os.Stat(path + ".old"); err != nil {
		t.Error("rotated log missing .old file")
	}
}

func TestRenameFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := writePidFile("old", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(LogFile("old"), []byte("log"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RenameFiles("old", "new"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := readPidFile("new"); !ok {
		t.Error("PID file not renamed")
	}
	if _, err := os.Stat(LogFile("new")); err != nil {
		t.Error("log file not renamed")
	}
	if _, err := os.Stat(PidFile("old")); !os.IsNotExist(err) {
		t.Error("old PID file still present")
	}
}

func TestCleanupFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := writePidFile("db", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(LogFile("db"), []byte("log"), 0644); err != nil {
		t.Fatal(err)
	}

	CleanupFiles("db")
	if _, err := os.Stat(PidFile("db")); !os.IsNotExist(err) {
		t.Error("PID file still present")
	}
	if _, err := os.Stat(LogFile("db")); !os.IsNotExist(err) {
		t.Error("log file still present")
	}
}
