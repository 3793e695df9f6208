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

// Package launchd installs per-tunnel launchd agents so tunnels start
// automatically at login (macOS only).
package launchd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/tunnel"
)

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.Autossh}}</string>
        <string>-N</string>
        <string>{{.Name}}</string>
    </array>
    <key>EnvironmentVariables</key>
    <dict>
        <key>AUTOSSH_PORT</key>
        <string>0</string>
    </dict>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardErrorPath</key>
    <string>{{.Log}}</string>
    <key>StandardOutPath</key>
    <string>/dev/null</string>
</dict>
</plist>`))

func launchAgentsDir() string {
	return filepath.Join(config.HomeDir(), "Library", "LaunchAgents")
}

// PlistPath returns the launchd plist path for a tunnel.
func PlistPath(name string) string {
	return filepath.Join(launchAgentsDir(), fmt.Sprintf("com.mole.%s.plist", name))
}

// IsEnabled reports whether a tunnel has a launchd agent installed.
func IsEnabled(name string) bool {
	_, err := os.Stat(PlistPath(name))
	return err == nil
}

// Enable writes a launchd plist for the tunnel and loads it.
func Enable(tun *tunnel.Host) error {
	autossh, err := whichAutossh()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(launchAgentsDir(), 0755); err != nil {
		return err
	}

	path := PlistPath(tun.Name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	err = plistTemplate.Execute(f, map[string]string{
		"Label":   "com.mole." + tun.Name,
		"Autossh": autossh,
		"Name":    tun.Name,
		"Log":     process.LogFile(tun.Name),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := exec.Command("launchctl", "load", path).Run(); err != nil {
		return fmt.Errorf("failed to run launchctl load: %w", err)
	}
	return nil
}

// Disable unloads and removes a tunnel's launchd agent.
func Disable(name string) error {
	path := PlistPath(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("tunnel '%s' is not enabled for auto-start", name)
	}

	if err := exec.Command("launchctl", "unload", path).Run(); err != nil {
		return fmt.Errorf("failed to run launchctl unload: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func whichAutossh() (string, error) {
	out, err := exec.Command("which", "autossh").Output()
	if err != nil {
		return "", fmt.Errorf("autossh not found in PATH")
	}
	return strings.TrimSpace(string(out)), nil
}
