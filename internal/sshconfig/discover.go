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

// Package sshconfig reads and edits ~/.ssh/config: it discovers tunnel
// hosts (hosts with forward directives), manipulates Host blocks in
// place, and collects choice lists for the add wizard.
package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/tunnel"
)

// GroupTag marks a tunnel's group inside its Host block.
const GroupTag = "# mole:group="

// DiscoverTunnels parses the SSH config (and Included files) and returns
// every host that has at least one forward directive.
func DiscoverTunnels() ([]tunnel.Host, error) {
	return DiscoverTunnelsFrom(config.Load().SSHConfigPath())
}

// DiscoverTunnelsFrom parses a specific SSH config file.
func DiscoverTunnelsFrom(path string) ([]tunnel.Host, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s not found — set ssh_config in ~/.mole/config.yaml if you use a custom path", path)
	}
	var tunnels []tunnel.Host
	if err := parseFile(path, filepath.Dir(path), &tunnels); err != nil {
		return nil, err
	}
	return tunnels, nil
}

// hostAccum collects directives for the Host block being parsed.
type hostAccum struct {
	name            string
	hostname        string
	group           string
	forwards        []tunnel.PortForward
	remoteForwards  []tunnel.RemotePortForward
	dynamicForwards []tunnel.DynamicForward
}

// flush appends the accumulated host if it has any forwards, then resets.
func (a *hostAccum) flush(tunnels *[]tunnel.Host) {
	if a.name != "" &&
		(len(a.forwards) > 0 || len(a.remoteForwards) > 0 || len(a.dynamicForwards) > 0) {
		*tunnels = append(*tunnels, tunnel.Host{
			Name:            a.name,
			Hostname:        a.hostname,
			Forwards:        a.forwards,
			RemoteForwards:  a.remoteForwards,
			DynamicForwards: a.dynamicForwards,
			Group:           a.group,
		})
	}
	*a = hostAccum{}
}

func parseFile(path, sshDir string, tunnels *[]tunnel.Host) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cur hostAccum
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if cur.name != "" {
				if g, ok := strings.CutPrefix(line, GroupTag); ok {
					if g = strings.TrimSpace(g); g != "" {
						cur.group = g
					}
				}
			}
			continue
		}

		key, value, ok := splitDirective(line)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "include":
			cur.flush(tunnels)
			if err := processInclude(value, sshDir, tunnels); err != nil {
				return err
			}
		case "host":
			cur.flush(tunnels)
			name := firstField(value)
			if name != "" && !strings.ContainsAny(name, "*?") {
				cur.name = name
			}
		case "hostname":
			if cur.name != "" {
				cur.hostname = value
			}
		case "localforward":
			if cur.name != "" {
				if fwd, ok := ParseLocalForward(value); ok {
					cur.forwards = append(cur.forwards, fwd)
				}
			}
		case "remoteforward":
			if cur.name != "" {
				if fwd, ok := ParseRemoteForward(value); ok {
					cur.remoteForwards = append(cur.remoteForwards, fwd)
				}
			}
		case "dynamicforward":
			if cur.name != "" {
				if fwd, ok := ParseDynamicForward(value); ok {
					cur.dynamicForwards = append(cur.dynamicForwards, fwd)
				}
			}
		}
	}
	cur.flush(tunnels)
	return nil
}

// processInclude expands an Include pattern and parses every match.
func processInclude(pattern, sshDir string, tunnels *[]tunnel.Host) error {
	for _, path := range expandInclude(pattern, sshDir) {
		if err := parseFile(path, sshDir, tunnels); err != nil {
			return err
		}
	}
	return nil
}

// expandInclude resolves an Include pattern (absolute, ~-relative, or
// relative to the ssh dir) to the list of matching files.
func expandInclude(pattern, sshDir string) []string {
	switch {
	case strings.HasPrefix(pattern, "~/"):
		pattern = filepath.Join(config.HomeDir(), pattern[2:])
	case !filepath.IsAbs(pattern):
		pattern = filepath.Join(sshDir, pattern)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files
}

// splitDirective splits an SSH config line on whitespace or '='.
func splitDirective(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if eq := strings.Index(line, "="); eq >= 0 {
		k := strings.TrimSpace(line[:eq])
		v := strings.TrimSpace(line[eq+1:])
		if k != "" && v != "" {
			return k, v, true
		}
	}
	ws := strings.IndexAny(line, " \t")
	if ws < 0 {
		return "", "", false
	}
	v := strings.TrimSpace(line[ws+1:])
	if v == "" {
		return "", "", false
	}
	return line[:ws], v, true
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseLocalForward parses "16443 localhost:6443" style values.
func ParseLocalForward(value string) (tunnel.PortForward, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return tunnel.PortForward{}, false
	}
	localPort, err := strconv.Atoi(parts[0])
	if err != nil {
		return tunnel.PortForward{}, false
	}
	host, port, ok := splitHostPort(parts[1])
	if !ok {
		return tunnel.PortForward{}, false
	}
	return tunnel.PortForward{LocalPort: localPort, RemoteHost: host, RemotePort: port}, true
}

// ParseRemoteForward parses "9090 localhost:3000" style values.
func ParseRemoteForward(value string) (tunnel.RemotePortForward, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return tunnel.RemotePortForward{}, false
	}
	bindPort, err := strconv.Atoi(parts[0])
	if err != nil {
		return tunnel.RemotePortForward{}, false
	}
	host, port, ok := splitHostPort(parts[1])
	if !ok {
		return tunnel.RemotePortForward{}, false
	}
	return tunnel.RemotePortForward{BindPort: bindPort, RemoteHost: host, RemotePort: port}, true
}

// ParseDynamicForward parses "1080" or "127.0.0.1:1080" style values.
func ParseDynamicForward(value string) (tunnel.DynamicForward, bool) {
	value = strings.TrimSpace(value)
	if colon := strings.LastIndex(value, ":"); colon >= 0 {
		value = value[colon+1:]
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return tunnel.DynamicForward{}, false
	}
	return tunnel.DynamicForward{ListenPort: port}, true
}

// splitHostPort splits "host:port" on the last colon.
func splitHostPort(s string) (string, int, bool) {
	colon := strings.LastIndex(s, ":")
	if colon < 0 {
		return "", 0, false
	}
	port, err := strconv.Atoi(s[colon+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:colon], port, true
}
