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

package sshconfig

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/twbot/mole/internal/config"
)

// HostEntry pairs an SSH host alias with its HostName.
type HostEntry struct {
	Alias    string
	Hostname string
}

// Choices holds everything the add wizard can offer as pre-filled
// options, scraped from the user's SSH config and key files.
type Choices struct {
	Hosts         []HostEntry
	Users         []string
	IdentityFiles []string
	ProxyJumps    []string
	RemoteHosts   []string
}

// GatherChoices scans ~/.ssh for wizard choice lists. Missing or
// unreadable files simply yield empty lists; the wizard still works with
// manual entry only.
func GatherChoices() Choices {
	return GatherChoicesFrom(config.SSHDir(), config.Load().SSHConfigPath())
}

// GatherChoicesFrom scans a specific ssh dir and config file.
func GatherChoicesFrom(sshDir, configPath string) Choices {
	var c Choices
	users := map[string]bool{}
	identities := map[string]bool{}
	proxyJumps := map[string]bool{}
	remoteHosts := map[string]bool{}

	if data, err := os.ReadFile(configPath); err == nil {
		var curAlias, curHostname string
		flush := func() {
			if curAlias != "" && curHostname != "" {
				c.Hosts = append(c.Hosts, HostEntry{Alias: curAlias, Hostname: curHostname})
			}
			curAlias, curHostname = "", ""
		}
		for _, raw := range strings.Split(string(data), "\n") {
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := splitDirective(line)
			if !ok {
				continue
			}
			switch strings.ToLower(key) {
			case "host":
				flush()
				name := firstField(value)
				if name != "" && !strings.ContainsAny(name, "*?") {
					curAlias = name
				}
			case "hostname":
				if curAlias != "" {
					curHostname = value
				}
			case "user":
				users[value] = true
			case "identityfile":
				identities[value] = true
			case "proxyjump":
				proxyJumps[value] = true
			case "localforward":
				// Forward targets other than localhost are plausible
				// targets for new tunnels too.
				if fwd, ok := ParseLocalForward(value); ok && fwd.RemoteHost != "localhost" {
					remoteHosts[fwd.RemoteHost] = true
				}
			}
		}
		flush()
	}

	// Private keys that have a matching .pub are offered as identities.
	if entries, err := os.ReadDir(sshDir); err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.Type().IsRegular() && strings.HasSuffix(name, ".pub") {
				priv := strings.TrimSuffix(name, ".pub")
				if info, err := os.Stat(filepath.Join(sshDir, priv)); err == nil && info.Mode().IsRegular() {
					identities["~/.ssh/"+priv] = true
				}
			}
		}
	}

	c.Users = sortedKeys(users)
	c.IdentityFiles = sortedKeys(identities)
	c.ProxyJumps = sortedKeys(proxyJumps)
	c.RemoteHosts = sortedKeys(remoteHosts)
	return c
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
