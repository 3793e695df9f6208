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

package cmd

import (
	"fmt"
	"time"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/health"
	"github.com/twbot/mole/internal/launchd"
	"github.com/twbot/mole/internal/picker"
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/sshconfig"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

// mustDiscover parses the SSH config, exiting on a parse failure.
func mustDiscover() []tunnel.Host {
	tunnels, err := sshconfig.DiscoverTunnels()
	if err != nil {
		ui.Errorf("failed to read SSH config: %v", err)
	}
	return tunnels
}

// mustFind returns the named tunnel or exits.
func mustFind(tunnels []tunnel.Host, name string) *tunnel.Host {
	for i := range tunnels {
		if tunnels[i].Name == name {
			return &tunnels[i]
		}
	}
	ui.Errorf("tunnel '%s' not found in SSH config", name)
	return nil
}

// mustGroup returns the tunnels carrying the given group tag or exits.
func mustGroup(tunnels []tunnel.Host, group string) []*tunnel.Host {
	var in []*tunnel.Host
	for i := range tunnels {
		if tunnels[i].Group == group {
			in = append(in, &tunnels[i])
		}
	}
	if len(in) == 0 {
		ui.Errorf("no tunnels found in group '%s'", group)
	}
	return in
}

func filterActive(tunnels []*tunnel.Host, active bool) []*tunnel.Host {
	var out []*tunnel.Host
	for _, t := range tunnels {
		if process.IsActive(t.Name) == active {
			out = append(out, t)
		}
	}
	return out
}

func allTunnels(tunnels []tunnel.Host) []*tunnel.Host {
	out := make([]*tunnel.Host, len(tunnels))
	for i := range tunnels {
		out[i] = &tunnels[i]
	}
	return out
}

// pickTunnel runs the fuzzy picker over the candidates. The second
// return is false when the user cancelled.
func pickTunnel(title string, candidates []*tunnel.Host) (*tunnel.Host, bool) {
	items := make([]picker.Item, len(candidates))
	for i, t := range candidates {
		items[i] = picker.Item{Name: t.Name, Desc: t.FormatForwards()}
	}
	name, ok, err := picker.Pick(title, items)
	if err != nil {
		ui.Errorf("%v", err)
	}
	if !ok {
		return nil, false
	}
	for _, t := range candidates {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// printStartStatus reports a freshly started tunnel, probing its local
// ports for up to the configured health timeout. Remote-only tunnels
// bind nothing locally, so there is nothing to probe.
func printStartStatus(tun *tunnel.Host, pid int, cfg *config.Config) {
	prefix := fmt.Sprintf("%s %s %s (pid %d)",
		ui.Colorize("●", ui.Green),
		ui.Colorize(tun.Name, ui.Green+ui.Bold),
		ui.Colorize("started", ui.Green),
		pid)

	ports := tun.LocalPorts()
	if len(ports) == 0 {
		fmt.Println(prefix)
		return
	}

	timeout := time.Duration(cfg.HealthTimeout) * time.Second
	if health.WaitHealthy(ports, timeout) {
		fmt.Printf("%s — %s healthy\n", prefix, ui.Colorize("✓", ui.Green))
	} else {
		fmt.Printf("%s — %s port not reachable yet\n", prefix, ui.Colorize("✗", ui.Yellow))
	}
}

func printStopped(name string) {
	fmt.Printf("%s %s %s\n",
		ui.Colorize("○", ui.Dim),
		ui.Colorize(name, ui.Bold),
		ui.Colorize("stopped", ui.Dim))
}

func printFailed(name string, err error) {
	fmt.Printf("%s %s — %v\n",
		ui.Colorize("✗", ui.Red),
		ui.Colorize(name, ui.Red+ui.Bold),
		err)
}

// startAndReport starts one tunnel of a batch, printing instead of
// aborting on failure so the rest of the batch still runs.
func startAndReport(tun *tunnel.Host, cfg *config.Config, persist bool) {
	pid, err := process.StartTunnel(tun, cfg.MaxLogSize)
	if err != nil {
		printFailed(tun.Name, err)
		return
	}
	printStartStatus(tun, pid, cfg)
	if persist {
		if err := launchd.Enable(tun); err != nil {
			ui.Warnf("failed to enable auto-start: %v", err)
		}
	}
}
