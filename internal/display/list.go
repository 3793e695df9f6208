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

// Package display renders the tunnel status list.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/twbot/mole/internal/health"
	"github.com/twbot/mole/internal/launchd"
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

type row struct {
	name    string
	group   string
	active  bool
	status  string
	healthy int // -1 unknown, 0 bad, 1 good
	pid     int
	fwdStr  string
	enabled bool
}

// PrintTunnelList prints the colored, aligned status list for all
// tunnels.
func PrintTunnelList(tunnels []tunnel.Host) {
	if len(tunnels) == 0 {
		fmt.Println(ui.Colorize("No tunnels found in ~/.ssh/config", ui.Yellow))
		fmt.Println("Add a Host block with LocalForward, RemoteForward, or DynamicForward to get started.")
		return
	}

	rows := make([]row, 0, len(tunnels))
	for i := range tunnels {
		tun := &tunnels[i]
		r := row{
			name:    tun.Name,
			group:   tun.Group,
			fwdStr:  tun.FormatForwards(),
			enabled: launchd.IsEnabled(tun.Name),
			healthy: -1,
			status:  "inactive",
		}
		if pid, ok := process.ReadPid(tun.Name); ok {
			r.active = true
			r.pid = pid
			uptime := ""
			if start, ok := process.StartTime(tun.Name); ok {
				uptime = process.FormatUptime(start)
			}
			r.status = strings.TrimSpace("up " + uptime)
			// Remote-only tunnels have nothing to probe locally.
			if ports := tun.LocalPorts(); len(ports) > 0 {
				r.healthy = 1
				for _, p := range ports {
					if !health.CheckPort(p) {
						r.healthy = 0
						break
					}
				}
			}
		}
		rows = append(rows, r)
	}

	wName, wStatus := 0, 0
	for _, r := range rows {
		n := len(r.name)
		if r.group != "" {
			n += len(r.group) + 3 // " [g]"
		}
		if n > wName {
			wName = n
		}
		if len(r.status) > wStatus {
			wStatus = len(r.status)
		}
	}

	for _, r := range rows {
		bullet := ui.Colorize("○", ui.Dim)
		if r.active {
			bullet = ui.Colorize("●", ui.Green)
		}

		name := r.name
		if r.active {
			name = ui.Colorize(r.name, ui.Green+ui.Bold)
		}
		if r.group != "" {
			name += ui.Colorize(" ["+r.group+"]", ui.Dim)
		}

		status := ui.Colorize(r.status, ui.Dim)
		if r.active {
			status = ui.Colorize(r.status, ui.Green)
		}

		var healthMark string
		switch r.healthy {
		case 1:
			healthMark = ui.Colorize("✓", ui.Green)
		case 0:
			healthMark = ui.Colorize("✗", ui.Red)
		default:
			healthMark = " "
		}

		suffix := ""
		if r.pid > 0 {
			suffix += "  " + ui.Colorize(fmt.Sprintf("pid %d", r.pid), ui.Dim)
		}
		if r.enabled {
			icon := ui.Colorize("⏎", ui.Dim)
			if r.active {
				icon = ui.Colorize("⏎", ui.Green)
			}
			suffix += "  " + icon
		}

		fmt.Printf("  %s %s  %s  %s  %s%s\n",
			bullet, pad(name, wName), pad(status, wStatus), healthMark,
			ui.Colorize(r.fwdStr, ui.Dim), suffix)
	}
}

// pad right-pads a possibly colored string to a visible width.
func pad(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
