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

	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/launchd"
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

var (
	upAll     bool
	upGroup   string
	upPersist bool
)

var upCmd = &cobra.Command{
	Use:   "up [name]",
	Short: "Start a tunnel",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		tunnels := mustDiscover()

		if upAll {
			inactive := filterActive(allTunnels(tunnels), false)
			if len(inactive) == 0 {
				fmt.Println(ui.Colorize("All tunnels are already active.", ui.Yellow))
				return
			}
			for _, t := range inactive {
				startAndReport(t, cfg, upPersist)
			}
			return
		}

		if upGroup != "" {
			inactive := filterActive(mustGroup(tunnels, upGroup), false)
			if len(inactive) == 0 {
				fmt.Println(ui.Colorize(
					fmt.Sprintf("All tunnels in group '%s' are already active.", upGroup), ui.Yellow))
				return
			}
			for _, t := range inactive {
				startAndReport(t, cfg, upPersist)
			}
			return
		}

		var tun *tunnel.Host
		if len(args) == 1 {
			tun = mustFind(tunnels, args[0])
		} else {
			inactive := filterActive(allTunnels(tunnels), false)
			if len(inactive) == 0 {
				fmt.Println(ui.Colorize("All tunnels are already active.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Start tunnel", inactive)
			if !ok {
				return
			}
			tun = t
		}

		if process.IsActive(tun.Name) {
			fmt.Println(ui.Colorize(tun.Name+" is already active", ui.Yellow))
			return
		}

		pid, err := process.StartTunnel(tun, cfg.MaxLogSize)
		if err != nil {
			ui.Errorf("%v", err)
		}
		printStartStatus(tun, pid, cfg)

		if upPersist {
			if err := launchd.Enable(tun); err != nil {
				ui.Warnf("failed to enable auto-start: %v", err)
			} else {
				fmt.Printf("  %s auto-start enabled\n", ui.Colorize("⏎", ui.Green))
			}
		}
	},
}

func init() {
	upCmd.Flags().BoolVarP(&upAll, "all", "a", false, "Start every inactive tunnel")
	upCmd.Flags().StringVarP(&upGroup, "group", "g", "", "Start every inactive tunnel in a group")
	upCmd.Flags().BoolVarP(&upPersist, "persist", "p", false, "Also enable auto-start via launchd")
	rootCmd.AddCommand(upCmd)
}
