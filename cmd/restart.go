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
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

var (
	restartAll   bool
	restartGroup string
)

var restartCmd = &cobra.Command{
	Use:   "restart [name]",
	Short: "Restart a tunnel",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		tunnels := mustDiscover()

		if restartAll {
			active := filterActive(allTunnels(tunnels), true)
			if len(active) == 0 {
				fmt.Println(ui.Colorize("No active tunnels to restart.", ui.Yellow))
				return
			}
			for _, t := range active {
				if err := restartTunnel(t, cfg); err != nil {
					printFailed(t.Name, err)
				}
			}
			return
		}

		if restartGroup != "" {
			for _, t := range mustGroup(tunnels, restartGroup) {
				if err := restartTunnel(t, cfg); err != nil {
					printFailed(t.Name, err)
				}
			}
			return
		}

		var tun *tunnel.Host
		if len(args) == 1 {
			tun = mustFind(tunnels, args[0])
		} else {
			active := filterActive(allTunnels(tunnels), true)
			if len(active) == 0 {
				fmt.Println(ui.Colorize("No active tunnels to restart.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Restart tunnel", active)
			if !ok {
				return
			}
			tun = t
		}

		if err := restartTunnel(tun, cfg); err != nil {
			ui.Errorf("%v", err)
		}
	},
}

func restartTunnel(tun *tunnel.Host, cfg *config.Config) error {
	if process.IsActive(tun.Name) {
		if err := process.StopTunnel(tun.Name); err != nil {
			return err
		}
		printStopped(tun.Name)
	}
	pid, err := process.StartTunnel(tun, cfg.MaxLogSize)
	if err != nil {
		return err
	}
	printStartStatus(tun, pid, cfg)
	return nil
}

func init() {
	restartCmd.Flags().BoolVarP(&restartAll, "all", "a", false, "Restart every active tunnel")
	restartCmd.Flags().StringVarP(&restartGroup, "group", "g", "", "Restart every tunnel in a group")
	rootCmd.AddCommand(restartCmd)
}
