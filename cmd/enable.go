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

	"github.com/twbot/mole/internal/launchd"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

var enableGroup string

var enableCmd = &cobra.Command{
	Use:   "enable [name]",
	Short: "Enable auto-start at login via launchd",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		if enableGroup != "" {
			var disabled []*tunnel.Host
			for _, t := range mustGroup(tunnels, enableGroup) {
				if !launchd.IsEnabled(t.Name) {
					disabled = append(disabled, t)
				}
			}
			if len(disabled) == 0 {
				fmt.Println(ui.Colorize(
					fmt.Sprintf("All tunnels in group '%s' are already enabled.", enableGroup), ui.Yellow))
				return
			}
			for _, t := range disabled {
				if err := launchd.Enable(t); err != nil {
					printFailed(t.Name, err)
					continue
				}
				printEnabled(t.Name)
			}
			return
		}

		var tun *tunnel.Host
		if len(args) == 1 {
			tun = mustFind(tunnels, args[0])
		} else {
			var disabled []*tunnel.Host
			for _, t := range allTunnels(tunnels) {
				if !launchd.IsEnabled(t.Name) {
					disabled = append(disabled, t)
				}
			}
			if len(disabled) == 0 {
				fmt.Println(ui.Colorize("All tunnels are already enabled.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Enable auto-start for", disabled)
			if !ok {
				return
			}
			tun = t
		}

		if launchd.IsEnabled(tun.Name) {
			fmt.Println(ui.Colorize(tun.Name+" is already enabled", ui.Yellow))
			return
		}
		if err := launchd.Enable(tun); err != nil {
			ui.Errorf("%v", err)
		}
		printEnabled(tun.Name)
	},
}

func printEnabled(name string) {
	fmt.Printf("%s %s auto-start %s\n",
		ui.Colorize("⏎", ui.Green),
		ui.Colorize(name, ui.Green+ui.Bold),
		ui.Colorize("enabled", ui.Green))
}

func init() {
	enableCmd.Flags().StringVarP(&enableGroup, "group", "g", "", "Enable every tunnel in a group")
	rootCmd.AddCommand(enableCmd)
}
