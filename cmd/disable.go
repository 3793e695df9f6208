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

var disableGroup string

var disableCmd = &cobra.Command{
	Use:   "disable [name]",
	Short: "Disable auto-start at login",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		if disableGroup != "" {
			var enabled []*tunnel.Host
			for _, t := range mustGroup(tunnels, disableGroup) {
				if launchd.IsEnabled(t.Name) {
					enabled = append(enabled, t)
				}
			}
			if len(enabled) == 0 {
				fmt.Println(ui.Colorize(
					fmt.Sprintf("No tunnels in group '%s' are enabled for auto-start.", disableGroup), ui.Yellow))
				return
			}
			for _, t := range enabled {
				if err := launchd.Disable(t.Name); err != nil {
					printFailed(t.Name, err)
					continue
				}
				printDisabled(t.Name)
			}
			return
		}

		var name string
		if len(args) == 1 {
			name = mustFind(tunnels, args[0]).Name
		} else {
			var enabled []*tunnel.Host
			for _, t := range allTunnels(tunnels) {
				if launchd.IsEnabled(t.Name) {
					enabled = append(enabled, t)
				}
			}
			if len(enabled) == 0 {
				fmt.Println(ui.Colorize("No tunnels are enabled for auto-start.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Disable auto-start for", enabled)
			if !ok {
				return
			}
			name = t.Name
		}

		if !launchd.IsEnabled(name) {
			fmt.Println(ui.Colorize(name+" is not enabled", ui.Yellow))
			return
		}
		if err := launchd.Disable(name); err != nil {
			ui.Errorf("%v", err)
		}
		printDisabled(name)
	},
}

func printDisabled(name string) {
	fmt.Printf("%s %s auto-start %s\n",
		ui.Colorize("○", ui.Dim),
		ui.Colorize(name, ui.Bold),
		ui.Colorize("disabled", ui.Dim))
}

func init() {
	disableCmd.Flags().StringVarP(&disableGroup, "group", "g", "", "Disable every tunnel in a group")
	rootCmd.AddCommand(disableCmd)
}
