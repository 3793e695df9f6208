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

	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

var (
	downAll   bool
	downGroup string
)

var downCmd = &cobra.Command{
	Use:   "down [name]",
	Short: "Stop a tunnel",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		if downAll {
			active := filterActive(allTunnels(tunnels), true)
			if len(active) == 0 {
				fmt.Println(ui.Colorize("No active tunnels.", ui.Yellow))
				return
			}
			stopEach(active)
			return
		}

		if downGroup != "" {
			active := filterActive(mustGroup(tunnels, downGroup), true)
			if len(active) == 0 {
				fmt.Println(ui.Colorize(
					fmt.Sprintf("No active tunnels in group '%s'.", downGroup), ui.Yellow))
				return
			}
			stopEach(active)
			return
		}

		var name string
		if len(args) == 1 {
			name = mustFind(tunnels, args[0]).Name
		} else {
			active := filterActive(allTunnels(tunnels), true)
			if len(active) == 0 {
				fmt.Println(ui.Colorize("No active tunnels.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Stop tunnel", active)
			if !ok {
				return
			}
			name = t.Name
		}

		if !process.IsActive(name) {
			fmt.Println(ui.Colorize(name+" is not active", ui.Yellow))
			return
		}
		if err := process.StopTunnel(name); err != nil {
			ui.Errorf("%v", err)
		}
		printStopped(name)
	},
}

func stopEach(active []*tunnel.Host) {
	for _, t := range active {
		if err := process.StopTunnel(t.Name); err != nil {
			printFailed(t.Name, err)
			continue
		}
		printStopped(t.Name)
	}
}

func init() {
	downCmd.Flags().BoolVarP(&downAll, "all", "a", false, "Stop every active tunnel")
	downCmd.Flags().StringVarP(&downGroup, "group", "g", "", "Stop every active tunnel in a group")
	rootCmd.AddCommand(downCmd)
}
