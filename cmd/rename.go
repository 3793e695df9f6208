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
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/sshconfig"
	"github.com/twbot/mole/internal/ui"
)

var renameCmd = &cobra.Command{
	Use:   "rename [old] <new>",
	Short: "Rename a tunnel",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		var oldName, newName string
		if len(args) == 2 {
			oldName = mustFind(tunnels, args[0]).Name
			newName = args[1]
		} else {
			newName = args[0]
			if len(tunnels) == 0 {
				fmt.Println(ui.Colorize("No tunnels found.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Rename tunnel", allTunnels(tunnels))
			if !ok {
				return
			}
			oldName = t.Name
		}

		for i := range tunnels {
			if tunnels[i].Name == newName {
				ui.Errorf("tunnel '%s' already exists", newName)
			}
		}

		if process.IsActive(oldName) {
			if err := process.StopTunnel(oldName); err != nil {
				ui.Errorf("%v", err)
			}
			printStopped(oldName)
		}

		wasEnabled := launchd.IsEnabled(oldName)
		if wasEnabled {
			if err := launchd.Disable(oldName); err != nil {
				ui.Errorf("%v", err)
			}
		}

		if _, err := sshconfig.RenameHostBlock(oldName, newName); err != nil {
			ui.Errorf("%v", err)
		}
		if err := process.RenameFiles(oldName, newName); err != nil {
			ui.Errorf("%v", err)
		}

		if wasEnabled {
			renamed := mustFind(mustDiscover(), newName)
			if err := launchd.Enable(renamed); err != nil {
				ui.Warnf("failed to re-enable auto-start: %v", err)
			}
		}

		ui.Successf("renamed %s -> %s",
			ui.Colorize(oldName, ui.Green+ui.Bold),
			ui.Colorize(newName, ui.Green+ui.Bold))
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
