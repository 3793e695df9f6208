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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/launchd"
	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/sshconfig"
	"github.com/twbot/mole/internal/tunnel"
	"github.com/twbot/mole/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove a tunnel from the SSH config",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		var tun *tunnel.Host
		if len(args) == 1 {
			tun = mustFind(tunnels, args[0])
		} else {
			if len(tunnels) == 0 {
				fmt.Println(ui.Colorize("No tunnels found.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Remove tunnel", allTunnels(tunnels))
			if !ok {
				return
			}
			tun = t
		}

		if _, block, found, err := sshconfig.ReadHostBlock(tun.Name); err == nil && found {
			fmt.Println(ui.Colorize("Will remove from SSH config:", ui.Dim))
			for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
				fmt.Println(ui.Colorize("  "+line, ui.Dim))
			}
			fmt.Println()
		}

		fmt.Printf("Remove %s? [y/N]: ", tun.Name)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return
		}

		if process.IsActive(tun.Name) {
			if err := process.StopTunnel(tun.Name); err != nil {
				ui.Errorf("%v", err)
			}
			printStopped(tun.Name)
		}

		if launchd.IsEnabled(tun.Name) {
			if err := launchd.Disable(tun.Name); err != nil {
				ui.Errorf("%v", err)
			}
			fmt.Printf("%s auto-start %s\n",
				ui.Colorize("○", ui.Dim), ui.Colorize("disabled", ui.Dim))
		}

		path, err := sshconfig.RemoveHostBlock(tun.Name)
		if err != nil {
			ui.Errorf("%v", err)
		}
		process.CleanupFiles(tun.Name)

		ui.Successf("%s removed from %s", ui.Colorize(tun.Name, ui.Green+ui.Bold), path)
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
