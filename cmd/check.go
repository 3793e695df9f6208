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

	"github.com/twbot/mole/internal/health"
	"github.com/twbot/mole/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the forwarded ports of every active tunnel",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()
		active := filterActive(allTunnels(tunnels), true)
		if len(active) == 0 {
			fmt.Println(ui.Colorize("No active tunnels to check.", ui.Yellow))
			return
		}

		totalPorts, healthyPorts := 0, 0
		for _, t := range active {
			allOK := true
			fmt.Printf("  %s %s",
				ui.Colorize("●", ui.Green),
				ui.Colorize(fmt.Sprintf("%-20s", t.Name), ui.Green+ui.Bold))

			probe := func(port int, label string) {
				totalPorts++
				icon := ui.Colorize("✗", ui.Red)
				if health.CheckPort(port) {
					healthyPorts++
					icon = ui.Colorize("✓", ui.Green)
				} else {
					allOK = false
				}
				fmt.Printf("  %s %s%d", icon, label, port)
			}
			for _, fwd := range t.Forwards {
				probe(fwd.LocalPort, ":")
			}
			for _, fwd := range t.DynamicForwards {
				probe(fwd.ListenPort, "D:")
			}
			// Remote binds live on the far end; nothing to probe here.
			for _, fwd := range t.RemoteForwards {
				fmt.Printf("  %s R:%d", ui.Colorize("—", ui.Dim), fwd.BindPort)
			}
			fmt.Println()

			if !allOK {
				fmt.Println(ui.Colorize("    ↳ some ports not reachable", ui.Yellow))
			}
		}

		fmt.Println()
		if healthyPorts == totalPorts {
			fmt.Printf("  %s All %d port(s) healthy across %d tunnel(s)\n",
				ui.Colorize("✓", ui.Green), totalPorts, len(active))
		} else {
			fmt.Printf("  %s %d/%d port(s) healthy across %d tunnel(s)\n",
				ui.Colorize("✗", ui.Yellow), healthyPorts, totalPorts, len(active))
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
