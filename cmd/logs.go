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
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/process"
	"github.com/twbot/mole/internal/ui"
)

var (
	logsLines  int
	logsFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs [name]",
	Short: "Show the autossh log of a tunnel",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tunnels := mustDiscover()

		var name string
		if len(args) == 1 {
			name = mustFind(tunnels, args[0]).Name
		} else {
			if len(tunnels) == 0 {
				fmt.Println(ui.Colorize("No tunnels found.", ui.Yellow))
				return
			}
			t, ok := pickTunnel("Show logs for", allTunnels(tunnels))
			if !ok {
				return
			}
			name = t.Name
		}

		logPath := process.LogFile(name)
		info, err := os.Stat(logPath)
		if err != nil {
			ui.Warnf("No log file for '%s'", name)
			return
		}
		if info.Size() == 0 && !logsFollow {
			ui.Success("Log is empty — no errors from autossh")
			return
		}

		tailArgs := []string{fmt.Sprintf("-n%d", logsLines)}
		if logsFollow {
			tailArgs = append(tailArgs, "-f")
		}
		tailArgs = append(tailArgs, logPath)

		tail := exec.Command("tail", tailArgs...)
		tail.Stdout = os.Stdout
		tail.Stderr = os.Stderr
		if err := tail.Run(); err != nil {
			ui.Errorf("tail failed: %v", err)
		}
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Keep the log open and follow new output")
	rootCmd.AddCommand(logsCmd)
}
