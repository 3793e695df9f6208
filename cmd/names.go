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

	"github.com/twbot/mole/internal/sshconfig"
)

// listTunnelNamesCmd backs shell completion scripts; it prints one
// tunnel name per line and nothing else.
var listTunnelNamesCmd = &cobra.Command{
	Use:    "list-tunnel-names",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range mustDiscover() {
			fmt.Println(t.Name)
		}
	},
}

// tunnelNameCompletion completes a tunnel name argument.
func tunnelNameCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tunnels, err := sshconfig.DiscoverTunnels()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, len(tunnels))
	for i := range tunnels {
		names[i] = tunnels[i].Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(listTunnelNamesCmd)

	for _, c := range []*cobra.Command{upCmd, downCmd, restartCmd, removeCmd, renameCmd, logsCmd, enableCmd, disableCmd} {
		c.ValidArgsFunction = tunnelNameCompletion
	}
}
