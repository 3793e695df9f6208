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
	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/ui"
	"github.com/twbot/mole/internal/wizard"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tunnel with the interactive wizard",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := wizard.Run(); err != nil {
			ui.Errorf("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
