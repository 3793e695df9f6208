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
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the SSH config in your editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		openInEditor(cfg.ResolveEditor(), cfg.SSHConfigPath())
	},
}

func openInEditor(editor, path string) {
	ed := exec.Command(editor, path)
	ed.Stdin = os.Stdin
	ed.Stdout = os.Stdout
	ed.Stderr = os.Stderr
	if err := ed.Run(); err != nil {
		ui.Errorf("failed to launch editor '%s': %v", editor, err)
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
}
