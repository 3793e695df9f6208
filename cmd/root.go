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

	"github.com/spf13/cobra"

	"github.com/twbot/mole/internal/config"
	"github.com/twbot/mole/internal/logging"
	"github.com/twbot/mole/internal/ui"
)

// Version is set by ldflags at build time.
var Version = "1.2.0"

var rootCmd = &cobra.Command{
	Use:   "mole",
	Short: "SSH tunnel manager",
	Long:  "Mole – Manage autossh tunnels defined in your SSH config",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			ui.DisableColors()
		}
		if err := logging.InitializeFromEnv(); err != nil {
			ui.Warnf("logging disabled: %v", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		listCmd.Run(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mole version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate("mole version {{.Version}}\n")
	rootCmd.Version = Version
}

// Execute runs the root command.
func Execute() {
	if err := config.EnsureDirs(); err != nil {
		ui.Errorf("failed to create ~/.mole: %v", err)
	}

	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
