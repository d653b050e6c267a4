// Package cmd - settings commands
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"greenquote/adapters/settings"
)

// settingsCmd groups account-settings management
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage account pricing settings",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter settings file with the built-in defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s", path)
		}
		if err := os.WriteFile(path, []byte(settings.Sample), 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a settings file for pricing misconfigurations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := settings.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("OK: %s pricing, %d tier(s), %d add-on(s)\n",
			loaded.Mode(), len(loaded.Tiers), len(loaded.AddOns))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsInitCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
}
