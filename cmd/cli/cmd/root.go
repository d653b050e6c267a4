// Package cmd provides the CLI commands for greenquote.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"greenquote/internal/config"
	"greenquote/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "greenquote",
	Short: "Instant lawn-care quotes from an address",
	Long: `greenquote turns a street address into a priced lawn-care quote.

It resolves the address, estimates the mowable area as one or two
service-area polygons, and prices it through the account's tiered or
flat-rate schedule.

Examples:
  greenquote quote "123 Main St, Dallas, TX"
  greenquote quote --frequency weekly --addon edging "123 Main St, Dallas, TX"
  greenquote serve --addr :8080`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.greenquote.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("greenquote version 0.1.0")
	},
}
