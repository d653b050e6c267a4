// Package cmd - serve command
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"greenquote/api"
	"greenquote/internal/config"
	"greenquote/internal/logging"
	"greenquote/internal/observability"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quoting HTTP API",
	Long: `Start the HTTP API that powers the quote widget.

Examples:
  greenquote serve
  greenquote serve --addr :9000
  greenquote serve --config ./greenquote.json`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	accountSettings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	geocoder, err := loadGeocoder()
	if err != nil {
		return fmt.Errorf("loading place index: %w", err)
	}
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	server, err := api.NewServer(api.Options{
		Version:       "0.1.0",
		Provider:      geocoder,
		Settings:      accountSettings,
		Store:         store,
		Metrics:       metrics,
		EstimateDelay: time.Duration(cfg.Server.EstimateDelayMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	logging.Info("starting greenquote api")
	defer logging.Sync()
	return server.ListenAndServe(addr)
}
