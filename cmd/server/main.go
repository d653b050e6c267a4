// Package main - standalone entry point for the quoting API server
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"greenquote/adapters/mapping"
	"greenquote/adapters/settings"
	"greenquote/adapters/storage"
	"greenquote/api"
	"greenquote/core/quote"
	"greenquote/internal/config"
	"greenquote/internal/logging"
	"greenquote/internal/observability"
)

const version = "0.1.0"

func main() {
	addr := flag.String("addr", "", "listen address (overrides config)")
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	accountSettings := quote.DefaultSettings()
	if cfg.Settings.Path != "" {
		loaded, err := settings.Load(cfg.Settings.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}
		accountSettings = loaded
	}

	records := mapping.SamplePlaces()
	if cfg.Mapping.PlaceIndexPath != "" {
		loaded, err := mapping.LoadRecords(cfg.Mapping.PlaceIndexPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading place index: %v\n", err)
			os.Exit(1)
		}
		records = loaded
	}

	store, err := storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering metrics: %v\n", err)
		os.Exit(1)
	}

	server, err := api.NewServer(api.Options{
		Version:       version,
		Provider:      mapping.NewGeocoder(records),
		Settings:      accountSettings,
		Store:         store,
		Metrics:       metrics,
		EstimateDelay: time.Duration(cfg.Server.EstimateDelayMs) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	fmt.Printf("greenquote API v%s listening on %s\n", version, listenAddr)
	if err := server.ListenAndServe(listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}
