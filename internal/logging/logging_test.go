package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigInitializes(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize with defaults: %v", err)
	}
	if Logger == nil || Sugar == nil {
		t.Fatal("global loggers not set")
	}
}

func TestInitializeFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greenquote.log")
	if err := Initialize(Config{Level: "debug", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize with file output: %v", err)
	}
	Info("wrote to file")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}

	// Restore the default logger for other tests in the binary.
	InitializeDefault()
}

func TestInitializeBadLevelFallsBack(t *testing.T) {
	if err := Initialize(Config{Level: "shouting", Format: "console", Output: "stderr"}); err != nil {
		t.Fatalf("unparsable level must fall back, got %v", err)
	}
	InitializeDefault()
}
