package cmd

import (
	"greenquote/adapters/mapping"
	"greenquote/adapters/settings"
	"greenquote/adapters/storage"
	"greenquote/core/quote"
	"greenquote/internal/config"
)

// loadSettings returns the account settings from the configured HCL file,
// or the built-in defaults when none is configured.
func loadSettings() (quote.AccountSettings, error) {
	path := config.Get().Settings.Path
	if path == "" {
		return quote.DefaultSettings(), nil
	}
	return settings.Load(path)
}

// loadGeocoder builds the place index from the configured seed file, or
// the built-in sample places when none is configured.
func loadGeocoder() (*mapping.Geocoder, error) {
	path := config.Get().Mapping.PlaceIndexPath
	if path == "" {
		return mapping.NewGeocoder(mapping.SamplePlaces()), nil
	}
	records, err := mapping.LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return mapping.NewGeocoder(records), nil
}

// openStore opens the configured quote store.
func openStore() (storage.Store, error) {
	cfg := config.Get()
	return storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Directory)
}
