package services

import (
	"fmt"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driven"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyLogVerbose     = "log.verbose"
	keyCatalogDataDir = "catalog.data_dir"
	keyCatalogMemory  = "catalog.memory"
	keyCatalogTables  = "catalog.tables_dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &settings, nil
	}

	settings.Log.Verbose = s.getBool(keyLogVerbose, settings.Log.Verbose)
	settings.Catalog.DataDir = s.getString(keyCatalogDataDir, settings.Catalog.DataDir)
	settings.Catalog.Memory = s.getBool(keyCatalogMemory, settings.Catalog.Memory)
	settings.Catalog.TablesDir = s.getString(keyCatalogTables, settings.Catalog.TablesDir)
	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}

	values := []struct {
		key   string
		value any
	}{
		{keyLogVerbose, settings.Log.Verbose},
		{keyCatalogDataDir, settings.Catalog.DataDir},
		{keyCatalogMemory, settings.Catalog.Memory},
		{keyCatalogTables, settings.Catalog.TablesDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("saving %s: %w", v.key, err)
		}
	}
	return nil
}

// ConfigPath returns the configuration file location.
func (s *SettingsService) ConfigPath() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, fallback string) string {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetBool(key)
}
