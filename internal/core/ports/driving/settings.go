package driving

import "github.com/custodia-labs/yieldgrab/internal/core/domain"

// SettingsService manages user configuration.
type SettingsService interface {
	// Get returns the current settings, falling back to defaults for
	// anything not set.
	Get() (*domain.AppSettings, error)

	// Save persists the settings.
	Save(settings *domain.AppSettings) error

	// ConfigPath returns the configuration file location.
	ConfigPath() string
}
