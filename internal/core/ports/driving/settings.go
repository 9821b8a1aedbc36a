package driving

import (
	"time"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// SetDebounce updates the query debounce delay.
	SetDebounce(d time.Duration) error

	// SetEnabledFields updates the fields enabled at startup.
	SetEnabledFields(fields []string) error

	// SetDefaultDomain updates the domain version used when none is given.
	SetDefaultDomain(versionID string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
