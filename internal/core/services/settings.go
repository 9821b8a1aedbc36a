package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySearchDebounce = "search.debounce_ms"
	keySearchFields   = "search.fields"
	keyDefaultDomain  = "library.default_domain"
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
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &settings, nil
	}

	if ms := s.configStore.GetInt(keySearchDebounce); ms > 0 {
		settings.Search.Debounce = time.Duration(ms) * time.Millisecond
	}
	if _, exists := s.configStore.Get(keySearchFields); exists {
		settings.Search.EnabledFields = s.knownFields(s.configStore.GetStringSlice(keySearchFields))
	}
	settings.Library.DefaultDomain = s.configStore.GetString(keyDefaultDomain)

	return &settings, nil
}

// SetDebounce updates the query debounce delay.
func (s *SettingsService) SetDebounce(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("debounce %s: %w", d, domain.ErrInvalidInput)
	}
	if err := s.set(keySearchDebounce, int(d/time.Millisecond)); err != nil {
		return fmt.Errorf("save debounce: %w", err)
	}
	return nil
}

// SetEnabledFields updates the fields enabled at startup.
// Every name must be a known search field.
func (s *SettingsService) SetEnabledFields(fields []string) error {
	for _, name := range fields {
		if !isSearchField(name) {
			return fmt.Errorf("field %q: %w", name, domain.ErrUnknownField)
		}
	}
	if err := s.set(keySearchFields, slices.Clone(fields)); err != nil {
		return fmt.Errorf("save search fields: %w", err)
	}
	return nil
}

// SetDefaultDomain updates the domain version used when none is given.
// An empty version clears the setting.
func (s *SettingsService) SetDefaultDomain(versionID string) error {
	if versionID == "" {
		if s.configStore == nil {
			return nil
		}
		return s.configStore.Delete(keyDefaultDomain)
	}
	if err := s.set(keyDefaultDomain, versionID); err != nil {
		return fmt.Errorf("save default domain: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) set(key string, value any) error {
	if s.configStore == nil {
		return fmt.Errorf("no config store: %w", domain.ErrInvalidInput)
	}
	return s.configStore.Set(key, value)
}

// knownFields drops unrecognised names so a stale config cannot disable search.
func (s *SettingsService) knownFields(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if isSearchField(name) {
			out = append(out, name)
		}
	}
	return out
}

func isSearchField(name string) bool {
	return slices.ContainsFunc(domain.DefaultSearchFields(), func(f domain.SearchField) bool {
		return f.Field == name
	})
}
