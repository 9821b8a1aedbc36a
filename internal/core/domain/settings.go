package domain

import "time"

// DefaultDebounce is the delay between the last keystroke and query evaluation.
const DefaultDebounce = 300 * time.Millisecond

// AppSettings holds all user-configurable application settings.
type AppSettings struct {
	Search  SearchSettings
	Library LibrarySettings
}

// SearchSettings configures query evaluation.
type SearchSettings struct {
	// Debounce delays evaluation after a query change.
	Debounce time.Duration

	// EnabledFields lists the field names enabled at startup.
	EnabledFields []string
}

// LibrarySettings configures the bundle library.
type LibrarySettings struct {
	// DefaultDomain is the domain version used when none is given.
	DefaultDomain string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	fields := DefaultSearchFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return AppSettings{
		Search: SearchSettings{
			Debounce:      DefaultDebounce,
			EnabledFields: names,
		},
	}
}

// Fields returns the default field list with only the configured fields enabled.
// A nil EnabledFields list enables every field.
func (s SearchSettings) Fields() []SearchField {
	fields := DefaultSearchFields()
	if s.EnabledFields == nil {
		return fields
	}
	for i := range fields {
		fields[i].Enabled = containsString(s.EnabledFields, fields[i].Field)
	}
	return fields
}
