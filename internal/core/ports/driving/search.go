package driving

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// SearchService evaluates a single query against a domain version.
// It holds no state between calls.
type SearchService interface {
	// Search filters every collection of the domain version.
	// A nil fields list uses the default fields.
	Search(ctx context.Context, versionID, query string, fields []domain.SearchField) (*domain.Results, error)
}

// QueryController owns the live query of an interactive view, debounces
// updates and keeps the current result sets.
type QueryController interface {
	// SetQuery updates the live query and arms the debounce timer if idle.
	// Returns true when a new evaluation was scheduled.
	SetQuery(query string) bool

	// Query returns the live query text.
	Query() string

	// QueryLength returns the length of the live query.
	QueryLength() int

	// Pending reports whether a debounced evaluation is in flight.
	Pending() bool

	// OnEvaluated registers a callback run after each debounced evaluation.
	OnEvaluated(fn func(domain.SearchPass, error))

	// GetResults evaluates query now and reports which pass ran.
	GetResults(query string, fieldToggled bool) (domain.SearchPass, error)

	// ToggleField flips a search field and re-evaluates the live query.
	ToggleField(field string) error

	// Fields returns a copy of the search field list.
	Fields() []domain.SearchField

	// TogglePanel flips a result panel on behalf of the user.
	TogglePanel(panel domain.Panel)

	// Results returns a snapshot of the current result sets.
	Results() domain.Results

	// Reload discards all query state and rescans the active domain version.
	Reload() error
}
