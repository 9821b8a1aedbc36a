package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoQueryController indicates that no query controller was provided.
	ErrNoQueryController = errors.New("query controller is required")

	// ErrNoSelectionService indicates that no selection service was provided.
	ErrNoSelectionService = errors.New("selection service is required")
)
