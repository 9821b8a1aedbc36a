// Package tui provides an interactive terminal user interface for stixnav.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
)

// Ports aggregates everything the TUI needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query owns the live query and the result sets.
	Query driving.QueryController

	// Selection propagates select and hover actions onto the view model.
	Selection driving.SelectionService

	// Ticker drives the debounce from the Bubbletea loop. It must be the
	// scheduler Query was built with.
	Ticker search.Ticker

	// Marker exposes selection state for rendering. Optional.
	Marker search.Marker

	// DomainVersion labels the status bar and window title.
	DomainVersion string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Query == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingQueryController)
	}
	if p.Selection == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingSelectionService)
	}
	return nil
}
