package mcp

import (
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Relations resolves related techniques. Optional.
	Relations driving.RelationService

	// Library lists and loads stored bundles. Optional: without it only
	// domains already in the domain store are served.
	Library driving.LibraryService

	// DefaultDomain is used when a tool call names no domain.
	DefaultDomain string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
