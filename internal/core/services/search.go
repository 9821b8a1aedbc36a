package services

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs one-shot searches for the CLI and MCP surfaces.
// Each call evaluates a fresh controller with a full rescan, so calls never
// share query state.
type SearchService struct {
	store driven.DomainStore
}

// NewSearchService creates a search service over a domain store.
func NewSearchService(store driven.DomainStore) *SearchService {
	return &SearchService{store: store}
}

// Search filters every collection of a domain version.
func (s *SearchService) Search(
	ctx context.Context, versionID, query string, fields []domain.SearchField,
) (*domain.Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Section("Search Execution")
	logger.Debug("Domain: %s, query: %q", versionID, query)

	controller := NewQueryController(s.store, StaticVersion(versionID), nil).WithFields(fields)
	if _, err := controller.GetResults(query, true); err != nil {
		return nil, err
	}

	results := controller.Results()
	logger.Debug("Found %d techniques, %d data components", len(results.Techniques), len(results.DataComponentLabels))
	return &results, nil
}
