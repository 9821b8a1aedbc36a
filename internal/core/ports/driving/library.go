package driving

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// LibraryService manages the STIX bundles the engine can search.
type LibraryService interface {
	// Import decodes a bundle file, stores it under versionID and loads it.
	Import(ctx context.Context, path, versionID string) (*domain.DomainSummary, error)

	// Fetch downloads a published collection release, stores it under
	// versionID and loads it. An empty release fetches the latest one.
	Fetch(ctx context.Context, collection, release, versionID string) (*domain.DomainSummary, error)

	// Load makes a stored bundle available in the domain store.
	Load(ctx context.Context, versionID string) (*domain.Domain, error)

	// LoadFile decodes a bundle file straight into the domain store without storing it.
	LoadFile(ctx context.Context, path, versionID string) (*domain.Domain, error)

	// List returns the stored bundles.
	List(ctx context.Context) ([]domain.DomainSummary, error)

	// Remove deletes a stored bundle and unloads it.
	Remove(ctx context.Context, versionID string) error
}
