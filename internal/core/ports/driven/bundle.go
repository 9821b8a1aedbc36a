package driven

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// BundleDecoder turns a raw STIX bundle into a domain snapshot.
type BundleDecoder interface {
	// Decode parses bundle JSON and builds the snapshot for versionID.
	// Returns an error wrapping domain.ErrInvalidBundle if data is not a bundle.
	Decode(data []byte, versionID string) (*domain.Domain, error)
}

// BundleStore persists imported bundles.
// Backed by SQLite; it stores source data only, never search state.
type BundleStore interface {
	// Save stores or replaces a bundle.
	Save(ctx context.Context, record domain.BundleRecord) error

	// Get retrieves a bundle by domain version ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, versionID string) (*domain.BundleRecord, error)

	// List returns summaries of every stored bundle.
	List(ctx context.Context) ([]domain.DomainSummary, error)

	// Delete removes a bundle.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, versionID string) error
}

// BundleFetcher downloads published ATT&CK bundles.
type BundleFetcher interface {
	// Fetch downloads the bundle of a collection such as "enterprise-attack".
	// An empty release fetches the latest one.
	// Returns domain.ErrNotFound if the collection or release does not exist.
	Fetch(ctx context.Context, collection, release string) ([]byte, error)

	// Source describes where a collection release is fetched from.
	Source(collection, release string) string
}
