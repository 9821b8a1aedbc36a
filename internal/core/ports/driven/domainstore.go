package driven

import "github.com/custodia-labs/stixnav/internal/core/domain"

// DomainStore owns the object graph of every loaded domain version.
// The search engine treats it as read-mostly.
type DomainStore interface {
	// Domain returns the snapshot for a domain version.
	// Returns domain.ErrNotFound if the version is not loaded.
	Domain(versionID string) (*domain.Domain, error)

	// Put stores or replaces a snapshot under its VersionID.
	Put(d *domain.Domain) error

	// Remove discards a snapshot. Removing an unknown version is not an error.
	Remove(versionID string) error

	// List returns summaries of every loaded snapshot, ordered by version ID.
	List() []domain.DomainSummary
}
