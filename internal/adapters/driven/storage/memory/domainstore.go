package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure DomainStore implements the interface.
var _ driven.DomainStore = (*DomainStore)(nil)

// DomainStore holds decoded domain snapshots keyed by version ID.
// Snapshots are shared, not copied; callers treat them as read-only.
type DomainStore struct {
	mu      sync.RWMutex
	domains map[string]*domain.Domain
}

// NewDomainStore creates an empty domain store.
func NewDomainStore() *DomainStore {
	return &DomainStore{domains: make(map[string]*domain.Domain)}
}

// Domain returns the snapshot for a domain version.
func (s *DomainStore) Domain(versionID string) (*domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[versionID]
	if !ok {
		return nil, fmt.Errorf("domain %q: %w", versionID, domain.ErrNotFound)
	}
	return d, nil
}

// Put stores or replaces a snapshot under its VersionID.
func (s *DomainStore) Put(d *domain.Domain) error {
	if d == nil || d.VersionID == "" {
		return fmt.Errorf("put domain: missing version id: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains[d.VersionID] = d
	return nil
}

// Remove discards a snapshot.
func (s *DomainStore) Remove(versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.domains, versionID)
	return nil
}

// List returns summaries of every loaded snapshot, ordered by version ID.
func (s *DomainStore) List() []domain.DomainSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.DomainSummary, 0, len(s.domains))
	for _, d := range s.domains {
		summaries = append(summaries, domain.DomainSummary{
			VersionID:  d.VersionID,
			Name:       d.Name,
			Version:    d.Version,
			Techniques: len(d.AllTechniques()),
			ImportedAt: d.LoadedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].VersionID < summaries[j].VersionID
	})
	return summaries
}
