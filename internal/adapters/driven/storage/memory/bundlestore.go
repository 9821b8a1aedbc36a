package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure BundleStore implements the interface.
var _ driven.BundleStore = (*BundleStore)(nil)

// BundleStore is an in-memory driven.BundleStore for testing.
type BundleStore struct {
	mu      sync.RWMutex
	records map[string]domain.BundleRecord
}

// NewBundleStore creates an empty bundle store.
func NewBundleStore() *BundleStore {
	return &BundleStore{records: make(map[string]domain.BundleRecord)}
}

// Save stores or replaces a bundle.
func (s *BundleStore) Save(_ context.Context, record domain.BundleRecord) error {
	if record.VersionID == "" {
		return fmt.Errorf("save bundle: missing version id: %w", domain.ErrInvalidInput)
	}
	record.Data = slices.Clone(record.Data)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.VersionID] = record
	return nil
}

// Get retrieves a bundle by domain version ID.
func (s *BundleStore) Get(_ context.Context, versionID string) (*domain.BundleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[versionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record.Data = slices.Clone(record.Data)
	return &record, nil
}

// List returns summaries of every stored bundle, ordered by version ID.
func (s *BundleStore) List(_ context.Context) ([]domain.DomainSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]domain.DomainSummary, 0, len(s.records))
	for _, record := range s.records {
		summaries = append(summaries, record.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].VersionID < summaries[j].VersionID
	})
	return summaries, nil
}

// Delete removes a bundle. Returns domain.ErrNotFound if it does not exist.
func (s *BundleStore) Delete(_ context.Context, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[versionID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, versionID)
	return nil
}
