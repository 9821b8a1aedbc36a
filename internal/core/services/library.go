package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService imports STIX bundles, keeps them in the bundle library and
// loads them into the domain store.
type LibraryService struct {
	decoder driven.BundleDecoder
	bundles driven.BundleStore // optional
	store   driven.DomainStore
	fetcher driven.BundleFetcher // optional
}

// NewLibraryService creates a library service.
// bundles may be nil, in which case only LoadFile is usable.
func NewLibraryService(
	decoder driven.BundleDecoder,
	bundles driven.BundleStore,
	store driven.DomainStore,
) *LibraryService {
	return &LibraryService{
		decoder: decoder,
		bundles: bundles,
		store:   store,
	}
}

// WithFetcher enables Fetch.
func (s *LibraryService) WithFetcher(f driven.BundleFetcher) *LibraryService {
	s.fetcher = f
	return s
}

// Import decodes a bundle file, stores it under versionID and loads it.
// An empty versionID is derived from the file name.
func (s *LibraryService) Import(ctx context.Context, path, versionID string) (*domain.DomainSummary, error) {
	if s.bundles == nil {
		return nil, fmt.Errorf("import: no bundle library: %w", domain.ErrInvalidInput)
	}
	if versionID == "" {
		versionID = VersionIDFromPath(path)
	}

	data, d, err := s.decodeFile(path, versionID)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return s.save(ctx, d, data, absPath)
}

// Fetch downloads a published collection release, stores it and loads it.
// An empty versionID becomes "<collection>" or "<collection>-<release>".
func (s *LibraryService) Fetch(
	ctx context.Context, collection, release, versionID string,
) (*domain.DomainSummary, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("fetch: no bundle source: %w", domain.ErrInvalidInput)
	}
	if s.bundles == nil {
		return nil, fmt.Errorf("fetch: no bundle library: %w", domain.ErrInvalidInput)
	}
	if versionID == "" {
		versionID = collection
		if release != "" {
			versionID += "-" + release
		}
	}

	data, err := s.fetcher.Fetch(ctx, collection, release)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	d, err := s.decoder.Decode(data, versionID)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return s.save(ctx, d, data, s.fetcher.Source(collection, release))
}

// save stores a decoded bundle in the library and loads it.
func (s *LibraryService) save(
	ctx context.Context, d *domain.Domain, data []byte, source string,
) (*domain.DomainSummary, error) {
	versionID := d.VersionID
	record := domain.BundleRecord{
		VersionID:  versionID,
		Name:       d.Name,
		Version:    d.Version,
		SourcePath: source,
		Data:       data,
		ImportedAt: time.Now(),
	}
	if err := s.bundles.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save bundle %s: %w", versionID, err)
	}
	if err := s.store.Put(d); err != nil {
		return nil, fmt.Errorf("load %s: %w", versionID, err)
	}

	summary := record.Summary()
	summary.Techniques = len(d.AllTechniques())
	logger.Info("Imported %s (%d techniques)", versionID, summary.Techniques)
	return &summary, nil
}

// Load decodes a stored bundle into the domain store, replacing any
// snapshot already loaded under the same version.
func (s *LibraryService) Load(ctx context.Context, versionID string) (*domain.Domain, error) {
	if s.bundles == nil {
		return nil, fmt.Errorf("load %s: %w", versionID, domain.ErrNotFound)
	}

	record, err := s.bundles.Get(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", versionID, err)
	}

	d, err := s.decoder.Decode(record.Data, versionID)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", versionID, err)
	}
	if err := s.store.Put(d); err != nil {
		return nil, fmt.Errorf("load %s: %w", versionID, err)
	}
	logger.Debug("Loaded %s from library", versionID)
	return d, nil
}

// LoadFile decodes a bundle file straight into the domain store.
func (s *LibraryService) LoadFile(_ context.Context, path, versionID string) (*domain.Domain, error) {
	if versionID == "" {
		versionID = VersionIDFromPath(path)
	}
	_, d, err := s.decodeFile(path, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(d); err != nil {
		return nil, fmt.Errorf("load %s: %w", versionID, err)
	}
	logger.Debug("Loaded %s from %s", versionID, path)
	return d, nil
}

// List returns the stored bundles. Technique counts are filled in for
// bundles currently loaded.
func (s *LibraryService) List(ctx context.Context) ([]domain.DomainSummary, error) {
	if s.bundles == nil {
		return s.store.List(), nil
	}

	summaries, err := s.bundles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	for i := range summaries {
		if d, err := s.store.Domain(summaries[i].VersionID); err == nil {
			summaries[i].Techniques = len(d.AllTechniques())
		}
	}
	return summaries, nil
}

// Remove deletes a stored bundle and unloads it.
func (s *LibraryService) Remove(ctx context.Context, versionID string) error {
	if s.bundles != nil {
		if err := s.bundles.Delete(ctx, versionID); err != nil {
			return fmt.Errorf("remove %s: %w", versionID, err)
		}
	}
	if err := s.store.Remove(versionID); err != nil {
		return fmt.Errorf("unload %s: %w", versionID, err)
	}
	return nil
}

func (s *LibraryService) decodeFile(path, versionID string) ([]byte, *domain.Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read bundle: %w", err)
	}
	d, err := s.decoder.Decode(data, versionID)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, d, nil
}

// VersionIDFromPath derives a domain version ID from a bundle file name,
// e.g. "enterprise-attack-15.1.json" becomes "enterprise-attack-15.1".
func VersionIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
