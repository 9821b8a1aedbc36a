package mcp

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   *domain.Results
	err       error
	versionID string
	fields    []domain.SearchField
}

func (m *mockSearchService) Search(
	_ context.Context,
	versionID, _ string,
	fields []domain.SearchField,
) (*domain.Results, error) {
	m.versionID = versionID
	m.fields = fields
	if m.err != nil {
		return nil, m.err
	}
	if m.results == nil {
		return &domain.Results{}, nil
	}
	return m.results, nil
}

// mockRelationService is a mock implementation of driving.RelationService.
type mockRelationService struct {
	object     domain.Relatable
	techniques []*domain.Technique
	err        error
}

func (m *mockRelationService) RelatedTechniques(
	_ context.Context,
	_, _ string,
) (domain.Relatable, []*domain.Technique, error) {
	return m.object, m.techniques, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	summaries []domain.DomainSummary
	listErr   error
	loadErr   error
	loads     []string
}

func (m *mockLibraryService) Import(_ context.Context, _, _ string) (*domain.DomainSummary, error) {
	return nil, nil
}

func (m *mockLibraryService) Fetch(_ context.Context, _, _, _ string) (*domain.DomainSummary, error) {
	return nil, nil
}

func (m *mockLibraryService) Load(_ context.Context, versionID string) (*domain.Domain, error) {
	m.loads = append(m.loads, versionID)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &domain.Domain{VersionID: versionID}, nil
}

func (m *mockLibraryService) LoadFile(_ context.Context, _, versionID string) (*domain.Domain, error) {
	return &domain.Domain{VersionID: versionID}, nil
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.DomainSummary, error) {
	return m.summaries, m.listErr
}

func (m *mockLibraryService) Remove(_ context.Context, _ string) error {
	return nil
}
