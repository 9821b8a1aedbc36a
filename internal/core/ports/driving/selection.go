package driving

import (
	"context"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// SelectionService propagates user actions on any object onto the
// per-technique selection state of a view.
type SelectionService interface {
	// Select selects a technique, or every technique a relatable object relates to.
	Select(obj domain.StixObject)

	// Deselect reverses Select.
	Deselect(obj domain.StixObject)

	// SelectAll applies Select to each item.
	SelectAll(items []domain.StixObject)

	// DeselectAll applies Deselect to each item.
	DeselectAll(items []domain.StixObject)

	// MouseEnter highlights a technique, or the related set of a relatable object.
	MouseEnter(obj domain.StixObject)

	// MouseEnterAll highlights each technique.
	MouseEnterAll(techniques []*domain.Technique)

	// MouseLeave clears every highlight.
	MouseLeave()
}

// RelationService answers relationship queries without touching a view.
type RelationService interface {
	// RelatedTechniques resolves a relatable object by STIX ID, ATT&CK ID or
	// name and returns the techniques it relates to.
	RelatedTechniques(ctx context.Context, versionID, key string) (domain.Relatable, []*domain.Technique, error)
}
