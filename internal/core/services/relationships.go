package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
)

// Ensure RelationshipResolver implements the interface.
var _ driving.RelationService = (*RelationshipResolver)(nil)

// RelationshipResolver maps groups, software, mitigations and campaigns to
// the techniques they relate to.
type RelationshipResolver struct {
	store driven.DomainStore
}

// NewRelationshipResolver creates a resolver over a domain store.
func NewRelationshipResolver(store driven.DomainStore) *RelationshipResolver {
	return &RelationshipResolver{store: store}
}

// Related returns the techniques and sub-techniques of the domain version
// whose IDs the object relates to, in domain order (techniques first).
//
// Techniques and data components do not relate to techniques; passing one
// returns domain.ErrUnsupportedObject and no techniques.
func (r *RelationshipResolver) Related(obj domain.StixObject, versionID string) ([]*domain.Technique, error) {
	rel, ok := obj.(domain.Relatable)
	if !ok {
		return nil, fmt.Errorf("resolve %T: %w", obj, domain.ErrUnsupportedObject)
	}

	d, err := r.store.Domain(versionID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rel.Base().ID, err)
	}

	ids := rel.RelatedTechniques(versionID)
	if len(ids) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var related []*domain.Technique
	for _, t := range d.AllTechniques() {
		if _, ok := wanted[t.ID]; ok {
			related = append(related, t)
		}
	}
	return related, nil
}

// RelatedTechniques looks up a relatable object by STIX ID, ATT&CK ID or
// name and resolves its techniques.
func (r *RelationshipResolver) RelatedTechniques(
	_ context.Context, versionID, key string,
) (domain.Relatable, []*domain.Technique, error) {
	d, err := r.store.Domain(versionID)
	if err != nil {
		return nil, nil, fmt.Errorf("domain %s: %w", versionID, err)
	}

	obj, ok := d.FindRelatable(key)
	if !ok {
		return nil, nil, fmt.Errorf("object %q: %w", key, domain.ErrNotFound)
	}

	techniques, err := r.Related(obj, versionID)
	if err != nil {
		return nil, nil, err
	}
	return obj, techniques, nil
}
