package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

func TestRelationshipResolver_Related(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)

	tests := []struct {
		name string
		obj  domain.StixObject
		want []string
	}{
		{"group", f.apt28, []string{f.phishing.ID, f.spearphish.ID}},
		{"software", f.mimikatz, []string{f.interpreter.ID}},
		// Relation order does not matter, domain order does.
		{"mitigation", f.training, []string{f.phishing.ID, f.spearphish.ID}},
		{"campaign", f.dreamJob, []string{f.phishing.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Related(tt.obj, testVersion)
			require.NoError(t, err)
			assert.Equal(t, tt.want, techniqueIDs(got))
		})
	}
}

func TestRelationshipResolver_Related_NoRelations(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)
	loner := &domain.Group{Object: domain.Object{ID: "intrusion-set--9", Name: "Loner"}}

	got, err := r.Related(loner, testVersion)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelationshipResolver_Related_OtherVersion(t *testing.T) {
	f := newFixture()
	_ = f.store.Put(&domain.Domain{VersionID: "other", Techniques: f.domain.Techniques})
	r := NewRelationshipResolver(f.store)

	got, err := r.Related(f.apt28, "other")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelationshipResolver_Related_UnsupportedTypes(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)

	for _, obj := range []domain.StixObject{f.phishing, f.netContent} {
		got, err := r.Related(obj, testVersion)
		assert.ErrorIs(t, err, domain.ErrUnsupportedObject)
		assert.Nil(t, got)
	}
}

func TestRelationshipResolver_Related_DomainMissing(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)

	_, err := r.Related(f.apt28, "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelationshipResolver_RelatedTechniques(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)

	for _, key := range []string{"intrusion-set--1", "G0007", "APT28"} {
		t.Run(key, func(t *testing.T) {
			obj, techniques, err := r.RelatedTechniques(context.Background(), testVersion, key)
			require.NoError(t, err)
			assert.Same(t, f.apt28, obj)
			assert.Len(t, techniques, 2)
		})
	}
}

func TestRelationshipResolver_RelatedTechniques_NotFound(t *testing.T) {
	f := newFixture()
	r := NewRelationshipResolver(f.store)

	_, _, err := r.RelatedTechniques(context.Background(), testVersion, "T1566")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
