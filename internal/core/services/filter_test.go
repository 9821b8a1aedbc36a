package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

func onlyFields(names ...string) []domain.SearchField {
	fields := domain.DefaultSearchFields()
	for i := range fields {
		fields[i].Enabled = false
		for _, n := range names {
			if fields[i].Field == n {
				fields[i].Enabled = true
			}
		}
	}
	return fields
}

func group(id, name string) *domain.Group {
	return &domain.Group{Object: domain.Object{ID: id, Name: name}}
}

func TestFilterAndSort_EmptyQuerySortsByLowerCasedName(t *testing.T) {
	items := []*domain.Group{group("1", "beta"), group("2", "Alpha"), group("3", "gamma")}

	got := FilterAndSort(items, "", domain.DefaultSearchFields())

	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, objectNames(got))
}

func TestFilterAndSort_WhitespaceQueryIsEmpty(t *testing.T) {
	items := []*domain.Group{group("1", "b"), group("2", "a")}

	got := FilterAndSort(items, "   ", domain.DefaultSearchFields())

	assert.Equal(t, []string{"a", "b"}, objectNames(got))
}

func TestFilterAndSort_DropsDeprecatedAndRevoked(t *testing.T) {
	f := newFixture()
	all := f.domain.AllTechniques()

	for _, query := range []string{"", "phishing"} {
		got := FilterAndSortTechniques(all, query, domain.DefaultSearchFields())
		assert.NotContains(t, techniqueIDs(got), f.deprecated.ID, "query %q", query)
		assert.NotContains(t, techniqueIDs(got), f.revoked.ID, "query %q", query)
	}
}

func TestFilterAndSort_NameScenario(t *testing.T) {
	items := []*domain.Technique{
		{Object: domain.Object{ID: "1", Name: "Phish"}},
		{Object: domain.Object{ID: "2", Name: "Spear"}},
	}

	got := FilterAndSortTechniques(items, "ph", onlyFields(domain.FieldName))

	assert.Equal(t, []string{"1"}, techniqueIDs(got))
}

func TestFilterAndSort_QueryKeepsInputOrder(t *testing.T) {
	items := []*domain.Group{group("1", "zeta phish"), group("2", "alpha phish"), group("3", "other")}

	got := FilterAndSort(items, "PHISH", domain.DefaultSearchFields())

	assert.Equal(t, []string{"zeta phish", "alpha phish"}, objectNames(got))
}

func TestFilterAndSort_QueryIsTrimmedAndCaseInsensitive(t *testing.T) {
	items := []*domain.Group{group("1", "APT28")}

	got := FilterAndSort(items, "  apt ", domain.DefaultSearchFields())

	assert.Len(t, got, 1)
}

func TestFilterAndSort_DeduplicatesByID(t *testing.T) {
	f := newFixture()
	// The same technique listed under two tactics.
	items := []*domain.Technique{f.phishing, f.interpreter, f.phishing}

	got := FilterAndSortTechniques(items, "adversaries", domain.DefaultSearchFields())

	assert.Equal(t, []string{f.phishing.ID, f.interpreter.ID}, techniqueIDs(got))
}

func TestFilterAndSort_EmptyQueryDoesNotDeduplicate(t *testing.T) {
	f := newFixture()
	items := []*domain.Technique{f.phishing, f.phishing}

	got := FilterAndSortTechniques(items, "", domain.DefaultSearchFields())

	assert.Len(t, got, 2)
}

func TestFilterAndSort_FieldSelection(t *testing.T) {
	f := newFixture()
	items := f.domain.AllTechniques()

	tests := []struct {
		name   string
		query  string
		fields []domain.SearchField
		want   []string
	}{
		{"attack id enabled", "T1566", onlyFields(domain.FieldAttackID), []string{f.phishing.ID, f.spearphish.ID}},
		{"attack id disabled", "T1566", onlyFields(domain.FieldName, domain.FieldDescription), []string{}},
		{"description", "interpreters", onlyFields(domain.FieldDescription), []string{f.interpreter.ID}},
		{"data sources", "network traffic", onlyFields(domain.FieldDataSources), []string{f.phishing.ID}},
		{"no fields enabled", "phishing", onlyFields(), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndSortTechniques(items, tt.query, tt.fields)
			assert.Equal(t, tt.want, techniqueIDs(got))
		})
	}
}

func TestFilterAndSort_AbsentFieldIsNonMatch(t *testing.T) {
	f := newFixture()
	// Groups carry no data sources.
	got := FilterAndSort([]*domain.Group{f.apt28}, "network", onlyFields(domain.FieldDataSources))

	assert.Empty(t, got)
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	items := []*domain.Group{group("1", "b"), group("2", "a")}

	_ = FilterAndSort(items, "", domain.DefaultSearchFields())
	_ = FilterAndSort(items, "a", domain.DefaultSearchFields())

	assert.Equal(t, []string{"b", "a"}, objectNames(items))
}

func TestFilterAndSortTechniques_EmptyQueryOrdersByHierarchy(t *testing.T) {
	f := newFixture()
	items := []*domain.Technique{f.spearphish, f.interpreter, f.phishing}

	got := FilterAndSortTechniques(items, "", domain.DefaultSearchFields())

	// The sub-technique sorts under "Phishing" and keeps its input position
	// relative to its parent.
	assert.Equal(t, []string{f.interpreter.ID, f.spearphish.ID, f.phishing.ID}, techniqueIDs(got))
}

func TestFilterAndSortTechniques_IncludesSubtechniques(t *testing.T) {
	f := newFixture()

	got := FilterAndSortTechniques(f.domain.AllTechniques(), "attachment", domain.DefaultSearchFields())

	require.Len(t, got, 1)
	assert.Same(t, f.spearphish, got[0])
}

func TestFilterAndSortLabels(t *testing.T) {
	labels := []string{"Process: Process Creation", "Network Traffic: Network Traffic Content", "Command: Command Execution"}

	t.Run("empty query sorts", func(t *testing.T) {
		got := FilterAndSortLabels(labels, " ")
		assert.Equal(t, []string{
			"Command: Command Execution",
			"Network Traffic: Network Traffic Content",
			"Process: Process Creation",
		}, got)
	})

	t.Run("query keeps input order", func(t *testing.T) {
		got := FilterAndSortLabels(labels, "C")
		assert.Equal(t, labels, got)
	})

	t.Run("query filters case-insensitively", func(t *testing.T) {
		got := FilterAndSortLabels(labels, " NETWORK ")
		assert.Equal(t, []string{"Network Traffic: Network Traffic Content"}, got)
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = FilterAndSortLabels(labels, "")
		assert.Equal(t, "Process: Process Creation", labels[0])
	})
}

func TestFilterAndSort_Idempotent(t *testing.T) {
	f := newFixture()
	fields := domain.DefaultSearchFields()

	for _, query := range []string{"ph", "a", "T15", "network", " x ", "  PHISH  "} {
		t.Run(query, func(t *testing.T) {
			techniques := FilterAndSortTechniques(f.domain.AllTechniques(), query, fields)
			again := FilterAndSortTechniques(techniques, query, fields)
			assert.Equal(t, techniqueIDs(techniques), techniqueIDs(again))

			objects := FilterAndSort(f.domain.Relatables(), query, fields)
			objectsAgain := FilterAndSort(objects, query, fields)
			assert.Equal(t, objectNames(objects), objectNames(objectsAgain))
		})
	}
}
