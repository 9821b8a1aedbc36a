package services

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// collationTag is the locale used for name ordering.
var collationTag = language.English

// FilterAndSort returns the active (not deprecated, not revoked) items.
//
// An empty or whitespace-only query sorts them by lower-cased name. Otherwise
// items are kept, in input order, when any enabled field contains the query
// case-insensitively; an ID is kept at most once. The input is never modified.
func FilterAndSort[T domain.StixObject](items []T, query string, fields []domain.SearchField) []T {
	return filterAndSort(items, query, fields, func(c *collate.Collator, a, b T) int {
		return c.CompareString(strings.ToLower(a.Base().Name), strings.ToLower(b.Base().Name))
	})
}

// FilterAndSortTechniques is FilterAndSort for technique collections, except
// that an empty query orders by hierarchy: a sub-technique sorts under its
// parent's name, and names compare case-sensitively.
func FilterAndSortTechniques(items []*domain.Technique, query string, fields []domain.SearchField) []*domain.Technique {
	return filterAndSort(items, query, fields, func(c *collate.Collator, a, b *domain.Technique) int {
		return c.CompareString(a.DisplayName(), b.DisplayName())
	})
}

// FilterAndSortLabels sorts labels when the query is empty, otherwise keeps
// the labels containing the query case-insensitively, in input order.
func FilterAndSortLabels(labels []string, query string) []string {
	needle := normaliseQuery(query)
	if needle == "" {
		out := slices.Clone(labels)
		slices.Sort(out)
		return out
	}

	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.Contains(strings.ToLower(label), needle) {
			out = append(out, label)
		}
	}
	return out
}

func filterAndSort[T domain.StixObject](
	items []T, query string, fields []domain.SearchField, cmp func(*collate.Collator, T, T) int,
) []T {
	results := make([]T, 0, len(items))
	for _, item := range items {
		if item.Base().Active() {
			results = append(results, item)
		}
	}

	needle := normaliseQuery(query)
	if needle == "" {
		c := collate.New(collationTag)
		slices.SortStableFunc(results, func(a, b T) int {
			return cmp(c, a, b)
		})
		return results
	}

	// The same technique appears once per tactic in merged lists.
	seen := make(map[string]struct{}, len(results))
	filtered := results[:0]
	for _, item := range results {
		id := item.Base().ID
		if _, dup := seen[id]; dup {
			continue
		}
		if matchesQuery(item, needle, fields) {
			seen[id] = struct{}{}
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// matchesQuery checks enabled fields in list order. A field the item does
// not carry is a non-match.
func matchesQuery(item domain.StixObject, needle string, fields []domain.SearchField) bool {
	for _, f := range fields {
		if !f.Enabled {
			continue
		}
		value, ok := item.FieldValue(f.Field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func normaliseQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
