// Package viewmodel provides an in-memory matrix view model that tracks
// per-technique selection and highlight state across tactic columns.
package viewmodel

import (
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure ViewModel implements the interface.
var _ driven.ViewModel = (*ViewModel)(nil)

// untactic keys a technique that appears under no tactic.
const untactic = ""

// ViewModel is the selection state of one matrix view.
// Selection is tracked per technique and tactic column; highlight is a
// separate channel cleared independently.
type ViewModel struct {
	mu          sync.RWMutex
	id          string
	versionID   string
	selected    map[string]map[string]struct{}
	highlighted map[string]struct{}
}

// New creates a view model for a domain version.
func New(versionID string) *ViewModel {
	return &ViewModel{
		id:          uuid.New().String(),
		versionID:   versionID,
		selected:    make(map[string]map[string]struct{}),
		highlighted: make(map[string]struct{}),
	}
}

// ID returns the view session identifier.
func (v *ViewModel) ID() string {
	return v.id
}

// DomainVersionID returns the domain version the view renders.
func (v *ViewModel) DomainVersionID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.versionID
}

// SetDomainVersion switches the view to another domain version and drops
// all selection and highlight state.
func (v *ViewModel) SetDomainVersion(versionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.versionID = versionID
	v.selected = make(map[string]map[string]struct{})
	v.highlighted = make(map[string]struct{})
}

// SelectTechniqueAcrossTactics selects t under every tactic it appears in.
// WalkChildren extends the change to sub-techniques; HighlightOnly marks
// them highlighted and leaves selection untouched.
func (v *ViewModel) SelectTechniqueAcrossTactics(t *domain.Technique, opts domain.SelectOptions) {
	if t == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, tech := range expand(t, opts.WalkChildren) {
		if opts.HighlightOnly {
			v.highlighted[tech.ID] = struct{}{}
			continue
		}
		tactics, ok := v.selected[tech.ID]
		if !ok {
			tactics = make(map[string]struct{})
			v.selected[tech.ID] = tactics
		}
		for _, tactic := range tacticsOf(tech) {
			tactics[tactic] = struct{}{}
		}
	}
}

// UnselectTechniqueAcrossTactics clears t's selection in every tactic.
func (v *ViewModel) UnselectTechniqueAcrossTactics(t *domain.Technique) {
	if t == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.selected, t.ID)
}

// HighlightTechnique marks t as hovered.
func (v *ViewModel) HighlightTechnique(t *domain.Technique) {
	if t == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlighted[t.ID] = struct{}{}
}

// ClearHighlight removes every highlight.
func (v *ViewModel) ClearHighlight() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.highlighted)
}

// IsSelected reports whether t is selected in any tactic.
func (v *ViewModel) IsSelected(t *domain.Technique) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.selected[t.ID]) > 0
}

// IsSelectedIn reports whether t is selected under a tactic column.
func (v *ViewModel) IsSelectedIn(t *domain.Technique, tactic string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.selected[t.ID][tactic]
	return ok
}

// IsHighlighted reports whether t is highlighted.
func (v *ViewModel) IsHighlighted(t *domain.Technique) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.highlighted[t.ID]
	return ok
}

// Selected returns the selected technique IDs in sorted order.
func (v *ViewModel) Selected() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.selected))
	for id, tactics := range v.selected {
		if len(tactics) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// SelectedCount returns the number of selected techniques.
func (v *ViewModel) SelectedCount() int {
	return len(v.Selected())
}

// HighlightedCount returns the number of highlighted techniques.
func (v *ViewModel) HighlightedCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.highlighted)
}

func expand(t *domain.Technique, walkChildren bool) []*domain.Technique {
	if !walkChildren || len(t.Subtechniques) == 0 {
		return []*domain.Technique{t}
	}
	return append([]*domain.Technique{t}, t.Subtechniques...)
}

func tacticsOf(t *domain.Technique) []string {
	if len(t.Tactics) == 0 {
		return []string{untactic}
	}
	return slices.Clone(t.Tactics)
}
