package driven

import "github.com/custodia-labs/stixnav/internal/core/domain"

// ViewModel tracks per-technique selection and highlight state for one
// matrix view. Selection and highlight are independent state channels.
type ViewModel interface {
	// DomainVersionID returns the domain version the view renders.
	DomainVersionID() string

	// SelectTechniqueAcrossTactics selects a technique in every tactic it
	// appears under, or highlights it when opts.HighlightOnly is set.
	SelectTechniqueAcrossTactics(t *domain.Technique, opts domain.SelectOptions)

	// UnselectTechniqueAcrossTactics clears a technique's selection in every tactic.
	UnselectTechniqueAcrossTactics(t *domain.Technique)

	// HighlightTechnique marks a single technique as hovered.
	HighlightTechnique(t *domain.Technique)

	// ClearHighlight removes every highlight.
	ClearHighlight()
}
