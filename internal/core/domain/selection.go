package domain

// SelectOptions modifies a cross-tactic technique selection.
type SelectOptions struct {
	// WalkChildren also applies the change to the technique's sub-techniques.
	WalkChildren bool

	// HighlightOnly marks the technique as highlighted instead of selected.
	HighlightOnly bool
}
