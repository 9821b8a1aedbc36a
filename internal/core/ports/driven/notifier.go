package driven

// SelectionNotifier receives the selection-changed signal.
// Listeners must tolerate repeated signals for one batch action.
type SelectionNotifier interface {
	// SelectionChanged is called after a select or deselect mutation.
	SelectionChanged()
}
