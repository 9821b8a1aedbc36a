// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// DebounceElapsed is sent when the debounce delay after a query edit is over.
type DebounceElapsed struct{}

// ResultsEvaluated carries the outcome of a query evaluation.
type ResultsEvaluated struct {
	Pass domain.SearchPass
	Err  error
}

// SelectionChanged is sent after a select or deselect mutation.
type SelectionChanged struct{}

// DomainReloaded is sent when the active domain version was replaced,
// for example by the bundle watcher.
type DomainReloaded struct {
	Err error
}

// FocusChanged is sent when focus moves between the query input and the panels.
type FocusChanged struct {
	Focus Focus
}

// Focus identifies which part of the search view receives keys.
type Focus int

const (
	// FocusInput routes keys to the query input.
	FocusInput Focus = iota
	// FocusPanels routes keys to the focused result panel.
	FocusPanels
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusPanels:
		return "panels"
	default:
		return "unknown"
	}
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is a command to exit the application.
type Quit struct{}
