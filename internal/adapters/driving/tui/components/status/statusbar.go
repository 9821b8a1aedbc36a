// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
)

// State represents the current evaluation state for display.
type State string

const (
	StateReady   State = "ready"
	StatePending State = "pending"
	StateError   State = "error"
)

// Bar displays the domain version, result and selection counts, and
// keybinding hints for the current focus.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	domain      string
	resultCount int
	selected    int
	focus       messages.Focus
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if msg, ok := msg.(messages.FocusChanged); ok {
		s.focus = msg.Focus
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string
	if s.domain != "" {
		parts = append(parts, s.styles.Normal.Render(s.domain))
	}

	switch s.state {
	case StatePending:
		parts = append(parts, s.styles.Warning.Render("Searching..."))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message)))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateReady:
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount)))
		if s.message != "" {
			parts = append(parts, s.styles.Muted.Render(s.message))
		}
	}

	parts = append(parts, s.styles.Selected.Render(fmt.Sprintf("%d selected", s.selected)))
	return strings.Join(parts, " | ")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.focus == messages.FocusPanels {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDomain sets the domain version label.
func (s *Bar) SetDomain(versionID string) {
	s.domain = versionID
}

// SetResultCount sets the total result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetSelectedCount sets the number of selected techniques.
func (s *Bar) SetSelectedCount(count int) {
	s.selected = count
}

// SelectedCount returns the number of selected techniques.
func (s *Bar) SelectedCount() int {
	return s.selected
}

// Focus returns the focus the hints are shown for.
func (s *Bar) Focus() messages.Focus {
	return s.focus
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
