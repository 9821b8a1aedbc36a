// Package input provides the query input component for the TUI.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// QueryInput wraps a bubbles textinput and renders the search field toggles
// beneath it.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	fields    []domain.SearchField
	width     int
}

// NewQueryInput creates a new query input component.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search techniques, groups, software..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the query input.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input line followed by the field toggles.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Search: ")
	input := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	line := lipgloss.JoinHorizontal(lipgloss.Center, label, input)
	if len(q.fields) == 0 {
		return line
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, q.renderFields())
}

func (q *QueryInput) renderFields() string {
	parts := make([]string, 0, len(q.fields)+1)
	parts = append(parts, q.styles.Muted.Render("fields:"))
	for i, f := range q.fields {
		text := fmt.Sprintf("F%d %s", i+1, f.Label)
		if f.Enabled {
			parts = append(parts, q.styles.FieldOn.Render(text))
		} else {
			parts = append(parts, q.styles.FieldOff.Render(text))
		}
	}
	return strings.Join(parts, "  ")
}

// SetFields replaces the field toggles shown under the input.
func (q *QueryInput) SetFields(fields []domain.SearchField) {
	q.fields = fields
}

// Value returns the current input value.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// Account for label and padding
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
