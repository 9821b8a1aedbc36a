// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent colours titles and the focused panel border.
	Accent lipgloss.Color

	// Selection marks objects selected in the matrix.
	Selection lipgloss.Color

	// Highlight marks hovered objects.
	Highlight lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for collapsed panels, hints and disabled fields.
	Muted lipgloss.Color

	// Warning marks a pending evaluation.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the unfocused border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#E06C75"), // ATT&CK red
		Selection:  lipgloss.Color("#98C379"), // Green
		Highlight:  lipgloss.Color("#E5C07B"), // Amber
		Foreground: lipgloss.Color("#DCDFE4"),
		Muted:      lipgloss.Color("#5C6370"),
		Warning:    lipgloss.Color("#D19A66"),
		Error:      lipgloss.Color("#FF5370"),
		Border:     lipgloss.Color("#3E4451"),
		Bar:        lipgloss.Color("#21252B"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the view header.
	Title lipgloss.Style

	// PanelTitle style for an expanded panel header.
	PanelTitle lipgloss.Style

	// PanelCollapsed style for a collapsed panel header.
	PanelCollapsed lipgloss.Style

	// Normal style for result rows.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Cursor style for the row under the cursor.
	Cursor lipgloss.Style

	// Selected style for the selection marker.
	Selected lipgloss.Style

	// Highlighted style for hovered rows.
	Highlighted lipgloss.Style

	// FieldOn and FieldOff render search field toggles.
	FieldOn  lipgloss.Style
	FieldOff lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Warning style for pending state.
	Warning lipgloss.Style

	// InputField style for the query input.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Focused and Blurred wrap panels.
	Focused lipgloss.Style
	Blurred lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		PanelCollapsed: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Selection),

		Highlighted: lipgloss.NewStyle().
			Foreground(theme.Highlight),

		FieldOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Selection),

		FieldOff: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent),

		Blurred: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
