// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
//
// The view has two focus modes. While the query input is focused every
// printable key edits the query; panel keys apply only in results mode.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Results moves focus from the query input to the panels.
	Results key.Binding

	// Input moves focus back to the query input.
	Input key.Binding

	// Up and Down move the cursor within the focused panel.
	Up   key.Binding
	Down key.Binding

	// NextPanel and PrevPanel cycle focus between expanded panels.
	NextPanel key.Binding
	PrevPanel key.Binding

	// Fields toggles search fields by position.
	Fields []key.Binding

	// Panels toggles result panels by position.
	Panels []key.Binding

	// Select selects the object under the cursor.
	Select key.Binding

	// Deselect deselects the object under the cursor.
	Deselect key.Binding

	// SelectAll selects every object of the focused panel.
	SelectAll key.Binding

	// DeselectAll deselects every object of the focused panel.
	DeselectAll key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Results: key.NewBinding(
			key.WithKeys("enter", "down"),
			key.WithHelp("enter", "results"),
		),
		Input: key.NewBinding(
			key.WithKeys("/", "esc"),
			key.WithHelp("/", "query"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Fields: []key.Binding{
			key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "name")),
			key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "ATT&CK ID")),
			key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "description")),
			key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "data sources")),
		},
		Panels: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "techniques")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "groups")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "software")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "campaigns")),
			key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "mitigations")),
			key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "data components")),
		},
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "deselect"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "deselect all"),
		),
	}
}

// InputHelp returns keybindings shown while the query input is focused.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Results, k.Fields[0], k.Quit}
}

// ResultsHelp returns keybindings shown while a panel is focused.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Deselect, k.SelectAll, k.NextPanel, k.Input}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPanel, k.PrevPanel},
		{k.Select, k.Deselect, k.SelectAll, k.DeselectAll},
		k.Fields,
		k.Panels,
		{k.Results, k.Input, k.Quit},
	}
}

// Index returns the position of the first binding matching keyStr, or -1.
func Index(keyStr string, bindings []key.Binding) int {
	for i, b := range bindings {
		if Matches(keyStr, b) {
			return i
		}
	}
	return -1
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
