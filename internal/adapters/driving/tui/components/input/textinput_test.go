package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

func TestNewQueryInput(t *testing.T) {
	s := styles.DefaultStyles()
	input := NewQueryInput(s)

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
}

func TestNewQueryInput_NilStyles(t *testing.T) {
	input := NewQueryInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestQueryInput_Init(t *testing.T) {
	input := NewQueryInput(nil)

	assert.NotNil(t, input.Init())
}

func TestQueryInput_Update(t *testing.T) {
	input := NewQueryInput(nil)

	updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})

	assert.Equal(t, input, updated)
	assert.Equal(t, "T1", input.Value())
}

func TestQueryInput_View(t *testing.T) {
	input := NewQueryInput(nil)

	view := input.View()

	assert.Contains(t, view, "Search")
	assert.NotContains(t, view, "fields:")
}

func TestQueryInput_ViewWithFields(t *testing.T) {
	input := NewQueryInput(nil)
	fields := domain.DefaultSearchFields()
	fields[2].Enabled = false
	input.SetFields(fields)

	view := input.View()

	assert.Contains(t, view, "fields:")
	assert.Contains(t, view, "F1 name")
	assert.Contains(t, view, "F2 ATT&CK ID")
	assert.Contains(t, view, "F4 data sources")
}

func TestQueryInput_SetValue(t *testing.T) {
	input := NewQueryInput(nil)

	input.SetValue("phishing")

	assert.Equal(t, "phishing", input.Value())
}

func TestQueryInput_FocusBlur(t *testing.T) {
	input := NewQueryInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestQueryInput_SetWidth(t *testing.T) {
	input := NewQueryInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 88, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}

func TestQueryInput_Reset(t *testing.T) {
	input := NewQueryInput(nil)
	input.SetValue("lazarus")

	input.Reset()

	assert.Equal(t, "", input.Value())
}
