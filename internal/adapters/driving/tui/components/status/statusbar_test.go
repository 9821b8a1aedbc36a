package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, messages.FocusInput, bar.Focus())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
}

func TestStatusBar_UpdateIgnoresKeys(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_UpdateFocusChanged(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.Update(messages.FocusChanged{Focus: messages.FocusPanels})

	assert.Equal(t, messages.FocusPanels, bar.Focus())
	assert.Contains(t, bar.View(), "select all")
}

func TestStatusBar_ViewReady(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetDomain("enterprise-attack-15")
	bar.SetResultCount(42)
	bar.SetSelectedCount(3)

	view := bar.View()

	assert.Contains(t, view, "enterprise-attack-15")
	assert.Contains(t, view, "42 results")
	assert.Contains(t, view, "3 selected")
	assert.Contains(t, view, "results")
}

func TestStatusBar_ViewPending(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StatePending)

	assert.Contains(t, bar.View(), "Searching...")
}

func TestStatusBar_ViewError(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StateError)

	assert.Contains(t, bar.View(), "Error")

	bar.SetMessage("domain version not loaded")
	assert.Contains(t, bar.View(), "Error: domain version not loaded")
}

func TestStatusBar_SetMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("reloaded")

	assert.Equal(t, "reloaded", bar.Message())
}

func TestStatusBar_Counts(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetResultCount(7)
	bar.SetSelectedCount(2)

	assert.Equal(t, 7, bar.ResultCount())
	assert.Equal(t, 2, bar.SelectedCount())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(5)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}
