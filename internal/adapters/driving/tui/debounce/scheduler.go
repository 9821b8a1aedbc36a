// Package debounce adapts the query debounce timer to the Bubbletea update loop.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure TickScheduler implements the interface.
var _ driven.Scheduler = (*TickScheduler)(nil)

// TickScheduler runs debounced callbacks on the Bubbletea update loop.
//
// Schedule only records the callback; the view turns it into a tea.Tick
// command and calls Fire when the resulting DebounceElapsed message arrives,
// so query evaluation never runs concurrently with rendering.
type TickScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
}

// NewTickScheduler creates a scheduler with nothing pending.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Schedule records fn to run after d.
func (s *TickScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	s.fn = fn
}

// Tick returns a command that delivers DebounceElapsed after the recorded
// delay, or nil when nothing is scheduled.
func (s *TickScheduler) Tick() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fn == nil {
		return nil
	}
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return messages.DebounceElapsed{}
	})
}

// Fire runs the recorded callback, if any. Returns false when nothing was pending.
func (s *TickScheduler) Fire() bool {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}
