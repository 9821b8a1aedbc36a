// Package events provides in-process fan-out of selection-changed signals.
package events

import (
	"sync"

	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure Broadcaster implements the interface.
var _ driven.SelectionNotifier = (*Broadcaster)(nil)

// Broadcaster delivers each selection-changed signal synchronously to every
// subscriber, in subscription order.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
	count  int
}

type subscription struct {
	id int
	fn func()
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broadcaster) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// SelectionChanged calls every subscriber.
func (b *Broadcaster) SelectionChanged() {
	b.mu.Lock()
	b.count++
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

// Count returns how many signals have been broadcast.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

func (b *Broadcaster) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
