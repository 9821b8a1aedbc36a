package services

import (
	"time"

	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
)

// Ensure TimerScheduler implements the interface.
var _ driven.Scheduler = (*TimerScheduler)(nil)

// TimerScheduler runs callbacks on the runtime timer goroutine.
type TimerScheduler struct{}

// NewTimerScheduler creates a scheduler backed by time.AfterFunc.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule arranges for fn to run once after d.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
