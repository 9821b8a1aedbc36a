package driven

import "time"

// Scheduler runs a callback once after a delay.
// The query controller uses it for debounce and never schedules a second
// callback while one is pending.
type Scheduler interface {
	// Schedule arranges for fn to run after d.
	Schedule(d time.Duration, fn func())
}
