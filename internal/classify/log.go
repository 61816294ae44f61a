package classify

import "sync"

// DefaultLogCap bounds the all-time error log.
const DefaultLogCap = 1000

// Log is a bounded, append-only event log. Once the cap is reached the
// oldest events are evicted first, keeping memory bounded over
// long-lived use.
type Log struct {
	mu     sync.Mutex
	cap    int
	events []Event
}

// NewLog creates a log holding at most capacity events.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCap
	}
	return &Log{cap: capacity}
}

// Append adds an event, evicting the oldest when full.
func (l *Log) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) >= l.cap {
		drop := len(l.events) - l.cap + 1
		l.events = append(l.events[:0], l.events[drop:]...)
	}
	l.events = append(l.events, e)
}

// Events returns a copy of the logged events, oldest first.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of logged events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
