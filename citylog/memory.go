package citylog

import (
	"strings"
	"sync"
)

// Entry is one message captured by a Recorder.
type Entry struct {
	Level    Level
	Message  string
	Location *Location
}

// Recorder keeps messages in memory. Useful for reports and tests.
type Recorder struct {
	mu      sync.Mutex
	min     Level
	entries []Entry
	next    Logger
}

// NewRecorder records every message at or above min (LevelTrace records all)
// and forwards to next when it is non-nil.
func NewRecorder(min Level, next Logger) *Recorder {
	return &Recorder{min: min, next: next}
}

func (r *Recorder) Log(level Level, msg string, loc *Location) {
	if level <= r.min {
		r.mu.Lock()
		var l *Location
		if loc != nil {
			c := *loc
			l = &c
		}
		r.entries = append(r.entries, Entry{Level: level, Message: msg, Location: l})
		r.mu.Unlock()
	}
	if r.next != nil && r.next.IsEnabledFor(level) {
		r.next.Log(level, msg, loc)
	}
}

func (r *Recorder) IsEnabledFor(level Level) bool {
	if level <= r.min {
		return true
	}
	return r.next != nil && r.next.IsEnabledFor(level)
}

// Entries returns a copy of the recorded messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many messages were recorded at exactly level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether a message at level contains substr.
func (r *Recorder) Contains(level Level, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
