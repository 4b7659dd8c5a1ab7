// Package events defines the lifecycle events published on the internal bus
// during a rebuild. The pin-preservation mechanism subscribes to the
// generation events to snapshot pinned entries before the optimizer runs and
// restore them afterwards; the core only publishes.
package events

import "time"

// RebuildRequested is published when a rebuild run begins.
type RebuildRequested struct {
	RunID            string
	Template         string
	TransitionMinute int
	Time             time.Time
}

// GenerationStarting is published immediately before the optimizer is
// invoked on the rebuilt timeline.
type GenerationStarting struct {
	RunID string
	Time  time.Time
}

// GenerationComplete is published after the optimizer returns.
type GenerationComplete struct {
	RunID string
	Err   error
	Time  time.Time
}

// DivisionSkipped is published when a division is left unchanged.
type DivisionSkipped struct {
	RunID    string
	Division string
	Reason   string
}

// EntryDropped is published for every assignment entry the remapper could not
// re-seat on the new timeline.
type EntryDropped struct {
	RunID    string
	Bunk     string
	Activity string
	Slot     int
}
