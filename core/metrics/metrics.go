package metrics

import (
	"time"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// RebuildEvent captures the outcome of one rebuild run for observability.
type RebuildEvent struct {
	RunID    string
	Template string
	Success  bool
	Error    string
	Duration time.Duration
	Summary  model.RebuildSummary
	Time     time.Time
}

// RemapEvent captures the outcome of re-seating pre-cutover assignments.
type RemapEvent struct {
	RunID    string
	Remapped int
	Skipped  int
	Time     time.Time
}

// Sink records rebuild outcomes for observability purposes.
type Sink interface {
	RecordRebuild(ev RebuildEvent) error
}

// RemapRecorder is implemented by sinks able to record remap outcomes.
type RemapRecorder interface {
	RecordRemap(ev RemapEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRebuild(RebuildEvent) error { return nil }
func (NopSink) RecordRemap(RemapEvent) error     { return nil }
