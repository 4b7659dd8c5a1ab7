package store

import (
	"context"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// TemplateStore resolves a named day template to its raw blocks. A nil slice
// means the template does not exist.
type TemplateStore interface {
	LoadTemplate(name string) ([]model.RawBlock, error)
	ListTemplates() ([]string, error)
}

// ScheduleStore persists the day's live timeline and assignment grid.
type ScheduleStore interface {
	LoadTimeline() ([]model.TimeBlock, error)
	LoadAssignments() (map[string][]model.AssignmentEntry, error)
	SaveTimeline([]model.TimeBlock) error
	SaveAssignments(map[string][]model.AssignmentEntry) error
	// DivisionOf maps a bunk identifier to its division key.
	DivisionOf(bunk string) string
}

// SetupRegistry exposes the per-activity setup durations used by the
// prep/main expander. Zero means the activity needs no setup block.
type SetupRegistry interface {
	SetupDuration(activity string) int
}

// Override flips one resource attribute for the duration of a plan change.
type Override struct {
	Resource  string  `json:"resource"`
	Attribute string  `json:"attribute"`
	Value     float64 `json:"value"`
}

// ResourceRegistry applies resource overrides, keeping the prior values so a
// reverse rebuild can restore them exactly.
type ResourceRegistry interface {
	Apply(overrides []Override) error
	Restore() error
	Get(resource, attribute string) (float64, bool)
}

// Optimizer assigns concrete resources to the newly opened slots of a rebuilt
// timeline. It must treat pinned entries as immutable.
type Optimizer interface {
	Run(ctx context.Context, timeline []model.TimeBlock) error
}

// NopOptimizer performs no assignment.
type NopOptimizer struct{}

func (NopOptimizer) Run(context.Context, []model.TimeBlock) error { return nil }
