package rebuildlog

import (
	"context"
	"time"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// Record captures one rebuild run for after-the-fact auditing.
type Record struct {
	RunID               string              `json:"run_id"`
	Timestamp           time.Time           `json:"timestamp"`
	Template            string              `json:"template"`
	TransitionMinute    int                 `json:"transition_minute"`
	EffectiveTransition int                 `json:"effective_transition"`
	Success             bool                `json:"success"`
	Error               string              `json:"error,omitempty"`
	Summary             model.RebuildSummary `json:"summary"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start    time.Time
	End      time.Time
	Template string
}

// Store persists rebuild records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// matches applies the query filters to a record.
func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Template != "" && r.Template != q.Template {
		return false
	}
	return true
}
