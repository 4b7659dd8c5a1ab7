package notify

import (
	"context"
	"time"
)

// PlanChange is the payload broadcast after a successful rebuild so boards
// and displays can refresh.
type PlanChange struct {
	RunID               string         `json:"run_id"`
	Template            string         `json:"template"`
	EffectiveTransition int            `json:"effective_transition"`
	Divisions           map[string]int `json:"divisions"` // division -> stacked block count
	Time                time.Time      `json:"time"`
}

// Notifier publishes plan-change announcements. Failures are logged by the
// caller and never fail a rebuild.
type Notifier interface {
	PublishPlanChange(ctx context.Context, change PlanChange) error
	Close() error
}

// NopNotifier discards announcements.
type NopNotifier struct{}

func (NopNotifier) PublishPlanChange(context.Context, PlanChange) error { return nil }
func (NopNotifier) Close() error                                       { return nil }
