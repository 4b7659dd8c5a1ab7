package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/rebuild"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/stack"
	corestore "github.com/yisrose35/daily-camp-schedular-sub006/core/store"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/template"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/internal/eventbus"
)

type templateSet map[string][]model.RawBlock

func (s templateSet) LoadTemplate(name string) ([]model.RawBlock, error) { return s[name], nil }
func (s templateSet) ListTemplates() ([]string, error) {
	var names []string
	for n := range s {
		names = append(names, n)
	}
	return names, nil
}

// RunScenario rebuilds the scenario's day and checks the outcome against the
// expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	transition, ok := clock.ParseClockString(sc.Transition)
	if !ok {
		t.Fatalf("bad transition %q", sc.Transition)
	}
	live, err := sc.LiveBlocks()
	if err != nil {
		t.Fatalf("live blocks: %v", err)
	}
	schedule := corestore.NewMemoryScheduleStore(nil)
	if err := schedule.SaveTimeline(live); err != nil {
		t.Fatalf("seed timeline: %v", err)
	}

	bus := eventbus.New()
	defer bus.Close()
	mgr, err := rebuild.NewManager(
		templateSet{sc.Name: sc.RawTemplate()},
		schedule,
		corestore.MapSetupRegistry(sc.Setup),
		nil,
		template.NewParser(logger.NopLogger{}),
		stack.NewStacker(logger.NopLogger{}),
		sink,
		bus,
		nil,
		logger.NopLogger{},
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	res, err := mgr.RebuildFromTransition(context.Background(), rebuild.Request{
		TransitionMinute: transition,
		Template:         sc.Name,
	})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !res.Success {
		t.Fatalf("rebuild failed: %s", res.Error)
	}

	for division, want := range sc.Expected {
		got, ok := res.Summary.Divisions[division]
		if !ok {
			t.Errorf("division %s missing from summary", division)
			continue
		}
		if got.Skipped != want.Skipped {
			t.Errorf("%s: skipped %q want %q", division, got.Skipped, want.Skipped)
			continue
		}
		if want.Skipped != "" {
			continue
		}
		if got.Preserved != want.Preserved {
			t.Errorf("%s: preserved %d want %d", division, got.Preserved, want.Preserved)
		}
		if got.Stacked != want.Stacked {
			t.Errorf("%s: stacked %d want %d", division, got.Stacked, want.Stacked)
		}
		if got.Dropped != want.Dropped {
			t.Errorf("%s: dropped %d want %d", division, got.Dropped, want.Dropped)
		}
		checkWall(t, res.Timeline, division, got.WallTime)
	}
}

// checkWall asserts the wall invariant on the rebuilt division: nothing but
// the wall block itself crosses the deadline.
func checkWall(t *testing.T, timeline []model.TimeBlock, division string, wall int) {
	for _, b := range model.DivisionBlocks(timeline, division) {
		if b.Role == model.RoleWall {
			continue
		}
		if b.EndMinute > wall {
			t.Errorf("%s: %q ends at %d, past the wall %d", division, b.EventName, b.EndMinute, wall)
		}
	}
}
