package rebuild

import (
	"context"
	"strings"
	"testing"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/stack"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/store"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/template"
)

type mapTemplates map[string][]model.RawBlock

func (m mapTemplates) LoadTemplate(name string) ([]model.RawBlock, error) { return m[name], nil }
func (m mapTemplates) ListTemplates() ([]string, error) {
	var names []string
	for n := range m {
		names = append(names, n)
	}
	return names, nil
}

func rainyDay() []model.RawBlock {
	return []model.RawBlock{
		{Division: "Juniors", StartTime: "9:35am", EndTime: "10:35am", Event: "Indoor Swim", Type: "activity"},
		{Division: "Juniors", StartTime: "12:00pm", EndTime: "12:30pm", Event: "Lunch"},
		{Division: "Juniors", StartTime: "4:00pm", EndTime: "4:15pm", Event: "Dismissal"},
	}
}

func newTestManager(t *testing.T, templates mapTemplates, live []model.TimeBlock) (*Manager, *store.MemoryScheduleStore) {
	t.Helper()
	schedule := store.NewMemoryScheduleStore(nil)
	if err := schedule.SaveTimeline(live); err != nil {
		t.Fatalf("seed timeline: %v", err)
	}
	parser := template.NewParser(nil)
	stacker := stack.NewStacker(nil)
	m, err := NewManager(templates, schedule, nil, nil, parser, stacker, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, schedule
}

func liveMorning() []model.TimeBlock {
	return []model.TimeBlock{
		{Division: "Juniors", StartMinute: 540, EndMinute: 600, EventName: "Morning Activity", Role: model.RoleActivity},
	}
}

func TestRebuildPreservesAndTruncates(t *testing.T) {
	m, schedule := newTestManager(t, mapTemplates{"rainy day": rainyDay()}, liveMorning())

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 572, Template: "rainy day"})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !res.Success {
		t.Fatalf("rebuild failed: %s", res.Error)
	}
	if res.Summary.EffectiveTransition != 570 {
		t.Fatalf("effective transition %d want 570", res.Summary.EffectiveTransition)
	}

	div := res.Summary.Divisions["Juniors"]
	if div.Skipped != "" {
		t.Fatalf("unexpected skip: %s", div.Skipped)
	}
	// Truncated morning block plus the snap filler.
	if div.Preserved != 2 {
		t.Fatalf("preserved %d want 2", div.Preserved)
	}
	if div.EffectiveStart != 575 {
		t.Fatalf("effective start %d want 575 (snapped to the template boundary)", div.EffectiveStart)
	}
	if div.WallTime != 960 {
		t.Fatalf("wall %d want 960", div.WallTime)
	}

	timeline, err := schedule.LoadTimeline()
	if err != nil {
		t.Fatalf("load timeline: %v", err)
	}
	var truncated, filler bool
	for _, b := range timeline {
		if b.TruncatedAtCutover {
			truncated = true
			if b.EndMinute != 570 {
				t.Fatalf("truncated block ends at %d want 570", b.EndMinute)
			}
		}
		if b.EventName == "Transition" {
			filler = true
			if b.StartMinute != 570 || b.EndMinute != 575 {
				t.Fatalf("filler at %d-%d want 570-575", b.StartMinute, b.EndMinute)
			}
		}
	}
	if !truncated {
		t.Fatal("straddling block was not truncated")
	}
	if !filler {
		t.Fatal("snap filler missing")
	}

	last := timeline[len(timeline)-1]
	if last.Role != model.RoleWall || last.StartMinute != 960 {
		t.Fatalf("wall not synthesized at 960: %+v", last)
	}
	for _, b := range timeline {
		if b.Role != model.RoleWall && b.EndMinute > 960 {
			t.Fatalf("%q ends past the wall: %d", b.EventName, b.EndMinute)
		}
	}
}

func TestRebuildSkipsDivisionWithoutWall(t *testing.T) {
	tmpl := []model.RawBlock{
		{Division: "Juniors", StartTime: "10:00am", EndTime: "11:00am", Event: "Swim", Type: "activity"},
	}
	live := liveMorning()
	m, schedule := newTestManager(t, mapTemplates{"no wall": tmpl}, live)

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 570, Template: "no wall"})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	div := res.Summary.Divisions["Juniors"]
	if div.Skipped != SkipNoWall {
		t.Fatalf("skip reason %q want %q", div.Skipped, SkipNoWall)
	}
	// A skipped division keeps its live timeline untouched.
	timeline, _ := schedule.LoadTimeline()
	if len(timeline) != 1 || timeline[0] != live[0] {
		t.Fatalf("skipped division timeline changed: %v", timeline)
	}
}

func TestRebuildSkipsTransitionPastWall(t *testing.T) {
	m, _ := newTestManager(t, mapTemplates{"rainy day": rainyDay()}, liveMorning())

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 970, Template: "rainy day"})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	div := res.Summary.Divisions["Juniors"]
	if div.Skipped != SkipTransitionPastWall {
		t.Fatalf("skip reason %q want %q", div.Skipped, SkipTransitionPastWall)
	}
}

func TestRebuildTemplateNotFound(t *testing.T) {
	m, _ := newTestManager(t, mapTemplates{}, liveMorning())

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 570, Template: "color war"})
	if err != nil {
		t.Fatalf("missing template is a taxonomy failure, not an error: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, ErrTemplateNotFound.Error()) {
		t.Fatalf("error %q does not name the missing template condition", res.Error)
	}
}

func TestRebuildRejectsConcurrentRun(t *testing.T) {
	m, _ := newTestManager(t, mapTemplates{"rainy day": rainyDay()}, liveMorning())
	m.mu.Lock()
	m.inFlight = true
	m.mu.Unlock()

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 570, Template: "rainy day"})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if res.Success || !strings.Contains(res.Error, ErrRebuildInProgress.Error()) {
		t.Fatalf("expected in-progress rejection, got %+v", res)
	}
}

func TestRebuildWallFallbackFromLiveTimeline(t *testing.T) {
	tmpl := []model.RawBlock{
		{Division: "Juniors", StartTime: "10:00am", EndTime: "11:00am", Event: "Swim", Type: "activity"},
	}
	live := append(liveMorning(), model.TimeBlock{
		Division: "Juniors", StartMinute: 960, EndMinute: 975, EventName: "Dismissal", Role: model.RoleWall,
	})
	m, _ := newTestManager(t, mapTemplates{"no wall": tmpl}, live)

	res, err := m.RebuildFromTransition(context.Background(), Request{TransitionMinute: 600, Template: "no wall"})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	div := res.Summary.Divisions["Juniors"]
	if div.Skipped != "" {
		t.Fatalf("live wall should rescue the division, skipped: %s", div.Skipped)
	}
	if div.WallTime != 960 {
		t.Fatalf("wall %d want 960", div.WallTime)
	}
}

func TestRebuildAppliesAndRestoresOverrides(t *testing.T) {
	resources := store.NewMemoryResourceRegistry(map[string]float64{"Field A/capacity": 2})
	schedule := store.NewMemoryScheduleStore(nil)
	if err := schedule.SaveTimeline(liveMorning()); err != nil {
		t.Fatalf("seed timeline: %v", err)
	}
	m, err := NewManager(mapTemplates{"rainy day": rainyDay()}, schedule, nil, resources, template.NewParser(nil), stack.NewStacker(nil), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	req := Request{
		TransitionMinute: 570,
		Template:         "rainy day",
		Direction:        Forward,
		Overrides:        []store.Override{{Resource: "Field A", Attribute: "capacity", Value: 0}},
	}
	if _, err := m.RebuildFromTransition(context.Background(), req); err != nil {
		t.Fatalf("forward rebuild: %v", err)
	}
	if v, _ := resources.Get("Field A", "capacity"); v != 0 {
		t.Fatalf("override not applied, capacity %v", v)
	}

	req.Direction = Reverse
	req.Overrides = nil
	if _, err := m.RebuildFromTransition(context.Background(), req); err != nil {
		t.Fatalf("reverse rebuild: %v", err)
	}
	if v, _ := resources.Get("Field A", "capacity"); v != 2 {
		t.Fatalf("override not restored, capacity %v", v)
	}
}
