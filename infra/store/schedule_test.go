package store

import (
	"path/filepath"
	"testing"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

func TestFileScheduleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.json")
	s, err := NewFileScheduleStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	blocks := []model.TimeBlock{
		{Division: "Juniors", StartMinute: 540, EndMinute: 600, EventName: "Swim", Role: model.RoleActivity},
	}
	if err := s.SaveTimeline(blocks); err != nil {
		t.Fatalf("save timeline: %v", err)
	}
	got, err := s.LoadTimeline()
	if err != nil {
		t.Fatalf("load timeline: %v", err)
	}
	if len(got) != 1 || got[0].EventName != "Swim" || got[0].Role != model.RoleActivity {
		t.Fatalf("unexpected timeline %+v", got)
	}

	assignments := map[string][]model.AssignmentEntry{
		"Juniors-1": {{ActivityName: "Swim", ResourceName: "Pool", Pinned: true}},
	}
	if err := s.SaveAssignments(assignments); err != nil {
		t.Fatalf("save assignments: %v", err)
	}
	loaded, err := s.LoadAssignments()
	if err != nil {
		t.Fatalf("load assignments: %v", err)
	}
	e := loaded["Juniors-1"][0]
	if e.ActivityName != "Swim" || !e.Pinned {
		t.Fatalf("unexpected entry %+v", e)
	}

	// Saving assignments must not wipe the timeline stored in the same file.
	again, err := s.LoadTimeline()
	if err != nil {
		t.Fatalf("reload timeline: %v", err)
	}
	if len(again) != 1 {
		t.Fatalf("timeline lost after assignment save: %v", again)
	}
}

func TestFileScheduleStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.json")
	s, err := NewFileScheduleStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveTimeline([]model.TimeBlock{{Division: "Juniors", StartMinute: 0, EndMinute: 60, EventName: "Swim"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := NewFileScheduleStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.LoadTimeline()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("persisted timeline lost: %v", got)
	}
}

func TestFileScheduleStoreDivisionOf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.json")
	s, err := NewFileScheduleStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := s.DivisionOf("Seniors-2"); got != "Seniors" {
		t.Fatalf("DivisionOf = %q", got)
	}
	if got := s.DivisionOf("Inters"); got != "Inters" {
		t.Fatalf("DivisionOf = %q", got)
	}
}
