package remap

import (
	"testing"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

func slot(division string, start, end int) model.TimeBlock {
	return model.TimeBlock{Division: division, StartMinute: start, EndMinute: end, EventName: "Slot", Role: model.RoleActivity}
}

func divisionOf(bunk string) string { return "Juniors" }

func TestRemapExactMatch(t *testing.T) {
	r := NewRemapper(nil)
	snap := model.RebuildSnapshot{
		OldTimeline: []model.TimeBlock{slot("Juniors", 540, 600), slot("Juniors", 600, 660)},
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {{ActivityName: "Swim", ResourceName: "Pool"}, {ActivityName: "Crafts"}},
		},
		TransitionMinute: 600,
	}
	newTimeline := []model.TimeBlock{slot("Juniors", 540, 600), slot("Juniors", 600, 660)}

	out, stats := r.Remap(snap, newTimeline, divisionOf)
	grid := out["Juniors-1"]
	if len(grid) != 2 {
		t.Fatalf("grid length %d want 2", len(grid))
	}
	got := grid[0]
	if got.ActivityName != "Swim" || got.ResourceName != "Pool" {
		t.Fatalf("slot 0 not carried: %+v", got)
	}
	if !got.Pinned || !got.PreservedFromBeforeCutover {
		t.Fatalf("carried entry must be pinned: %+v", got)
	}
	// The 600-660 slot ends after the transition and belongs to the rebuilt
	// portion of the day.
	if !grid[1].Empty() {
		t.Fatalf("post-transition slot must stay empty: %+v", grid[1])
	}
	if stats.Remapped != 1 || stats.Skipped != 0 {
		t.Fatalf("stats %+v", stats)
	}
}

func TestRemapNearestMatch(t *testing.T) {
	r := NewRemapper(nil)
	snap := model.RebuildSnapshot{
		OldTimeline: []model.TimeBlock{slot("Juniors", 540, 600)},
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {{ActivityName: "Swim"}},
		},
		TransitionMinute: 600,
	}
	// The rebuilt slot shifted by 5 minutes; combined distance 5 is within
	// the 10 minute tolerance.
	newTimeline := []model.TimeBlock{slot("Juniors", 540, 595)}

	out, stats := r.Remap(snap, newTimeline, divisionOf)
	if stats.Remapped != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if out["Juniors-1"][0].ActivityName != "Swim" {
		t.Fatalf("nearest match failed: %+v", out["Juniors-1"])
	}
}

func TestRemapBeyondToleranceDrops(t *testing.T) {
	r := NewRemapper(nil)
	snap := model.RebuildSnapshot{
		OldTimeline: []model.TimeBlock{slot("Juniors", 540, 600)},
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {{ActivityName: "Swim"}},
		},
		TransitionMinute: 600,
	}
	newTimeline := []model.TimeBlock{slot("Juniors", 550, 620)}

	out, stats := r.Remap(snap, newTimeline, divisionOf)
	if stats.Skipped != 1 || stats.Remapped != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if !out["Juniors-1"][0].Empty() {
		t.Fatalf("entry beyond tolerance must be dropped, got %+v", out["Juniors-1"][0])
	}
}

func TestRemapContinuationMovesAsUnit(t *testing.T) {
	r := NewRemapper(nil)
	old := []model.TimeBlock{slot("Juniors", 480, 540), slot("Juniors", 540, 600), slot("Juniors", 600, 660)}
	snap := model.RebuildSnapshot{
		OldTimeline: old,
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {
				{ActivityName: "Regatta"},
				{ActivityName: "Regatta", Continuation: true},
				{ActivityName: "Crafts"},
			},
		},
		TransitionMinute: 600,
	}
	newTimeline := []model.TimeBlock{slot("Juniors", 480, 540), slot("Juniors", 540, 600), slot("Juniors", 600, 660)}

	out, stats := r.Remap(snap, newTimeline, divisionOf)
	grid := out["Juniors-1"]
	if stats.Remapped != 2 {
		t.Fatalf("stats %+v", stats)
	}
	if grid[0].ActivityName != "Regatta" || grid[1].ActivityName != "Regatta" {
		t.Fatalf("continuation chain broken: %+v", grid)
	}
	if !grid[1].Continuation {
		t.Fatal("continuation flag must survive the move")
	}
	if !grid[2].Empty() {
		t.Fatalf("post-transition entry must not carry: %+v", grid[2])
	}
}

func TestRemapIdempotent(t *testing.T) {
	r := NewRemapper(nil)
	timeline := []model.TimeBlock{slot("Juniors", 480, 540), slot("Juniors", 540, 600)}
	snap := model.RebuildSnapshot{
		OldTimeline: timeline,
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {{ActivityName: "Swim", ResourceName: "Pool"}, {ActivityName: "Crafts"}},
		},
		TransitionMinute: 600,
	}

	first, _ := r.Remap(snap, timeline, divisionOf)
	snap.OldAssignments = first
	second, _ := r.Remap(snap, timeline, divisionOf)

	a, b := first["Juniors-1"], second["Juniors-1"]
	if len(a) != len(b) {
		t.Fatalf("grid lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d changed on second pass: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRemapUnknownDivisionLeavesGridEmpty(t *testing.T) {
	r := NewRemapper(nil)
	snap := model.RebuildSnapshot{
		OldTimeline: []model.TimeBlock{slot("Seniors", 540, 600)},
		OldAssignments: map[string][]model.AssignmentEntry{
			"Juniors-1": {{ActivityName: "Swim"}},
		},
		TransitionMinute: 600,
	}
	newTimeline := []model.TimeBlock{slot("Seniors", 540, 600)}
	out, stats := r.Remap(snap, newTimeline, divisionOf)
	if stats.Remapped != 0 {
		t.Fatalf("stats %+v", stats)
	}
	for _, e := range out["Juniors-1"] {
		if !e.Empty() {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}
