package model

import "testing"

func TestNewFlexWindow(t *testing.T) {
	w := NewFlexWindow(60, 0.25)
	if w.Min != 45 || w.Max != 75 || w.Ideal != 60 {
		t.Fatalf("unexpected window %+v", w)
	}
	// 45 * 0.75 = 33.75 rounds to 34, 45 * 1.25 = 56.25 rounds to 56
	w = NewFlexWindow(45, 0.25)
	if w.Min != 34 || w.Max != 56 {
		t.Fatalf("unexpected window %+v", w)
	}
}

func TestTimeBlockValidate(t *testing.T) {
	b := TimeBlock{EventName: "Swim", StartMinute: 600, EndMinute: 600, Role: RoleFixed}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for zero-length block")
	}
	b = TimeBlock{EventName: "Swim", StartMinute: 600, EndMinute: 660, Role: RoleActivity}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for activity without flex window")
	}
	flex := NewFlexWindow(60, 0.25)
	b.Flex = &flex
	if err := b.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDivisions(t *testing.T) {
	blocks := []TimeBlock{
		{Division: "Juniors"},
		{Division: "Seniors"},
		{Division: "Juniors"},
	}
	divs := Divisions(blocks)
	if len(divs) != 2 || divs[0] != "Juniors" || divs[1] != "Seniors" {
		t.Fatalf("unexpected divisions %v", divs)
	}
	if got := DivisionBlocks(blocks, "Juniors"); len(got) != 2 {
		t.Fatalf("expected 2 junior blocks got %d", len(got))
	}
}

func TestRebuildSummaryDroppedTotal(t *testing.T) {
	s := RebuildSummary{Divisions: map[string]DivisionSummary{
		"Juniors": {Dropped: 2},
		"Seniors": {Dropped: 1},
	}}
	if got := s.DroppedTotal(); got != 3 {
		t.Fatalf("DroppedTotal = %d want 3", got)
	}
}
