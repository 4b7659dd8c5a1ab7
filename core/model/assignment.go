package model

// AssignmentEntry is one bunk's occupant of one timeline slot. Entries are
// keyed by bunk identifier and array-indexed by slot index within that bunk's
// division timeline.
type AssignmentEntry struct {
	ActivityName string `json:"activity_name"`
	ResourceName string `json:"resource_name,omitempty"`

	// Pinned entries are immutable for the optimizer.
	Pinned bool `json:"pinned,omitempty"`

	// PreservedFromBeforeCutover marks entries carried across a rebuild.
	PreservedFromBeforeCutover bool `json:"preserved_from_before_cutover,omitempty"`

	// Continuation marks a slot that directly extends the entry in the
	// previous slot (same activity spanning more than one block).
	Continuation bool `json:"continuation,omitempty"`
}

// Empty reports whether the slot has no occupant.
func (e AssignmentEntry) Empty() bool { return e.ActivityName == "" }

// RebuildSnapshot is an immutable capture of the live state taken at the
// instant a rebuild is requested. It is consumed exactly once by the remapper
// and then discarded.
type RebuildSnapshot struct {
	OldAssignments   map[string][]AssignmentEntry
	OldTimeline      []TimeBlock
	TransitionMinute int
}
