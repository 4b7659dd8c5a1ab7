package model

import (
	"fmt"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
)

// BlockRole classifies a timeline block.
type BlockRole string

const (
	// RoleActivity marks a schedulable, elastic block.
	RoleActivity BlockRole = "activity"
	// RoleFixed marks a rigid block such as a meal.
	RoleFixed BlockRole = "fixed"
	// RoleWall marks the hard end-of-day deadline, e.g. dismissal.
	RoleWall BlockRole = "wall"
	// RoleSplitHalf marks one half of a split tile.
	RoleSplitHalf BlockRole = "split_half"
)

// FlexWindow is the elastic duration range of an activity block, in minutes.
type FlexWindow struct {
	Min   int `json:"min"`
	Max   int `json:"max"`
	Ideal int `json:"ideal"`
}

// NewFlexWindow derives the elastic window for an activity of the given
// duration. ratio is the allowed deviation from the ideal, e.g. 0.25 for
// a +/-25% window. Rounding is simple half-up rounding.
func NewFlexWindow(duration int, ratio float64) FlexWindow {
	return FlexWindow{
		Min:   clock.Round(float64(duration) * (1 - ratio)),
		Max:   clock.Round(float64(duration) * (1 + ratio)),
		Ideal: duration,
	}
}

// TimeBlock is the unit of both the input template and the output plan.
// Within one division's timeline blocks are sorted by StartMinute and do not
// overlap, except that the two halves of a split tile share the parent's
// original interval, meeting at its midpoint.
type TimeBlock struct {
	Division    string    `json:"division"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	Label       string    `json:"label,omitempty"`
	EventName   string    `json:"event_name"`
	Role        BlockRole `json:"role"`

	// Flex is present only for RoleActivity blocks.
	Flex *FlexWindow `json:"flex,omitempty"`

	// Prep/main coupling tags.
	IsPrepBlock      bool   `json:"is_prep_block,omitempty"`
	IsMainBlock      bool   `json:"is_main_block,omitempty"`
	HasPrep          bool   `json:"has_prep,omitempty"`
	MainActivityName string `json:"main_activity_name,omitempty"`

	// Split tile tags. SplitHalf is 1 or 2 for RoleSplitHalf blocks.
	SplitHalf        int    `json:"split_half,omitempty"`
	SplitSiblingName string `json:"split_sibling_name,omitempty"`
	SplitParentName  string `json:"split_parent_name,omitempty"`

	// TruncatedAtCutover marks a preserved block whose end was clipped to the
	// rebuild transition.
	TruncatedAtCutover bool `json:"truncated_at_cutover,omitempty"`

	// FlexApplied is true on output blocks whose placed duration differs from
	// the template duration.
	FlexApplied bool `json:"flex_applied,omitempty"`
}

// Duration returns the block length in minutes.
func (b TimeBlock) Duration() int { return b.EndMinute - b.StartMinute }

// TimeLabel renders the block's interval as a display string.
func (b TimeBlock) TimeLabel() string {
	return fmt.Sprintf("%s - %s", clock.MinutesToClockLabel(b.StartMinute), clock.MinutesToClockLabel(b.EndMinute))
}

// Validate checks that the block interval is sound.
func (b TimeBlock) Validate() error {
	if b.EndMinute <= b.StartMinute {
		return fmt.Errorf("block %q: end %d not after start %d", b.EventName, b.EndMinute, b.StartMinute)
	}
	if b.Role == RoleActivity && b.Flex == nil {
		return fmt.Errorf("block %q: activity without flex window", b.EventName)
	}
	return nil
}

// RawBlock is one entry of a stored day template, prior to parsing. Times are
// clock strings; Type is the explicit role tag when the template supplies one
// ("activity", "fixed", "wall", "split"). Templates imported from legacy
// sources leave Type generic and rely on event-name classification.
type RawBlock struct {
	Division  string   `json:"division"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Event     string   `json:"event"`
	Type      string   `json:"type"`
	SubEvents []string `json:"sub_events,omitempty"`
}

// Divisions returns the distinct division keys appearing in blocks, in first
// appearance order.
func Divisions(blocks []TimeBlock) []string {
	var out []string
	seen := map[string]bool{}
	for _, b := range blocks {
		if !seen[b.Division] {
			seen[b.Division] = true
			out = append(out, b.Division)
		}
	}
	return out
}

// DivisionBlocks filters blocks belonging to the given division, preserving
// order.
func DivisionBlocks(blocks []TimeBlock, division string) []TimeBlock {
	var out []TimeBlock
	for _, b := range blocks {
		if b.Division == division {
			out = append(out, b)
		}
	}
	return out
}
