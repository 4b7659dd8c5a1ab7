package template

import (
	"strings"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// Classifier resolves the role of a raw template block. Templates written
// against the current data model carry an explicit type tag; the event-name
// substring sets only exist so day plans imported from the legacy sheets keep
// classifying the same way they always did.
type Classifier struct {
	// FixedEvents are case-insensitive substrings marking rigid blocks,
	// e.g. "lunch", "snack".
	FixedEvents []string
	// WallEvents are case-insensitive substrings marking the end-of-day
	// deadline, e.g. "dismissal".
	WallEvents []string
	// SchedulableTypes are the type tags that mark a block elastic when no
	// explicit role is given.
	SchedulableTypes []string
}

// NewClassifier returns a classifier with the camp's default name sets.
func NewClassifier() *Classifier {
	return &Classifier{
		FixedEvents:      []string{"lunch", "snack", "lineup", "davening", "dinner"},
		WallEvents:       []string{"dismissal", "departure", "buses"},
		SchedulableTypes: []string{"activity", "slot"},
	}
}

// Classify returns the role for a raw block. The explicit type tag wins;
// otherwise the legacy name sets decide, then the schedulable type marker,
// and anything left defaults to fixed.
func (c *Classifier) Classify(b model.RawBlock) model.BlockRole {
	switch strings.ToLower(b.Type) {
	case "activity":
		return model.RoleActivity
	case "fixed":
		return model.RoleFixed
	case "wall":
		return model.RoleWall
	}
	if matchAny(b.Event, c.WallEvents) {
		return model.RoleWall
	}
	if matchAny(b.Event, c.FixedEvents) {
		return model.RoleFixed
	}
	if matchAny(b.Type, c.SchedulableTypes) {
		return model.RoleActivity
	}
	return model.RoleFixed
}

// IsSplit reports whether the raw block is a split tile.
func (c *Classifier) IsSplit(b model.RawBlock) bool {
	return strings.EqualFold(b.Type, "split")
}

func matchAny(s string, subs []string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
