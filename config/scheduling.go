package config

import "fmt"

// SchedulingConfig carries the packing thresholds of the stacking engine.
type SchedulingConfig struct {
	// GridIncrement is the rounding grid for transition minutes.
	GridIncrement int `json:"grid_increment"`
	// SnapWindow is how far ahead the effective start may snap to a
	// template block boundary.
	SnapWindow int `json:"snap_window"`
	// SmallGapMax is the largest trailing gap absorbed by the last activity
	// instead of being redistributed.
	SmallGapMax int `json:"small_gap_max"`
	// FlexRatio is the elastic deviation applied to activity durations.
	FlexRatio float64 `json:"flex_ratio"`
	// LPFirst tries the simplex gap distributor before the iterative one.
	LPFirst bool `json:"lp_first"`
}

// SetDefaults applies sane defaults.
func (c *SchedulingConfig) SetDefaults() {
	if c.GridIncrement == 0 {
		c.GridIncrement = 5
	}
	if c.SnapWindow == 0 {
		c.SnapWindow = 10
	}
	if c.SmallGapMax == 0 {
		c.SmallGapMax = 10
	}
	if c.FlexRatio == 0 {
		c.FlexRatio = 0.25
	}
}

// Validate checks the thresholds are usable.
func (c SchedulingConfig) Validate() error {
	if c.GridIncrement < 1 {
		return fmt.Errorf("grid_increment must be positive")
	}
	if c.FlexRatio <= 0 || c.FlexRatio >= 1 {
		return fmt.Errorf("flex_ratio must be in (0,1)")
	}
	if c.SnapWindow < 0 || c.SmallGapMax < 0 {
		return fmt.Errorf("snap_window and small_gap_max must not be negative")
	}
	return nil
}

// ClassifierConfig overrides the legacy event-name classifier sets. Empty
// slices keep the built-in defaults.
type ClassifierConfig struct {
	FixedEvents      []string `json:"fixed_events"`
	WallEvents       []string `json:"wall_events"`
	SchedulableTypes []string `json:"schedulable_types"`
}

// StoreConfig locates the template directory and the live day file.
type StoreConfig struct {
	TemplateDir  string `json:"template_dir"`
	SchedulePath string `json:"schedule_path"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.TemplateDir == "" {
		c.TemplateDir = "templates"
	}
	if c.SchedulePath == "" {
		c.SchedulePath = "day.json"
	}
}
