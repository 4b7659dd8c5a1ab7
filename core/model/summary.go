package model

// DivisionSummary reports the outcome of rebuilding a single division.
type DivisionSummary struct {
	Division       string `json:"division"`
	Preserved      int    `json:"preserved"`
	Stacked        int    `json:"stacked"`
	Dropped        int    `json:"dropped"`
	EffectiveStart int    `json:"effective_start"`
	WallTime       int    `json:"wall_time"`
	// Skipped carries the reason a division was left unchanged, empty when
	// the division was rebuilt.
	Skipped string `json:"skipped,omitempty"`
}

// RebuildSummary aggregates per-division outcomes of one rebuild run.
type RebuildSummary struct {
	EffectiveTransition int                        `json:"effective_transition"`
	Template            string                     `json:"template"`
	Divisions           map[string]DivisionSummary `json:"divisions"`
}

// DroppedTotal sums dropped activities across divisions.
func (s RebuildSummary) DroppedTotal() int {
	total := 0
	for _, d := range s.Divisions {
		total += d.Dropped
	}
	return total
}
