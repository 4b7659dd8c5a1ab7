package rebuild

import (
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/store"
)

// Direction distinguishes switching onto a target plan from switching back.
type Direction int

const (
	// Forward applies the target template and flips resource overrides,
	// snapshotting their prior values.
	Forward Direction = iota
	// Reverse applies the target template and restores the resource values
	// captured by the previous Forward rebuild.
	Reverse
)

// Request describes one rebuild invocation.
type Request struct {
	// TransitionMinute is the raw cutover time, minutes since midnight. It
	// is rounded to the scheduling grid before use.
	TransitionMinute int
	// Template names the target day plan, e.g. "rainy day".
	Template string
	Direction Direction
	// Overrides flip resource attributes (field capacity, availability) for
	// the duration of the target plan.
	Overrides []store.Override
}

// Result is the outcome of a rebuild run. Fatal taxonomy conditions are
// reported through Success and Error; they are never raised as panics.
type Result struct {
	RunID    string
	Success  bool
	Error    string
	Timeline []model.TimeBlock
	Summary  model.RebuildSummary
}

// DivisionResult is the per-division working product of the orchestrator. It
// is owned exclusively by the orchestrator during a rebuild and assembled
// into the Result timeline before hand-off.
type DivisionResult struct {
	Division        string
	PreservedBlocks []model.TimeBlock
	StackedBlocks   []model.TimeBlock
	WallBlock       *model.TimeBlock
	DroppedCount    int
}
