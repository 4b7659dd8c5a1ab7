package rebuild

import "errors"

// Fatal conditions abort the whole rebuild and are surfaced inside the
// Result, never panicked or thrown across the boundary.
var (
	// ErrTemplateNotFound means the named template is missing or empty.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrNoDivisionsConfigured means neither the live day nor the template
	// defines any division.
	ErrNoDivisionsConfigured = errors.New("no divisions configured")
	// ErrRebuildInProgress rejects a rebuild requested while another one is
	// still pending.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)

// Division-scoped skip reasons. The division keeps its live timeline and the
// rest of the rebuild proceeds.
const (
	SkipNoWall             = "no wall defined for division"
	SkipTransitionPastWall = "transition at or after dismissal"
)
