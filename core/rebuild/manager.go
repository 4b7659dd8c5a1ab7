package rebuild

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/events"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/rebuildlog"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/stack"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/store"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/template"
	"github.com/yisrose35/daily-camp-schedular-sub006/internal/eventbus"
)

// Manager orchestrates day rebuilds: per division it preserves the elapsed
// part of the live timeline, parses the target template, runs the stacker for
// the remainder and assembles the new plan. The manager is the single writer
// of the day's timeline; a second rebuild while one is pending is rejected.
type Manager struct {
	templates store.TemplateStore
	schedule  store.ScheduleStore
	setup     store.SetupRegistry
	resources store.ResourceRegistry
	parser    *template.Parser
	stacker   *stack.Stacker
	sink      metrics.Sink
	bus       eventbus.EventBus
	auditLog  rebuildlog.Store
	logger    logger.Logger

	// GridIncrement is the rounding grid for the transition minute.
	GridIncrement int
	// SnapWindow is how far ahead the effective start may snap to a template
	// block boundary.
	SnapWindow int

	mu       sync.Mutex
	inFlight bool
}

// NewManager creates a rebuild manager.
func NewManager(templates store.TemplateStore, schedule store.ScheduleStore, setup store.SetupRegistry, resources store.ResourceRegistry, parser *template.Parser, stacker *stack.Stacker, sink metrics.Sink, bus eventbus.EventBus, auditLog rebuildlog.Store, log logger.Logger) (*Manager, error) {
	if templates == nil || schedule == nil || parser == nil || stacker == nil {
		return nil, fmt.Errorf("rebuild: nil parameter provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Manager{
		templates:     templates,
		schedule:      schedule,
		setup:         setup,
		resources:     resources,
		parser:        parser,
		stacker:       stacker,
		sink:          sink,
		bus:           bus,
		auditLog:      auditLog,
		logger:        log,
		GridIncrement: 5,
		SnapWindow:    10,
	}, nil
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if m.auditLog != nil {
		return m.auditLog.Close()
	}
	return nil
}

// RebuildFromTransition rebuilds the day from the transition minute onto the
// named template. The call runs to completion synchronously; cancellation is
// not supported once it begins.
func (m *Manager) RebuildFromTransition(ctx context.Context, req Request) (Result, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return m.fatal(req, "", ErrRebuildInProgress.Error()), nil
	}
	m.inFlight = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	runID := uuid.NewString()
	started := time.Now()
	if m.bus != nil {
		m.bus.Publish(events.RebuildRequested{RunID: runID, Template: req.Template, TransitionMinute: req.TransitionMinute, Time: started})
	}

	res, err := m.rebuild(ctx, runID, req)
	if err != nil {
		return res, err
	}
	m.record(ctx, runID, req, res, time.Since(started))
	return res, nil
}

func (m *Manager) rebuild(ctx context.Context, runID string, req Request) (Result, error) {
	raw, err := m.templates.LoadTemplate(req.Template)
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("load template %q: %w", req.Template, err)
	}
	if len(raw) == 0 {
		return m.fatal(req, runID, fmt.Sprintf("%s: %q", ErrTemplateNotFound, req.Template)), nil
	}

	live, err := m.schedule.LoadTimeline()
	if err != nil {
		return Result{RunID: runID}, fmt.Errorf("load live timeline: %w", err)
	}

	effTransition := clock.RoundToGrid(req.TransitionMinute, m.GridIncrement)
	parsed := m.parser.Parse(raw)
	divisions := unionDivisions(live, parsed)
	if len(divisions) == 0 {
		return m.fatal(req, runID, ErrNoDivisionsConfigured.Error()), nil
	}

	summary := model.RebuildSummary{
		EffectiveTransition: effTransition,
		Template:            req.Template,
		Divisions:           map[string]model.DivisionSummary{},
	}
	var timeline []model.TimeBlock
	for _, division := range divisions {
		liveDiv := model.DivisionBlocks(live, division)
		divRes, divSummary := m.rebuildDivision(runID, division, liveDiv, parsed[division], effTransition)
		summary.Divisions[division] = divSummary
		if divSummary.Skipped != "" {
			timeline = append(timeline, liveDiv...)
			continue
		}
		timeline = append(timeline, divRes.PreservedBlocks...)
		timeline = append(timeline, divRes.StackedBlocks...)
	}

	if err := m.applyOverrides(req); err != nil {
		return Result{RunID: runID}, err
	}
	if err := m.schedule.SaveTimeline(timeline); err != nil {
		return Result{RunID: runID}, fmt.Errorf("save timeline: %w", err)
	}

	return Result{RunID: runID, Success: true, Timeline: timeline, Summary: summary}, nil
}

// rebuildDivision runs steps 4a-4f for one division.
func (m *Manager) rebuildDivision(runID, division string, liveDiv []model.TimeBlock, parsed *template.ParsedDivision, effTransition int) (DivisionResult, model.DivisionSummary) {
	res := DivisionResult{Division: division}
	summary := model.DivisionSummary{Division: division}

	res.PreservedBlocks = preserveElapsed(liveDiv, effTransition)
	summary.Preserved = len(res.PreservedBlocks)

	wallTime, wallBlock, ok := m.resolveWall(parsed, liveDiv)
	if !ok {
		m.skip(runID, division, SkipNoWall)
		summary.Skipped = SkipNoWall
		return res, summary
	}
	summary.WallTime = wallTime

	effStart, filler := m.snapStart(division, effTransition, parsed)
	summary.EffectiveStart = effStart
	if effStart >= wallTime {
		m.skip(runID, division, SkipTransitionPastWall)
		summary.Skipped = SkipTransitionPastWall
		return res, summary
	}
	if filler != nil {
		res.PreservedBlocks = append(res.PreservedBlocks, *filler)
		summary.Preserved++
	}

	var queue, fixed []model.TimeBlock
	if parsed != nil {
		queue = m.parser.ExpandPrep(parsed.ActivityQueue, m.setup)
		fixed = parsed.FixedBlocks
	}
	stacked := m.stacker.Stack(effStart, wallTime, queue, fixed, wallBlock, division)
	res.StackedBlocks = stacked.Blocks
	res.WallBlock = wallBlock
	res.DroppedCount = len(stacked.Dropped)
	summary.Stacked = len(stacked.Blocks)
	summary.Dropped = len(stacked.Dropped)
	return res, summary
}

// resolveWall prefers the template's wall, falling back to the live
// timeline's wall block.
func (m *Manager) resolveWall(parsed *template.ParsedDivision, liveDiv []model.TimeBlock) (int, *model.TimeBlock, bool) {
	if parsed != nil && parsed.HasWall {
		return parsed.WallTime, parsed.WallBlock, true
	}
	for _, b := range liveDiv {
		if b.Role == model.RoleWall {
			wall := b
			return b.StartMinute, &wall, true
		}
	}
	return 0, nil, false
}

// snapStart snaps the transition to a template block boundary lying within
// SnapWindow minutes ahead, inserting a "Transition" filler over any gap the
// snap opens. Snapping avoids a degenerate sliver block at the cutover.
func (m *Manager) snapStart(division string, effTransition int, parsed *template.ParsedDivision) (int, *model.TimeBlock) {
	if parsed == nil {
		return effTransition, nil
	}
	best := -1
	consider := func(blocks []model.TimeBlock) {
		for _, b := range blocks {
			if b.StartMinute >= effTransition && b.StartMinute <= effTransition+m.SnapWindow {
				if best < 0 || b.StartMinute < best {
					best = b.StartMinute
				}
			}
		}
	}
	consider(parsed.ActivityQueue)
	consider(parsed.FixedBlocks)
	if best < 0 || best == effTransition {
		return effTransition, nil
	}
	filler := model.TimeBlock{
		Division:    division,
		StartMinute: effTransition,
		EndMinute:   best,
		EventName:   "Transition",
		Label:       "Transition",
		Role:        model.RoleFixed,
	}
	return best, &filler
}

func (m *Manager) applyOverrides(req Request) error {
	if m.resources == nil {
		return nil
	}
	switch req.Direction {
	case Forward:
		if len(req.Overrides) == 0 {
			return nil
		}
		if err := m.resources.Apply(req.Overrides); err != nil {
			return fmt.Errorf("apply resource overrides: %w", err)
		}
	case Reverse:
		if err := m.resources.Restore(); err != nil {
			return fmt.Errorf("restore resource overrides: %w", err)
		}
	}
	return nil
}

// preserveElapsed keeps blocks fully ended at or before the cutover and
// truncates the one straddling it.
func preserveElapsed(liveDiv []model.TimeBlock, effTransition int) []model.TimeBlock {
	var preserved []model.TimeBlock
	for _, b := range liveDiv {
		switch {
		case b.EndMinute <= effTransition:
			preserved = append(preserved, b)
		case b.StartMinute < effTransition:
			clipped := b
			clipped.EndMinute = effTransition
			clipped.TruncatedAtCutover = true
			preserved = append(preserved, clipped)
		}
	}
	return preserved
}

func unionDivisions(live []model.TimeBlock, parsed map[string]*template.ParsedDivision) []string {
	out := model.Divisions(live)
	seen := map[string]bool{}
	for _, d := range out {
		seen[d] = true
	}
	for d := range parsed {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func (m *Manager) skip(runID, division, reason string) {
	m.logger.Warnf("division %s skipped: %s", division, reason)
	if m.bus != nil {
		m.bus.Publish(events.DivisionSkipped{RunID: runID, Division: division, Reason: reason})
	}
}

func (m *Manager) fatal(req Request, runID, msg string) Result {
	m.logger.Errorf("rebuild onto %q failed: %s", req.Template, msg)
	return Result{RunID: runID, Success: false, Error: msg}
}

func (m *Manager) record(ctx context.Context, runID string, req Request, res Result, elapsed time.Duration) {
	ev := metrics.RebuildEvent{
		RunID:    runID,
		Template: req.Template,
		Success:  res.Success,
		Error:    res.Error,
		Duration: elapsed,
		Summary:  res.Summary,
		Time:     time.Now(),
	}
	if err := m.sink.RecordRebuild(ev); err != nil {
		m.logger.Warnf("record rebuild metrics: %v", err)
	}
	if m.auditLog != nil {
		rec := rebuildlog.Record{
			RunID:               runID,
			Timestamp:           time.Now(),
			Template:            req.Template,
			TransitionMinute:    req.TransitionMinute,
			EffectiveTransition: res.Summary.EffectiveTransition,
			Success:             res.Success,
			Error:               res.Error,
			Summary:             res.Summary,
		}
		if err := m.auditLog.Append(ctx, rec); err != nil {
			m.logger.Warnf("append rebuild log: %v", err)
		}
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
