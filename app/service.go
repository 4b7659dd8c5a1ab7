package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yisrose35/daily-camp-schedular-sub006/config"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/events"
	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	corenotify "github.com/yisrose35/daily-camp-schedular-sub006/core/notify"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/rebuild"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/rebuildlog"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/remap"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/stack"
	corestore "github.com/yisrose35/daily-camp-schedular-sub006/core/store"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/template"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/notify"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/store"
	"github.com/yisrose35/daily-camp-schedular-sub006/internal/eventbus"
)

// Service wires the template store, rebuild manager, remapper and optimizer
// into the full mid-day re-plan flow.
type Service struct {
	Manager   *rebuild.Manager
	Templates corestore.TemplateStore
	Schedule  corestore.ScheduleStore
	Optimizer corestore.Optimizer

	remapper *remap.Remapper
	sink     coremetrics.Sink
	bus      eventbus.EventBus
	notifier corenotify.Notifier
	log      logger.Logger

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	templates, err := store.NewFileTemplateStore(cfg.Store.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("template store: %w", err)
	}
	schedule, err := store.NewFileScheduleStore(cfg.Store.SchedulePath)
	if err != nil {
		return nil, fmt.Errorf("schedule store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	parser := template.NewParser(logger.New("template"))
	parser.FlexRatio = cfg.Scheduling.FlexRatio
	applyClassifier(parser.Classifier, cfg.Classifier)

	stacker := stack.NewStacker(logger.New("stack"))
	stacker.SmallGapMax = cfg.Scheduling.SmallGapMax
	stacker.LPFirst = cfg.Scheduling.LPFirst

	auditLog, err := newRebuildLog(cfg.RebuildLog)
	if err != nil {
		return nil, fmt.Errorf("rebuild log: %w", err)
	}

	bus := eventbus.New()
	manager, err := rebuild.NewManager(
		templates,
		schedule,
		corestore.MapSetupRegistry(cfg.Setup),
		corestore.NewMemoryResourceRegistry(nil),
		parser,
		stacker,
		sink,
		bus,
		auditLog,
		logger.New("rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("rebuild manager: %w", err)
	}
	manager.GridIncrement = cfg.Scheduling.GridIncrement
	manager.SnapWindow = cfg.Scheduling.SnapWindow

	var notifier corenotify.Notifier = corenotify.NopNotifier{}
	if cfg.Notifier.Enabled {
		n, err := notify.NewPahoNotifier(cfg.Notifier)
		if err != nil {
			return nil, fmt.Errorf("plan-change notifier: %w", err)
		}
		notifier = n
	}

	return &Service{
		Manager:     manager,
		Templates:   templates,
		Schedule:    schedule,
		Optimizer:   corestore.NopOptimizer{},
		remapper:    remap.NewRemapper(logger.New("remap")),
		sink:        sink,
		bus:         bus,
		notifier:    notifier,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

func applyClassifier(c *template.Classifier, cfg config.ClassifierConfig) {
	if len(cfg.FixedEvents) > 0 {
		c.FixedEvents = cfg.FixedEvents
	}
	if len(cfg.WallEvents) > 0 {
		c.WallEvents = cfg.WallEvents
	}
	if len(cfg.SchedulableTypes) > 0 {
		c.SchedulableTypes = cfg.SchedulableTypes
	}
}

func newRebuildLog(cfg config.RebuildLogConfig) (rebuildlog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return rebuildlog.NewSQLiteStore(cfg.Path)
	default:
		return rebuildlog.NewJSONLStore(cfg.Path)
	}
}

// PendingRebuild is a completed rebuild whose optimizer hand-off has not run
// yet. Pinned pre-cutover assignments are already saved; the open slots wait
// for ApplyOptimizer.
type PendingRebuild struct {
	Result rebuild.Result
	Stats  remap.Stats
}

// PrepareRebuild runs the first phase of the re-plan flow: snapshot the live
// day, rebuild the timeline onto the template and re-seat pre-cutover
// assignments. The caller controls when the optimizer phase follows.
func (s *Service) PrepareRebuild(ctx context.Context, req rebuild.Request) (PendingRebuild, error) {
	snap, err := s.snapshot(req.TransitionMinute)
	if err != nil {
		return PendingRebuild{}, err
	}

	res, err := s.Manager.RebuildFromTransition(ctx, req)
	if err != nil || !res.Success {
		return PendingRebuild{Result: res}, err
	}

	assignments, stats := s.remapper.Remap(snap, res.Timeline, s.Schedule.DivisionOf)
	if err := s.Schedule.SaveAssignments(assignments); err != nil {
		return PendingRebuild{Result: res}, fmt.Errorf("save remapped assignments: %w", err)
	}
	s.recordRemap(res.RunID, stats)
	return PendingRebuild{Result: res, Stats: stats}, nil
}

// ApplyOptimizer runs the second phase: hand the rebuilt timeline to the
// optimizer between the generation lifecycle events, then announce the plan
// change. Returns the optimizer's error; the rebuilt timeline stands either
// way.
func (s *Service) ApplyOptimizer(ctx context.Context, pending PendingRebuild) error {
	res := pending.Result
	s.bus.Publish(events.GenerationStarting{RunID: res.RunID, Time: time.Now()})
	optErr := s.Optimizer.Run(ctx, res.Timeline)
	s.bus.Publish(events.GenerationComplete{RunID: res.RunID, Err: optErr, Time: time.Now()})

	s.announce(ctx, res)
	return optErr
}

// Rebuild runs both phases back to back. Optimizer failures after a
// successful rebuild are logged, not returned.
func (s *Service) Rebuild(ctx context.Context, req rebuild.Request) (rebuild.Result, error) {
	pending, err := s.PrepareRebuild(ctx, req)
	if err != nil || !pending.Result.Success {
		return pending.Result, err
	}
	if optErr := s.ApplyOptimizer(ctx, pending); optErr != nil {
		s.log.Errorf("optimizer: %v", optErr)
	}
	return pending.Result, nil
}

// snapshot captures the live state consumed by the remapper. It is taken
// before the manager touches the stores so the remap sees the pre-rebuild day.
func (s *Service) snapshot(transition int) (model.RebuildSnapshot, error) {
	timeline, err := s.Schedule.LoadTimeline()
	if err != nil {
		return model.RebuildSnapshot{}, fmt.Errorf("snapshot timeline: %w", err)
	}
	assignments, err := s.Schedule.LoadAssignments()
	if err != nil {
		return model.RebuildSnapshot{}, fmt.Errorf("snapshot assignments: %w", err)
	}
	return model.RebuildSnapshot{
		OldTimeline:      timeline,
		OldAssignments:   assignments,
		TransitionMinute: transition,
	}, nil
}

func (s *Service) recordRemap(runID string, stats remap.Stats) {
	rec, ok := s.sink.(coremetrics.RemapRecorder)
	if !ok {
		return
	}
	ev := coremetrics.RemapEvent{RunID: runID, Remapped: stats.Remapped, Skipped: stats.Skipped, Time: time.Now()}
	if err := rec.RecordRemap(ev); err != nil {
		s.log.Warnf("record remap metrics: %v", err)
	}
}

func (s *Service) announce(ctx context.Context, res rebuild.Result) {
	divisions := make(map[string]int, len(res.Summary.Divisions))
	for name, d := range res.Summary.Divisions {
		divisions[name] = d.Stacked
	}
	change := corenotify.PlanChange{
		RunID:               res.RunID,
		Template:            res.Summary.Template,
		EffectiveTransition: res.Summary.EffectiveTransition,
		Divisions:           divisions,
		Time:                time.Now(),
	}
	if err := s.notifier.PublishPlanChange(ctx, change); err != nil {
		s.log.Errorf("publish plan change: %v", err)
	}
}

// Run exposes the Prometheus endpoint and blocks until the context is
// cancelled. Rebuilds are triggered through the CLI or by callers holding the
// Service.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if err := s.notifier.Close(); err != nil {
		s.log.Errorf("notifier close: %v", err)
	}
	return s.Manager.Close()
}
