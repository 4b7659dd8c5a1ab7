package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
)

// PromSink records rebuild outcomes in Prometheus metrics.
type PromSink struct {
	rebuilds *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	duration prometheus.Histogram
	remapped *prometheus.CounterVec
}

// NewPromSink registers rebuild metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rebuilds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebuild_runs_total",
		Help: "Total number of rebuild runs",
	}, []string{"template", "success"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rebuild_activities_dropped_total",
		Help: "Activities dropped to fit the remaining day",
	}, []string{"template", "division"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rebuild_duration_seconds",
		Help:    "Time spent producing a new day plan",
		Buckets: prometheus.DefBuckets,
	})
	remapped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remap_entries_total",
		Help: "Assignment entries processed by the remapper",
	}, []string{"outcome"})

	if err := reg.Register(rebuilds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rebuilds = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(dropped); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dropped = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(remapped); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			remapped = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{rebuilds: rebuilds, dropped: dropped, duration: duration, remapped: remapped}, nil
}

// RecordRebuild increments the run counter and observes the run duration.
func (s *PromSink) RecordRebuild(ev coremetrics.RebuildEvent) error {
	s.rebuilds.WithLabelValues(ev.Template, strconv.FormatBool(ev.Success)).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	for division, d := range ev.Summary.Divisions {
		if d.Dropped > 0 {
			s.dropped.WithLabelValues(ev.Template, division).Add(float64(d.Dropped))
		}
	}
	return nil
}

// RecordRemap counts remapped and skipped entries.
func (s *PromSink) RecordRemap(ev coremetrics.RemapEvent) error {
	s.remapped.WithLabelValues("remapped").Add(float64(ev.Remapped))
	s.remapped.WithLabelValues("skipped").Add(float64(ev.Skipped))
	return nil
}
