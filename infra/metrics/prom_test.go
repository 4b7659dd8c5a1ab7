package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

func TestPromSinkRecordRebuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}

	ev := coremetrics.RebuildEvent{
		RunID:    "run-1",
		Template: "rainy day",
		Success:  true,
		Duration: 120 * time.Millisecond,
		Summary: model.RebuildSummary{
			Template: "rainy day",
			Divisions: map[string]model.DivisionSummary{
				"Juniors": {Division: "Juniors", Dropped: 2},
				"Seniors": {Division: "Seniors"},
			},
		},
		Time: time.Now(),
	}
	if err := sink.RecordRebuild(ev); err != nil {
		t.Fatalf("record: %v", err)
	}

	expected := `
# HELP rebuild_runs_total Total number of rebuild runs
# TYPE rebuild_runs_total counter
rebuild_runs_total{success="true",template="rainy day"} 1
`
	if err := testutil.CollectAndCompare(sink.rebuilds, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected run metrics: %v", err)
	}

	expected = `
# HELP rebuild_activities_dropped_total Activities dropped to fit the remaining day
# TYPE rebuild_activities_dropped_total counter
rebuild_activities_dropped_total{division="Juniors",template="rainy day"} 2
`
	if err := testutil.CollectAndCompare(sink.dropped, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected dropped metrics: %v", err)
	}
}

func TestPromSinkRecordRemap(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	if err := sink.RecordRemap(coremetrics.RemapEvent{RunID: "run-1", Remapped: 7, Skipped: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}

	expected := `
# HELP remap_entries_total Assignment entries processed by the remapper
# TYPE remap_entries_total counter
remap_entries_total{outcome="remapped"} 7
remap_entries_total{outcome="skipped"} 1
`
	if err := testutil.CollectAndCompare(sink.remapped, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected remap metrics: %v", err)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
