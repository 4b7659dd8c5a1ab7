package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
	"github.com/yisrose35/daily-camp-schedular-sub006/infra/logger"
)

// InfluxSink writes rebuild events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRebuild writes the rebuild outcome as one point per division plus a
// run-level point.
func (s *InfluxSink) RecordRebuild(ev coremetrics.RebuildEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	run := write.NewPointWithMeasurement("rebuild_run").
		AddTag("run_id", ev.RunID).
		AddTag("template", ev.Template).
		AddTag("success", strconv.FormatBool(ev.Success)).
		AddField("duration_ms", float64(ev.Duration.Milliseconds())).
		AddField("dropped_total", ev.Summary.DroppedTotal()).
		AddField("effective_transition", ev.Summary.EffectiveTransition).
		SetTime(ev.Time)
	if err := s.writeAPI.WritePoint(ctx, run); err != nil {
		return err
	}
	for division, d := range ev.Summary.Divisions {
		p := write.NewPointWithMeasurement("rebuild_division").
			AddTag("run_id", ev.RunID).
			AddTag("template", ev.Template).
			AddTag("division", division).
			AddField("preserved", d.Preserved).
			AddField("stacked", d.Stacked).
			AddField("dropped", d.Dropped).
			AddField("effective_start", d.EffectiveStart).
			AddField("wall_time", d.WallTime).
			SetTime(ev.Time)
		if d.Skipped != "" {
			p = p.AddTag("skipped", d.Skipped)
		}
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordRemap writes the remap outcome of a run.
func (s *InfluxSink) RecordRemap(ev coremetrics.RemapEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("remap_result").
		AddTag("run_id", ev.RunID).
		AddField("remapped", ev.Remapped).
		AddField("skipped", ev.Skipped).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
