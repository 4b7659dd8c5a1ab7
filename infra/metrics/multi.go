package metrics

import coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"

// MultiSink fans rebuild events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRebuild forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRebuild(ev coremetrics.RebuildEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRebuild(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRemap forwards the event to sinks that record remap outcomes.
func (m *MultiSink) RecordRemap(ev coremetrics.RemapEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.RemapRecorder); ok {
			if err := rec.RecordRemap(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
