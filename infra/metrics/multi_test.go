package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/yisrose35/daily-camp-schedular-sub006/core/metrics"
)

type recordingSink struct {
	rebuilds int
	remaps   int
	err      error
}

func (s *recordingSink) RecordRebuild(coremetrics.RebuildEvent) error {
	s.rebuilds++
	return s.err
}

func (s *recordingSink) RecordRemap(coremetrics.RemapEvent) error {
	s.remaps++
	return s.err
}

type rebuildOnlySink struct{ rebuilds int }

func (s *rebuildOnlySink) RecordRebuild(coremetrics.RebuildEvent) error {
	s.rebuilds++
	return nil
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRebuild(coremetrics.RebuildEvent{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.rebuilds != 1 || b.rebuilds != 1 {
		t.Fatalf("fan-out failed: %d %d", a.rebuilds, b.rebuilds)
	}
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{err: boom}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRebuild(coremetrics.RebuildEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if b.rebuilds != 0 {
		t.Fatalf("later sinks should not run after an error, got %d", b.rebuilds)
	}
}

func TestMultiSinkRemapSkipsNonRecorders(t *testing.T) {
	a := &recordingSink{}
	b := &rebuildOnlySink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRemap(coremetrics.RemapEvent{Remapped: 3}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.remaps != 1 {
		t.Fatalf("remap recorder not invoked: %d", a.remaps)
	}
}
