package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// MemoryScheduleStore keeps the live timeline and assignments in memory. It
// backs tests and the dry-run mode of the CLI.
type MemoryScheduleStore struct {
	mu          sync.RWMutex
	timeline    []model.TimeBlock
	assignments map[string][]model.AssignmentEntry
	divisions   map[string]string
}

// NewMemoryScheduleStore creates an empty store. divisions maps bunk
// identifiers to division keys.
func NewMemoryScheduleStore(divisions map[string]string) *MemoryScheduleStore {
	if divisions == nil {
		divisions = map[string]string{}
	}
	return &MemoryScheduleStore{
		assignments: map[string][]model.AssignmentEntry{},
		divisions:   divisions,
	}
}

func (s *MemoryScheduleStore) LoadTimeline() ([]model.TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TimeBlock, len(s.timeline))
	copy(out, s.timeline)
	return out, nil
}

func (s *MemoryScheduleStore) LoadAssignments() (map[string][]model.AssignmentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]model.AssignmentEntry, len(s.assignments))
	for bunk, entries := range s.assignments {
		cp := make([]model.AssignmentEntry, len(entries))
		copy(cp, entries)
		out[bunk] = cp
	}
	return out, nil
}

func (s *MemoryScheduleStore) SaveTimeline(blocks []model.TimeBlock) error {
	s.mu.Lock()
	s.timeline = make([]model.TimeBlock, len(blocks))
	copy(s.timeline, blocks)
	s.mu.Unlock()
	return nil
}

func (s *MemoryScheduleStore) SaveAssignments(a map[string][]model.AssignmentEntry) error {
	s.mu.Lock()
	s.assignments = make(map[string][]model.AssignmentEntry, len(a))
	for bunk, entries := range a {
		cp := make([]model.AssignmentEntry, len(entries))
		copy(cp, entries)
		s.assignments[bunk] = cp
	}
	s.mu.Unlock()
	return nil
}

// DivisionOf maps a bunk to its division. Unknown bunks fall back to the
// prefix before the first dash, matching the camp's bunk naming scheme.
func (s *MemoryScheduleStore) DivisionOf(bunk string) string {
	s.mu.RLock()
	div, ok := s.divisions[bunk]
	s.mu.RUnlock()
	if ok {
		return div
	}
	if i := strings.Index(bunk, "-"); i > 0 {
		return bunk[:i]
	}
	return bunk
}

// MapSetupRegistry is a SetupRegistry backed by a plain map loaded from
// configuration. Lookups are case-insensitive.
type MapSetupRegistry map[string]int

func (r MapSetupRegistry) SetupDuration(activity string) int {
	if d, ok := r[activity]; ok {
		return d
	}
	return r[strings.ToLower(activity)]
}

// MemoryResourceRegistry holds field attributes with save/restore override
// semantics: the first Apply snapshots the prior value of each touched
// attribute and Restore puts every snapshot back.
type MemoryResourceRegistry struct {
	mu        sync.Mutex
	values    map[string]float64
	originals map[string]float64
}

// NewMemoryResourceRegistry creates a registry seeded with the given
// attribute values, keyed "resource/attribute".
func NewMemoryResourceRegistry(values map[string]float64) *MemoryResourceRegistry {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &MemoryResourceRegistry{values: cp}
}

func key(resource, attribute string) string { return resource + "/" + attribute }

func (r *MemoryResourceRegistry) Apply(overrides []Override) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.originals == nil {
		r.originals = map[string]float64{}
	}
	for _, o := range overrides {
		k := key(o.Resource, o.Attribute)
		cur, ok := r.values[k]
		if !ok {
			return fmt.Errorf("unknown resource attribute %s", k)
		}
		if _, saved := r.originals[k]; !saved {
			r.originals[k] = cur
		}
		r.values[k] = o.Value
	}
	return nil
}

func (r *MemoryResourceRegistry) Restore() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.originals {
		r.values[k] = v
	}
	r.originals = nil
	return nil
}

func (r *MemoryResourceRegistry) Get(resource, attribute string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key(resource, attribute)]
	return v, ok
}
