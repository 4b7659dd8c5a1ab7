package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// FileScheduleStore persists the day's live timeline and assignment grid to
// a single JSON file. Writes go through a temp file and rename so a crashed
// save never leaves a half-written day.
type FileScheduleStore struct {
	path string
	mu   sync.Mutex
}

type dayFile struct {
	Timeline    []model.TimeBlock                  `json:"timeline"`
	Assignments map[string][]model.AssignmentEntry `json:"assignments"`
	Bunks       map[string]string                  `json:"bunks,omitempty"`
}

// NewFileScheduleStore creates the backing file when absent.
func NewFileScheduleStore(path string) (*FileScheduleStore, error) {
	s := &FileScheduleStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(dayFile{Assignments: map[string][]model.AssignmentEntry{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileScheduleStore) LoadTimeline() ([]model.TimeBlock, error) {
	d, err := s.read()
	if err != nil {
		return nil, err
	}
	return d.Timeline, nil
}

func (s *FileScheduleStore) LoadAssignments() (map[string][]model.AssignmentEntry, error) {
	d, err := s.read()
	if err != nil {
		return nil, err
	}
	if d.Assignments == nil {
		d.Assignments = map[string][]model.AssignmentEntry{}
	}
	return d.Assignments, nil
}

func (s *FileScheduleStore) SaveTimeline(blocks []model.TimeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.readLocked()
	if err != nil {
		return err
	}
	d.Timeline = blocks
	return s.write(d)
}

func (s *FileScheduleStore) SaveAssignments(a map[string][]model.AssignmentEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.readLocked()
	if err != nil {
		return err
	}
	d.Assignments = a
	return s.write(d)
}

// DivisionOf resolves a bunk's division from the stored bunk table, falling
// back to the prefix before the first dash in the bunk name.
func (s *FileScheduleStore) DivisionOf(bunk string) string {
	d, err := s.read()
	if err == nil {
		if div, ok := d.Bunks[bunk]; ok {
			return div
		}
	}
	if i := strings.Index(bunk, "-"); i > 0 {
		return bunk[:i]
	}
	return bunk
}

func (s *FileScheduleStore) read() (dayFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileScheduleStore) readLocked() (dayFile, error) {
	var d dayFile
	b, err := os.ReadFile(s.path)
	if err != nil {
		return d, fmt.Errorf("read schedule file: %w", err)
	}
	if len(b) == 0 {
		return dayFile{Assignments: map[string][]model.AssignmentEntry{}}, nil
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("decode schedule file: %w", err)
	}
	return d, nil
}

func (s *FileScheduleStore) write(d dayFile) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
