// Package remap re-seats already-completed assignments onto a rebuilt
// timeline. Slots are matched by time window; matched entries are pinned so
// the optimizer never reassigns completed work.
package remap

import (
	"github.com/yisrose35/daily-camp-schedular-sub006/core/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// Remapper carries the matching tolerance and audit logger.
type Remapper struct {
	// MatchWindow is the largest combined start/end distance, in minutes,
	// accepted by the nearest-slot fallback.
	MatchWindow int
	Log         logger.Logger
}

// NewRemapper returns a remapper with the default 10-minute tolerance.
func NewRemapper(log logger.Logger) *Remapper {
	return &Remapper{MatchWindow: 10, Log: log}
}

// Stats reports the outcome of one remap pass.
type Stats struct {
	Remapped int
	Skipped  int
}

type window struct{ start, end int }

// Remap consumes the snapshot and produces the assignment grid for the new
// timeline. Only entries in slots that ended at or before the transition are
// carried over; later slots belong to the regenerated portion of the day.
// divisionOf maps a bunk identifier to its division key.
func (r *Remapper) Remap(snap model.RebuildSnapshot, newTimeline []model.TimeBlock, divisionOf func(string) string) (map[string][]model.AssignmentEntry, Stats) {
	var stats Stats
	out := make(map[string][]model.AssignmentEntry, len(snap.OldAssignments))

	oldByDivision := map[string][]model.TimeBlock{}
	newByDivision := map[string][]model.TimeBlock{}
	for _, d := range model.Divisions(snap.OldTimeline) {
		oldByDivision[d] = model.DivisionBlocks(snap.OldTimeline, d)
	}
	for _, d := range model.Divisions(newTimeline) {
		newByDivision[d] = model.DivisionBlocks(newTimeline, d)
	}

	for bunk, entries := range snap.OldAssignments {
		division := divisionOf(bunk)
		oldSlots := oldByDivision[division]
		newSlots := newByDivision[division]
		grid := make([]model.AssignmentEntry, len(newSlots))
		out[bunk] = grid
		if len(oldSlots) == 0 || len(newSlots) == 0 {
			continue
		}
		index := buildIndex(newSlots)

		processed := make([]bool, len(entries))
		for i, entry := range entries {
			if processed[i] || entry.Empty() || i >= len(oldSlots) {
				continue
			}
			if oldSlots[i].EndMinute > snap.TransitionMinute {
				// Regenerated portion: intentionally skipped.
				continue
			}
			target := r.matchSlot(index, newSlots, oldSlots[i])
			if target < 0 {
				stats.Skipped++
				processed[i] = true
				r.logf("bunk %s: no slot within %d minutes of %s for %q, entry dropped", bunk, r.MatchWindow, oldSlots[i].TimeLabel(), entry.ActivityName)
				continue
			}
			grid[target] = pin(entry)
			stats.Remapped++
			processed[i] = true

			// A multi-slot activity moves as a unit: follow contiguous
			// continuations of the same activity up to the cutover.
			for j := i + 1; j < len(entries) && j < len(oldSlots); j++ {
				next := entries[j]
				if !next.Continuation || next.ActivityName != entry.ActivityName {
					break
				}
				if oldSlots[j].EndMinute > snap.TransitionMinute {
					break
				}
				t := r.matchSlot(index, newSlots, oldSlots[j])
				processed[j] = true
				if t < 0 {
					stats.Skipped++
					r.logf("bunk %s: continuation of %q at %s unmatched, entry dropped", bunk, next.ActivityName, oldSlots[j].TimeLabel())
					continue
				}
				grid[t] = pin(next)
				stats.Remapped++
			}
		}
	}
	return out, stats
}

func pin(e model.AssignmentEntry) model.AssignmentEntry {
	e.Pinned = true
	e.PreservedFromBeforeCutover = true
	return e
}

func buildIndex(slots []model.TimeBlock) map[window]int {
	idx := make(map[window]int, len(slots))
	for i, b := range slots {
		w := window{b.StartMinute, b.EndMinute}
		if _, ok := idx[w]; !ok {
			idx[w] = i
		}
	}
	return idx
}

// matchSlot resolves the new slot for an old time window: exact lookup, then
// an exact-value scan, then the nearest slot by combined start/end distance
// within the tolerance.
func (r *Remapper) matchSlot(index map[window]int, slots []model.TimeBlock, old model.TimeBlock) int {
	if i, ok := index[window{old.StartMinute, old.EndMinute}]; ok {
		return i
	}
	for i, b := range slots {
		if b.StartMinute == old.StartMinute && b.EndMinute == old.EndMinute {
			return i
		}
	}
	best, bestDist := -1, r.MatchWindow+1
	for i, b := range slots {
		dist := abs(b.StartMinute-old.StartMinute) + abs(b.EndMinute-old.EndMinute)
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (r *Remapper) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Warnf(format, args...)
	}
}
