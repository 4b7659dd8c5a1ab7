package stack

import (
	"sort"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// Stacker packs an activity queue plus fixed blocks into the time remaining
// in a division's day. Placement is a greedy in-order pass followed by
// slack absorption, gap distribution, squeeze repair and prep/main coupling
// validation. The wall is inviolable: no placed block ever ends past it.
type Stacker struct {
	// SmallGapMax is the largest trailing gap absorbed by growing the last
	// activity instead of redistributing.
	SmallGapMax int
	// LPFirst enables trying the simplex-based gap distributor before the
	// iterative one.
	LPFirst bool
	Log     logger.Logger
}

// NewStacker returns a stacker with default thresholds.
func NewStacker(log logger.Logger) *Stacker {
	return &Stacker{SmallGapMax: 10, Log: log}
}

// Result is the outcome of one stacking run.
type Result struct {
	Blocks  []model.TimeBlock
	Dropped []string
}

// Stack places the prep-expanded activity queue and the fixed blocks between
// start and wall for the given division. wallBlock, when supplied, is
// re-synthesized at the wall with its template duration and appended to the
// output.
func (s *Stacker) Stack(start, wall int, queue, fixed []model.TimeBlock, wallBlock *model.TimeBlock, division string) Result {
	res := Result{}
	if wall <= start {
		for _, q := range queue {
			res.Dropped = append(res.Dropped, q.EventName)
		}
		if wallBlock != nil {
			res.Blocks = append(res.Blocks, synthWall(*wallBlock, wall))
		}
		return res
	}

	items := s.assemble(start, queue, fixed)
	list := s.place(start, wall, items, division, &res)

	if gap := trailingGap(list, start, wall); gap > 0 {
		if !s.absorbSmallGap(list, gap) {
			s.distribute(list, start, gap, division)
		} else {
			reflow(list, start)
		}
	}

	list = s.squeezeRepair(list, start, wall, division, &res)
	list = s.validateCoupling(list, start, wall, division, &res)

	if gap := trailingGap(list, start, wall); gap > 0 {
		s.distribute(list, start, gap, division)
	}

	for _, p := range list {
		res.Blocks = append(res.Blocks, p.emit())
	}
	if wallBlock != nil {
		res.Blocks = append(res.Blocks, synthWall(*wallBlock, wall))
	}
	return res
}

// assemble keeps activities not already entirely in the past and fixed blocks
// intersecting the remaining day, ordered by template start. The stable sort
// preserves the template's intended relative order even though absolute times
// are recomputed.
func (s *Stacker) assemble(start int, queue, fixed []model.TimeBlock) []model.TimeBlock {
	var items []model.TimeBlock
	for _, q := range queue {
		if q.EndMinute > start {
			items = append(items, q)
		}
	}
	for _, f := range fixed {
		if f.EndMinute > start {
			items = append(items, f)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].StartMinute < items[j].StartMinute })
	return items
}

// place is the greedy forward pass: each item is placed at the cursor with
// its ideal duration, clipped to the time left before the wall, or dropped
// when even its minimum no longer fits.
func (s *Stacker) place(start, wall int, items []model.TimeBlock, division string, res *Result) []*placed {
	var list []*placed
	cursor := start
	for _, item := range items {
		remaining := wall - cursor
		if remaining <= 0 {
			s.drop(res, division, item.EventName, "no time left before wall")
			continue
		}
		flex := flexFor(item)
		if remaining < flex.Min {
			s.drop(res, division, item.EventName, "does not fit even at minimum length")
			continue
		}
		dur := flex.Ideal
		if dur > remaining {
			dur = remaining
		}
		list = append(list, &placed{
			block:    item,
			flex:     flex,
			start:    cursor,
			end:      cursor + dur,
			duration: dur,
			original: item.Duration(),
		})
		cursor += dur
	}
	return list
}

// absorbSmallGap grows the last block by the gap when the gap is small, the
// last block is elastic and the growth stays within its flex window.
func (s *Stacker) absorbSmallGap(list []*placed, gap int) bool {
	if gap <= 0 || gap > s.SmallGapMax || len(list) == 0 {
		return false
	}
	last := list[len(list)-1]
	if !last.elastic() || last.duration+gap > last.flex.Max {
		return false
	}
	last.duration += gap
	return true
}

// squeezeRepair scans from the end for activities squeezed below their
// minimum, recovering minutes from earlier activities' slack or, failing
// that, dropping the under-sized block.
func (s *Stacker) squeezeRepair(list []*placed, start, wall int, division string, res *Result) []*placed {
	for i := len(list) - 1; i >= 0; i-- {
		p := list[i]
		if !p.elastic() || p.duration >= p.flex.Min {
			continue
		}
		needed := p.flex.Min - p.duration
		if s.compressEarlier(list, i, needed) {
			p.duration = p.flex.Min
			reflow(list, start)
			continue
		}
		s.drop(res, division, p.block.EventName, "squeezed below minimum with no recoverable slack")
		list = append(list[:i], list[i+1:]...)
		reflow(list, start)
		if gap := trailingGap(list, start, wall); gap > 0 {
			s.distribute(list, start, gap, division)
		}
	}
	return list
}

// compressEarlier walks backward from index shrinking earlier elastic blocks
// toward their minimums. The plan is applied only when the full amount can be
// recovered.
func (s *Stacker) compressEarlier(list []*placed, index, needed int) bool {
	type cut struct {
		p      *placed
		amount int
	}
	var plan []cut
	remaining := needed
	for j := index - 1; j >= 0 && remaining > 0; j-- {
		q := list[j]
		if !q.elastic() {
			continue
		}
		slack := q.duration - q.flex.Min
		if slack <= 0 {
			continue
		}
		take := slack
		if take > remaining {
			take = remaining
		}
		plan = append(plan, cut{p: q, amount: take})
		remaining -= take
	}
	if remaining > 0 {
		return false
	}
	for _, c := range plan {
		c.p.duration -= c.amount
	}
	return true
}

// validateCoupling enforces prep/main closure with a fixed-point loop: a prep
// without its main is dropped, a main without its prep survives standalone.
func (s *Stacker) validateCoupling(list []*placed, start, wall int, division string, res *Result) []*placed {
	for {
		changed := false
		mains := map[string]bool{}
		preps := map[string]bool{}
		for _, p := range list {
			if p.block.IsMainBlock {
				mains[p.block.EventName] = true
			}
			if p.block.IsPrepBlock {
				preps[p.block.MainActivityName] = true
			}
		}
		for i := 0; i < len(list); i++ {
			p := list[i]
			if p.block.IsPrepBlock && !mains[p.block.MainActivityName] {
				s.drop(res, division, p.block.EventName, "prep block without its main activity")
				list = append(list[:i], list[i+1:]...)
				changed = true
				i--
				continue
			}
			if p.block.IsMainBlock && p.block.HasPrep && !preps[p.block.EventName] {
				p.block.HasPrep = false
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	reflow(list, start)
	if gap := trailingGap(list, start, wall); gap > 0 {
		s.distribute(list, start, gap, division)
	}
	return list
}

func (s *Stacker) drop(res *Result, division, event, reason string) {
	res.Dropped = append(res.Dropped, event)
	if s.Log != nil {
		s.Log.Warnf("division %s: dropped %q: %s", division, event, reason)
	}
}

func synthWall(wallBlock model.TimeBlock, wall int) model.TimeBlock {
	out := wallBlock
	out.StartMinute = wall
	out.EndMinute = wall + wallBlock.Duration()
	out.Role = model.RoleWall
	out.Label = out.EventName
	return out
}
