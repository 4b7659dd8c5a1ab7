package stack

// distribute spreads gap minutes across the placed blocks. When LPFirst is
// set the simplex distributor is tried first and the iterative one serves as
// fallback; both consume the gap exactly whenever any elastic block exists.
func (s *Stacker) distribute(list []*placed, start, gap int, division string) {
	if gap <= 0 {
		reflow(list, start)
		return
	}
	if s.LPFirst {
		if err := lpDistribute(list, gap); err == nil {
			reflow(list, start)
			return
		} else if s.Log != nil {
			s.Log.Debugf("division %s: lp distribution failed (%v), using iterative pass", division, err)
		}
	}
	s.iterativeDistribute(list, start, gap, division)
}

// iterativeDistribute repeatedly splits the gap evenly across blocks that
// still have headroom, capping each grant at the block's remaining headroom.
// When nothing is stretchable the whole remainder is dumped onto the last
// elastic block regardless of its maximum, so the day never ends with dead
// time before the wall.
func (s *Stacker) iterativeDistribute(list []*placed, start, gap int, division string) {
	for gap > 0 {
		var stretchable []*placed
		for _, p := range list {
			if p.elastic() && p.duration < p.flex.Max {
				stretchable = append(stretchable, p)
			}
		}
		if len(stretchable) == 0 {
			s.dumpRemainder(list, gap, division)
			break
		}
		share := gap / len(stretchable)
		if share < 1 {
			share = 1
		}
		granted := 0
		for _, p := range stretchable {
			if gap <= 0 {
				break
			}
			g := p.flex.Max - p.duration
			if g > share {
				g = share
			}
			if g > gap {
				g = gap
			}
			if g <= 0 {
				continue
			}
			p.duration += g
			gap -= g
			granted += g
		}
		if granted == 0 {
			s.dumpRemainder(list, gap, division)
			break
		}
	}
	reflow(list, start)
}

// dumpRemainder is the last resort: the final elastic block takes the whole
// remainder uncapped rather than leaving a hole before the wall.
func (s *Stacker) dumpRemainder(list []*placed, gap int, division string) {
	idx := lastElastic(list)
	if idx < 0 {
		if s.Log != nil {
			s.Log.Warnf("division %s: %d minute gap before wall with no elastic block to absorb it", division, gap)
		}
		return
	}
	p := list[idx]
	p.duration += gap
	if s.Log != nil && p.duration > p.flex.Max {
		s.Log.Infof("division %s: %q stretched to %d minutes, past its flex max %d, to close the day", division, p.block.EventName, p.duration, p.flex.Max)
	}
}
