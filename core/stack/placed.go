package stack

import (
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// placed is a queue item after allocation. It is mutated in place through the
// compression and distribution phases and finalized into an output TimeBlock
// at the end of a stacking run.
type placed struct {
	block    model.TimeBlock
	flex     model.FlexWindow
	start    int
	end      int
	duration int
	original int
}

// elastic reports whether the block participates in stretching and
// compression. Fixed blocks carry a degenerate flex window and never move.
func (p *placed) elastic() bool {
	return p.block.Role == model.RoleActivity || p.block.Role == model.RoleSplitHalf
}

// flexFor returns the block's flex window, degenerate for rigid blocks.
func flexFor(b model.TimeBlock) model.FlexWindow {
	if (b.Role == model.RoleActivity || b.Role == model.RoleSplitHalf) && b.Flex != nil {
		return *b.Flex
	}
	d := b.Duration()
	return model.FlexWindow{Min: d, Max: d, Ideal: d}
}

// reflow recomputes every placed block's position by walking the list
// sequentially from start.
func reflow(list []*placed, start int) {
	cursor := start
	for _, p := range list {
		p.start = cursor
		p.end = cursor + p.duration
		cursor = p.end
	}
}

// lastElastic returns the index of the last elastic block, or -1.
func lastElastic(list []*placed) int {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].elastic() {
			return i
		}
	}
	return -1
}

// trailingGap returns the unfilled time between the end of the last placed
// block and the wall.
func trailingGap(list []*placed, start, wall int) int {
	if len(list) == 0 {
		return wall - start
	}
	return wall - list[len(list)-1].end
}

// emit converts a placed block into its final output form.
func (p *placed) emit() model.TimeBlock {
	out := p.block
	out.StartMinute = p.start
	out.EndMinute = p.end
	out.FlexApplied = p.duration != p.original
	out.Label = out.EventName
	return out
}
