package template

import (
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/store"
)

// ExpandPrep inflates every queue activity that requires setup time into two
// linked entries: a prep block of the configured setup duration immediately
// followed by the main block. Both receive independently computed flex
// windows. Activities without a configured setup time pass through unchanged.
func (p *Parser) ExpandPrep(queue []model.TimeBlock, reg store.SetupRegistry) []model.TimeBlock {
	if reg == nil {
		return queue
	}
	out := make([]model.TimeBlock, 0, len(queue))
	for _, item := range queue {
		setup := reg.SetupDuration(item.EventName)
		if setup <= 0 {
			out = append(out, item)
			continue
		}
		prep := model.TimeBlock{
			Division:         item.Division,
			StartMinute:      item.StartMinute,
			EndMinute:        item.StartMinute + setup,
			EventName:        item.EventName + " Setup",
			Label:            item.EventName + " Setup",
			Role:             model.RoleActivity,
			IsPrepBlock:      true,
			MainActivityName: item.EventName,
		}
		prepFlex := model.NewFlexWindow(setup, p.FlexRatio)
		prep.Flex = &prepFlex

		main := item
		main.IsMainBlock = true
		main.HasPrep = true
		mainFlex := model.NewFlexWindow(main.Duration(), p.FlexRatio)
		main.Flex = &mainFlex

		// The prep shares the main's template start so the stable ordering
		// pass keeps them adjacent, prep first.
		out = append(out, prep, main)
	}
	return out
}
