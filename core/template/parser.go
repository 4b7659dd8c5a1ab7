package template

import (
	"sort"
	"strings"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/logger"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// ParsedDivision is the parser output for one division: the ordered activity
// queue, the rigid blocks, and the wall time when the template defines one.
type ParsedDivision struct {
	Division      string
	ActivityQueue []model.TimeBlock
	FixedBlocks   []model.TimeBlock
	WallBlock     *model.TimeBlock
	WallTime      int
	HasWall       bool
}

// Parser converts raw template blocks into per-division parse results.
type Parser struct {
	Classifier *Classifier
	// FlexRatio is the elastic deviation applied to activity durations.
	FlexRatio float64
	Log       logger.Logger
}

// NewParser returns a parser with the default classifier and a +/-25% flex
// window.
func NewParser(log logger.Logger) *Parser {
	return &Parser{Classifier: NewClassifier(), FlexRatio: 0.25, Log: log}
}

// Parse groups the raw blocks by division and parses each group.
func (p *Parser) Parse(raw []model.RawBlock) map[string]*ParsedDivision {
	byDivision := map[string][]model.RawBlock{}
	var order []string
	for _, b := range raw {
		if _, ok := byDivision[b.Division]; !ok {
			order = append(order, b.Division)
		}
		byDivision[b.Division] = append(byDivision[b.Division], b)
	}
	out := make(map[string]*ParsedDivision, len(order))
	for _, div := range order {
		out[div] = p.ParseDivision(byDivision[div], div)
	}
	return out
}

// ParseDivision parses one division's raw blocks: time parsing, ordering,
// split expansion, role classification and overlap consolidation.
func (p *Parser) ParseDivision(raw []model.RawBlock, division string) *ParsedDivision {
	type timed struct {
		raw        model.RawBlock
		start, end int
	}
	var items []timed
	for _, b := range raw {
		start, ok := clock.ParseClockString(b.StartTime)
		if !ok {
			p.warnf("division %s: unparsable start %q for %q, block discarded", division, b.StartTime, b.Event)
			continue
		}
		end, ok := clock.ParseClockString(b.EndTime)
		if !ok {
			p.warnf("division %s: unparsable end %q for %q, block discarded", division, b.EndTime, b.Event)
			continue
		}
		if end <= start {
			p.warnf("division %s: %q ends at %d before start %d, block discarded", division, b.Event, end, start)
			continue
		}
		items = append(items, timed{raw: b, start: start, end: end})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })

	res := &ParsedDivision{Division: division}
	var blocks []model.TimeBlock
	for _, it := range items {
		if p.Classifier.IsSplit(it.raw) {
			blocks = append(blocks, p.expandSplit(it.raw, division, it.start, it.end)...)
			continue
		}
		role := p.Classifier.Classify(it.raw)
		if role == model.RoleWall && res.HasWall {
			// Only the first wall match counts; later ones are rigid blocks.
			role = model.RoleFixed
		}
		blk := model.TimeBlock{
			Division:    division,
			StartMinute: it.start,
			EndMinute:   it.end,
			EventName:   it.raw.Event,
			Label:       it.raw.Event,
			Role:        role,
		}
		if role == model.RoleActivity {
			flex := model.NewFlexWindow(blk.Duration(), p.FlexRatio)
			blk.Flex = &flex
		}
		if role == model.RoleWall && !res.HasWall {
			res.HasWall = true
			res.WallTime = blk.StartMinute
			wall := blk
			res.WallBlock = &wall
			continue
		}
		blocks = append(blocks, blk)
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].StartMinute < blocks[j].StartMinute })
	blocks = p.consolidate(blocks, division)

	for _, b := range blocks {
		switch b.Role {
		case model.RoleActivity, model.RoleSplitHalf:
			res.ActivityQueue = append(res.ActivityQueue, b)
		default:
			res.FixedBlocks = append(res.FixedBlocks, b)
		}
	}
	return res
}

// expandSplit replaces a split tile with two half-duration activity blocks
// meeting at the parent interval's midpoint.
func (p *Parser) expandSplit(raw model.RawBlock, division string, start, end int) []model.TimeBlock {
	first, second := splitNames(raw)
	mid := (start + end) / 2
	halves := []model.TimeBlock{
		{Division: division, StartMinute: start, EndMinute: mid, EventName: first, SplitHalf: 1, SplitSiblingName: second},
		{Division: division, StartMinute: mid, EndMinute: end, EventName: second, SplitHalf: 2, SplitSiblingName: first},
	}
	for i := range halves {
		halves[i].Role = model.RoleSplitHalf
		halves[i].SplitParentName = raw.Event
		halves[i].Label = halves[i].EventName
		flex := model.NewFlexWindow(halves[i].Duration(), p.FlexRatio)
		halves[i].Flex = &flex
	}
	return halves
}

func splitNames(raw model.RawBlock) (string, string) {
	if len(raw.SubEvents) >= 2 {
		return strings.TrimSpace(raw.SubEvents[0]), strings.TrimSpace(raw.SubEvents[1])
	}
	parts := strings.SplitN(raw.Event, "/", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return raw.Event + " (1st half)", raw.Event + " (2nd half)"
}

// consolidate drops exact duplicates and reports residual overlaps. Split
// halves are never merged with each other; other overlapping pairs are kept
// as-is because downstream consumers key by exact time range.
func (p *Parser) consolidate(blocks []model.TimeBlock, division string) []model.TimeBlock {
	var out []model.TimeBlock
	for _, b := range blocks {
		if n := len(out); n > 0 {
			prev := out[n-1]
			sameWindow := prev.StartMinute == b.StartMinute && prev.EndMinute == b.EndMinute
			mergeable := b.Role != model.RoleSplitHalf && prev.Role != model.RoleSplitHalf
			if sameWindow && mergeable && (b.Role == model.RoleActivity || b.Role == model.RoleFixed) && b.Role == prev.Role {
				p.warnf("division %s: duplicate %s block %q at %s dropped", division, b.Role, b.EventName, b.TimeLabel())
				continue
			}
			if prev.EndMinute > b.StartMinute {
				p.warnf("division %s: %q overlaps %q at %s, keeping both", division, prev.EventName, b.EventName, b.TimeLabel())
			}
		}
		out = append(out, b)
	}
	return out
}

func (p *Parser) warnf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Warnf(format, args...)
	}
}
