// Package scenarios runs end-of-pipeline QA cases defined in YAML files:
// each file describes a live day, a target template and the expected
// per-division rebuild outcome.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/clock"
	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

// BlockDef is one timeline or template block in scenario form. Times are
// clock strings.
type BlockDef struct {
	Division string `yaml:"division"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Event    string `yaml:"event"`
	Type     string `yaml:"type,omitempty"`
}

// ToRaw converts the definition to a template block.
func (b BlockDef) ToRaw() model.RawBlock {
	return model.RawBlock{
		Division:  b.Division,
		StartTime: b.Start,
		EndTime:   b.End,
		Event:     b.Event,
		Type:      b.Type,
	}
}

// ToLive converts the definition to a live timeline block.
func (b BlockDef) ToLive() (model.TimeBlock, error) {
	start, ok := clock.ParseClockString(b.Start)
	if !ok {
		return model.TimeBlock{}, fmt.Errorf("bad start %q for %q", b.Start, b.Event)
	}
	end, ok := clock.ParseClockString(b.End)
	if !ok {
		return model.TimeBlock{}, fmt.Errorf("bad end %q for %q", b.End, b.Event)
	}
	role := model.RoleActivity
	switch b.Type {
	case "fixed":
		role = model.RoleFixed
	case "wall":
		role = model.RoleWall
	}
	return model.TimeBlock{
		Division:    b.Division,
		StartMinute: start,
		EndMinute:   end,
		EventName:   b.Event,
		Label:       b.Event,
		Role:        role,
	}, nil
}

// DivisionExpect is the expected rebuild outcome for one division.
type DivisionExpect struct {
	Preserved int    `yaml:"preserved"`
	Stacked   int    `yaml:"stacked"`
	Dropped   int    `yaml:"dropped"`
	Skipped   string `yaml:"skipped,omitempty"`
}

// Scenario is one QA case.
type Scenario struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description,omitempty"`
	Transition  string                    `yaml:"transition"`
	Template    []BlockDef                `yaml:"template"`
	Live        []BlockDef                `yaml:"live,omitempty"`
	Setup       map[string]int            `yaml:"setup,omitempty"`
	Expected    map[string]DivisionExpect `yaml:"expected"`
}

// LiveBlocks materializes the scenario's live timeline.
func (sc *Scenario) LiveBlocks() ([]model.TimeBlock, error) {
	var out []model.TimeBlock
	for _, b := range sc.Live {
		blk, err := b.ToLive()
		if err != nil {
			return nil, err
		}
		out = append(out, blk)
	}
	return out, nil
}

// RawTemplate materializes the scenario's template blocks.
func (sc *Scenario) RawTemplate() []model.RawBlock {
	out := make([]model.RawBlock, len(sc.Template))
	for i, b := range sc.Template {
		out[i] = b.ToRaw()
	}
	return out
}

// Load reads one scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
