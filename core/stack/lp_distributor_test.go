package stack

import (
	"errors"
	"testing"

	"github.com/yisrose35/daily-camp-schedular-sub006/core/model"
)

func TestLPDistributeConsumesGapExactly(t *testing.T) {
	a := place(activity("Juniors", "Swim", 0, 60), 0, 60)
	b := place(activity("Juniors", "Crafts", 60, 120), 60, 60)
	if err := lpDistribute([]*placed{a, b}, 20); err != nil {
		t.Fatalf("lpDistribute: %v", err)
	}
	total := a.duration + b.duration
	if total != 140 {
		t.Fatalf("gap not consumed exactly: total %d want 140", total)
	}
	if a.duration > a.flex.Max || b.duration > b.flex.Max {
		t.Fatalf("grant exceeded headroom: %d %d", a.duration, b.duration)
	}
}

func TestLPDistributeInfeasible(t *testing.T) {
	a := place(activity("Juniors", "Swim", 0, 60), 0, 60)
	// Headroom is 15; a 30 minute gap cannot be consumed.
	if err := lpDistribute([]*placed{a}, 30); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
	if a.duration != 60 {
		t.Fatalf("failed distribution must leave the list untouched, got %d", a.duration)
	}
}

func TestLPDistributeNoElasticBlocks(t *testing.T) {
	f := place(fixed("Juniors", "Lunch", 0, 30), 0, 30)
	if err := lpDistribute([]*placed{f}, 10); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestStackFallsBackWhenLPFails(t *testing.T) {
	orig := lpSolve
	lpSolve = func([]float64, []float64, float64) ([]float64, error) {
		return nil, errors.New("solver exploded")
	}
	defer func() { lpSolve = orig }()

	s := NewStacker(nil)
	s.LPFirst = true
	queue := []model.TimeBlock{activity("Juniors", "Swim", 0, 60)}
	res := s.Stack(0, 75, queue, nil, nil, "Juniors")
	if len(res.Blocks) != 1 || res.Blocks[0].EndMinute != 75 {
		t.Fatalf("iterative fallback should still close the day, got %v", res.Blocks)
	}
}

func TestIterativeDistributeDumpsRemainder(t *testing.T) {
	s := NewStacker(nil)
	a := place(activity("Juniors", "Swim", 0, 60), 0, 60)
	// Gap of 30 exceeds the 15 minutes of headroom; the remainder lands on
	// the last elastic block uncapped.
	s.iterativeDistribute([]*placed{a}, 0, 30, "Juniors")
	if a.duration != 90 {
		t.Fatalf("duration = %d want 90", a.duration)
	}
}

func TestIntegralGrants(t *testing.T) {
	grants := integralGrants([]float64{6.6, 13.4}, []float64{10, 15}, 20)
	if grants == nil {
		t.Fatal("expected grants")
	}
	if grants[0]+grants[1] != 20 {
		t.Fatalf("grants %v do not sum to 20", grants)
	}
	if grants[0] > 10 || grants[1] > 15 {
		t.Fatalf("grants %v exceed headroom", grants)
	}
	if integralGrants([]float64{1, 1}, []float64{1, 1}, 20) != nil {
		t.Fatal("expected nil when the gap cannot be consumed")
	}
}
