package stack

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrInfeasible indicates the LP had no feasible grant vector consuming the
// whole gap within the blocks' headroom.
var ErrInfeasible = errors.New("lp infeasible")

// lpSolve points to the function used to solve the LP. It can be overridden
// in tests to simulate solver failures.
var lpSolve = solveLP

// lpDistribute solves the gap distribution as a linear program: maximise the
// weighted grant, favouring longer template activities, subject to per-block
// headroom and exact gap consumption. On success the integral grants are
// applied to the placed blocks; any failure leaves the list untouched so the
// iterative distributor can run instead.
func lpDistribute(list []*placed, gap int) error {
	var idx []int
	var weights, headroom []float64
	for i, p := range list {
		if !p.elastic() {
			continue
		}
		h := p.flex.Max - p.duration
		if h <= 0 {
			continue
		}
		idx = append(idx, i)
		weights = append(weights, float64(p.flex.Ideal))
		headroom = append(headroom, float64(h))
	}
	if len(idx) == 0 {
		return ErrInfeasible
	}
	total := 0.0
	for _, h := range headroom {
		total += h
	}
	if total < float64(gap) {
		return ErrInfeasible
	}

	sol, err := lpSolve(weights, headroom, float64(gap))
	if err != nil {
		return err
	}

	grants := integralGrants(sol, headroom, gap)
	if grants == nil {
		return ErrInfeasible
	}
	for k, i := range idx {
		list[i].duration += grants[k]
	}
	return nil
}

// solveLP maximises the weighted grant subject to headroom bounds and the
// gap-consumption equality.
func solveLP(weights, headroom []float64, gap float64) ([]float64, error) {
	c := make([]float64, len(weights))
	for i, w := range weights {
		c[i] = -w
	}

	g := mat.NewDense(len(headroom), len(headroom), nil)
	h := make([]float64, len(headroom))
	for i, room := range headroom {
		g.Set(i, i, 1)
		h[i] = room
	}

	a := mat.NewDense(1, len(headroom), nil)
	for i := range headroom {
		a.Set(0, i, 1)
	}
	b := []float64{gap}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	return sol, err
}

// integralGrants rounds the fractional solution down and hands out the
// leftover minutes to blocks that still have headroom. Nil is returned when
// the rounded grants cannot consume the gap exactly.
func integralGrants(sol, headroom []float64, gap int) []int {
	grants := make([]int, len(headroom))
	sum := 0
	for i := range headroom {
		v := sol[i]
		if v < 0 {
			v = 0
		}
		if v > headroom[i] {
			v = headroom[i]
		}
		grants[i] = int(math.Floor(v + 1e-9))
		sum += grants[i]
	}
	for i := range grants {
		if sum >= gap {
			break
		}
		room := int(headroom[i]) - grants[i]
		if room <= 0 {
			continue
		}
		add := gap - sum
		if add > room {
			add = room
		}
		grants[i] += add
		sum += add
	}
	if sum != gap {
		return nil
	}
	return grants
}
