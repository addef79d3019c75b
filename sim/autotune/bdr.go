package autotune

import (
	"math"

	"github.com/anshjyot/hsa/sim"
)

// ComputeOptimalBDR searches for the smallest-bandwidth BDR interface
// (alpha, delta) under which tasks remain schedulable, ported from
// original_source/bdr_auto_generator.py's compute_optimal_bdr: for each
// candidate delta (stepped by step from 0 to horizon), binary-search the
// minimal feasible alpha, then keep the (alpha, delta) pair with the
// smallest alpha seen across all deltas.
//
// horizon defaults to ceil(sum of task periods) when <= 0, matching the
// Python's fallback.
func ComputeOptimalBDR(tasks []*sim.Task, sched sim.Scheduler, horizon float64, step float64) (alpha, delta float64) {
	if horizon <= 0 {
		var sum float64
		for _, t := range tasks {
			sum += t.Period
		}
		horizon = math.Ceil(sum)
	}

	bestAlpha := 1.0
	bestDelta := 0.0

	steps := int(horizon/step) + 1
	for i := 0; i < steps; i++ {
		d := float64(i) * step
		feasibleAlpha, ok := feasibleAlphaAt(tasks, sched, d, horizon)
		if ok && feasibleAlpha < bestAlpha {
			bestAlpha = feasibleAlpha
			bestDelta = d
		}
	}

	return bestAlpha, bestDelta
}

// feasibleAlphaAt binary-searches the minimal alpha in [0,1] such that
// SBF-BDR(alpha, delta, t) >= DBF(tasks, t) for every integer t in
// [1, horizon], mirroring the Python's inner while-loop.
func feasibleAlphaAt(tasks []*sim.Task, sched sim.Scheduler, delta, horizon float64) (float64, bool) {
	lo, hi := 0.0, 1.0
	var feasible float64
	found := false

	for hi-lo > 1e-4 {
		mid := (lo + hi) / 2.0
		ok := true
		for t := 1; t <= int(horizon); t++ {
			dbf := sim.DBF(sched, tasks, float64(t))
			sbf := mid * math.Max(0, float64(t)-delta)
			if dbf > sbf+1e-9 {
				ok = false
				break
			}
		}
		if ok {
			feasible = mid
			found = true
			hi = mid
		} else {
			lo = mid
		}
	}

	return feasible, found
}
