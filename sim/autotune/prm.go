package autotune

import (
	"math"

	"github.com/anshjyot/hsa/sim"
)

// PRMFromBDR computes a conservative PRM interface (Q, P) whose supply
// bound dominates a given BDR interface's supply bound over [0, horizon],
// ported from original_source/tune_prm_from_bdr.py's
// tune_prm_from_bdr. delta is derived from the task set the same way the
// Python does — half the shortest task period — since the caller
// supplies only alpha, not a paired delta.
//
// horizon defaults to 2*max(period) when <= 0.
func PRMFromBDR(alpha float64, tasks []*sim.Task, granularity float64, horizon float64) (q, p, delta float64) {
	var minPeriod, maxPeriod float64
	for i, t := range tasks {
		if i == 0 || t.Period < minPeriod {
			minPeriod = t.Period
		}
		if t.Period > maxPeriod {
			maxPeriod = t.Period
		}
	}
	delta = minPeriod / 2

	if horizon <= 0 {
		horizon = 2 * maxPeriod
	}

	steps := int(horizon / granularity)
	// Sample points run from 0 up to and including horizon.
	samples := steps + 1

	bestC, bestT := 0.0, 0.0
	minError := math.Inf(1)

	for i := 1; i < steps; i++ {
		t := roundTo(float64(i)*granularity, 6)
		if t <= 0 {
			continue
		}

		c := fitBudget(0, t, alpha, delta, granularity, samples)
		if !validSupply(c, t, alpha, delta, granularity, samples) {
			continue
		}

		err := c*(horizon/t) - alpha*(horizon-delta)
		if err < minError {
			bestC, bestT = c, t
			minError = err
		}
	}

	return bestC, bestT, delta
}

// fitBudget grows C to the largest per-point requirement sbf/max(1,k)
// over the sampled points, mirroring the Python's needed-budget bump.
// A point before the first period boundary (k == 0) with positive BDR
// supply cannot be covered by any C; validSupply reports such cases.
func fitBudget(c, period, alpha, delta, granularity float64, steps int) float64 {
	for step := 0; step < steps; step++ {
		t := roundTo(float64(step)*granularity, 6)
		sbfBDR := math.Max(0, alpha*(t-delta))
		k := math.Floor(t / period)
		supply := k * c
		if supply < sbfBDR-1e-6 {
			divisor := math.Max(1, k)
			needed := sbfBDR / divisor
			if needed > c {
				c = needed
			}
		}
	}
	return c
}

func validSupply(c, period, alpha, delta, granularity float64, steps int) bool {
	for step := 0; step < steps; step++ {
		t := roundTo(float64(step)*granularity, 6)
		sbfBDR := math.Max(0, alpha*(t-delta))
		supply := math.Floor(t/period) * c
		if supply < sbfBDR-1e-6 {
			return false
		}
	}
	return true
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
