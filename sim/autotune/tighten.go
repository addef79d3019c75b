// Package autotune implements the three BDR/PRM auto-tuning drivers
// (§6's out-of-scope-but-required tooling): Tighten, ComputeOptimalBDR,
// and PRMFromBDR, each ported from a same-named original_source Python
// module into the teacher's exported-function-plus-logrus-progress
// idiom.
package autotune

import (
	"github.com/sirupsen/logrus"

	"github.com/anshjyot/hsa/sim"
)

// candidatePeriods yields P0/2, P0/3, P0/4, ... (deduplicated, descending,
// stopping once P < 1), mirroring
// original_source/resource_tuner.py's _candidate_periods generator.
func candidatePeriods(p0 float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for k := 2; ; k++ {
		p := float64(int64(p0) / int64(k))
		if p < 1 {
			break
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Tighten searches for a smaller replenishment period for comp that
// preserves its current BDR bandwidth (alpha held constant, Q = alpha*P)
// while tightening its supply delay Δ = 2P(1-alpha). Ported from
// original_source/resource_tuner.py's tune_system: candidate periods are
// tried smallest-is-better; a candidate failing comp's own local BDR
// test is skipped, but a candidate that passes locally yet breaks the
// whole core's BDR test stops the search (the Python's "else: break").
// Mutates comp.Interface to the best (Q, P) found; a no-op if P0's own
// candidates never beat the starting point.
func Tighten(core *sim.Core, comp *sim.Component) error {
	alpha, _ := comp.Interface.AsBDR()
	q0, p0 := comp.Interface.AsPRM()

	bestQ, bestP := q0, p0

	for _, p := range candidatePeriods(p0) {
		q := alpha * p
		logrus.Debugf("tighten: component %s trying P=%g Q=%.2f", comp.ID, p, q)

		candidate, err := sim.NewPRM(q, p)
		if err != nil {
			continue
		}
		prior := comp.Interface
		comp.Interface = candidate

		compResult := sim.AnalyzeComponent(comp, core.SpeedFactor, sim.DefaultAnalysisConfig())
		if !compResult.BDRSchedulable {
			logrus.Debugf("tighten: component %s failed local BDR check at P=%g", comp.ID, p)
			comp.Interface = prior
			continue
		}

		allGood := coreStillSchedulable(core)
		if allGood {
			bestQ, bestP = q, p
			logrus.Debugf("tighten: component %s passed at P=%g Q=%.2f", comp.ID, p, q)
			continue
		}

		logrus.Debugf("tighten: component %s broke core schedulability at P=%g, stopping search", comp.ID, p)
		comp.Interface = prior
		break
	}

	if bestQ == q0 && bestP == p0 {
		return nil // no candidate improved; comp.Interface is unchanged
	}

	final, err := sim.NewPRM(bestQ, bestP)
	if err != nil {
		return err
	}
	comp.Interface = final
	return nil
}

// coreStillSchedulable re-runs the component analyzer over every
// top-level component on core and reports whether every one of them
// still passes its local BDR test.
func coreStillSchedulable(core *sim.Core) bool {
	for _, top := range core.Components {
		for _, c := range top.Flatten() {
			if !sim.AnalyzeComponent(c, core.SpeedFactor, sim.DefaultAnalysisConfig()).BDRSchedulable {
				return false
			}
		}
	}
	return true
}
