// Package assign implements the greedy core-to-component assignment
// auto-tuner (§6's out-of-scope-but-required tooling, not a spec.md
// module proper). Grounded on
// original_source/greedy_core_assigner.py's assign_components_to_cores:
// same descending-alpha-first greedy bin-packing, restructured from the
// Python's in-place dict mutation into explicit value returns over
// sim.SystemModel.
package assign

import (
	"sort"

	"github.com/anshjyot/hsa/sim"
)

// Assignment records which core a top-level component was assigned to.
type Assignment struct {
	ComponentID string
	CoreID      string
}

// candidate is one top-level component competing for a core slot.
type candidate struct {
	comp  *sim.Component
	alpha float64
}

// Assign greedily assigns every top-level (core-less) component in
// components to the least-loaded feasible core in cores, sorted by
// descending BDR bandwidth (alpha) first, mirroring the Python's
// "pack the hungriest component first" heuristic. Mutates each
// assigned component's CoreID in place and also returns the assignment
// list for logging, matching the Python's dual in-place/by-value
// contract.
//
// A component's bandwidth demand on a given core is scaled by that
// core's SpeedFactor (alpha/speed), since faster cores absorb more
// nominal bandwidth per unit of supplied alpha.
func Assign(cores []*sim.Core, components []*sim.Component) []Assignment {
	candidates := make([]candidate, 0, len(components))
	for _, c := range components {
		alpha, _ := c.Interface.AsBDR()
		candidates = append(candidates, candidate{comp: c, alpha: alpha})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].alpha > candidates[j].alpha
	})

	loads := make(map[string]float64, len(cores))
	speeds := make(map[string]float64, len(cores))
	for _, core := range cores {
		loads[core.ID] = 0
		speeds[core.ID] = core.SpeedFactor
	}

	var assignments []Assignment
	for _, cand := range candidates {
		bestCore := ""
		minLoad := -1.0
		for _, core := range cores {
			effAlpha := cand.alpha / speeds[core.ID]
			projected := loads[core.ID] + effAlpha
			if projected <= 1.0+1e-9 {
				if minLoad < 0 || projected < minLoad {
					bestCore = core.ID
					minLoad = projected
				}
			}
		}
		if bestCore == "" {
			// No feasible core: fall back to the least-loaded one anyway
			// (Python's min(core_loads, key=core_loads.get) fallback), so
			// every component still gets an assignment to report.
			least := -1.0
			for _, core := range cores {
				if least < 0 || loads[core.ID] < least {
					bestCore = core.ID
					least = loads[core.ID]
				}
			}
		}

		loads[bestCore] += cand.alpha / speeds[bestCore]
		cand.comp.CoreID = bestCore
		assignments = append(assignments, Assignment{ComponentID: cand.comp.ID, CoreID: bestCore})
	}

	return assignments
}
