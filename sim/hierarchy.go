// sim/hierarchy.go
//
// The hierarchical analyzer (§4.5): orchestrates the component analyzer
// and the core analyzer over a whole SystemModel.
package sim

import "github.com/sirupsen/logrus"

// Verdict is the full analysis output over a SystemModel: the
// per-component result (§3), keyed by (core ID, component ID), plus the
// per-core arbitration result keyed by core ID.
type Verdict struct {
	// Components maps coreID -> componentID -> ComponentResult.
	Components map[string]map[string]*ComponentResult
	// Cores maps coreID -> CoreResult.
	Cores map[string]*CoreResult
}

// ComponentSchedulable reports the combined verdict for one component:
// its own BDR+PRM test passed AND (when computed) the core-level
// arbitration for its core also passed (§7: "a component marked
// unschedulable at either level marks all tasks inside it as
// component_schedulable = 0").
func (v *Verdict) ComponentSchedulable(coreID, componentID string) bool {
	comps, ok := v.Components[coreID]
	if !ok {
		return false
	}
	res, ok := comps[componentID]
	if !ok || !res.Schedulable() {
		return false
	}
	if core, ok := v.Cores[coreID]; ok {
		if ok, present := core.Schedulable[componentID]; present && !ok {
			return false
		}
	}
	return true
}

// Analyze runs the hierarchical schedulability analysis over the whole
// model (§4.5): for every core, every component (recursing into
// subcomponents) is analyzed, then the core-level arbitration test runs
// over the flattened server set. cfg governs WCRT/server-response
// iteration bounds (§7 kind 4); see DefaultAnalysisConfig.
func Analyze(model *SystemModel, cfg AnalysisConfig) *Verdict {
	verdict := &Verdict{
		Components: make(map[string]map[string]*ComponentResult),
		Cores:      make(map[string]*CoreResult),
	}

	for _, core := range model.Cores {
		logrus.Debugf("analyzing core %s (%s, %d top-level components)", core.ID, core.Scheduler, len(core.Components))

		compResults := make(map[string]*ComponentResult)
		for _, top := range core.Components {
			for _, comp := range top.Flatten() {
				res := AnalyzeComponent(comp, core.SpeedFactor, cfg)
				compResults[comp.ID] = res
				if !res.Schedulable() {
					logrus.Warnf("component %s on core %s is not locally schedulable", comp.ID, core.ID)
				}
			}
		}
		verdict.Components[core.ID] = compResults

		verdict.Cores[core.ID] = AnalyzeCore(core, compResults, cfg)
	}

	return verdict
}
