// sim/core.go
//
// The core analyzer (§4.4): verifies that the set of component-servers
// on a core fit together under that core's top-level scheduler.
package sim

import "math"

// CoreResult reports, per component ID on the core, whether that
// component's server survives core-level arbitration. A component whose
// local BDR test already failed is never evaluated here (§4.4
// precondition) and is simply absent/false.
type CoreResult struct {
	Schedulable map[string]bool
}

// AnalyzeCore runs the core-level arbitration test (§4.4). componentResults
// must contain the already-computed local BDR verdict for every component
// on this core (including nested subcomponents), keyed by component ID;
// AnalyzeCore does not recompute it.
//
// Precondition (§4.4): every component on the core must already have
// passed its local BDR test. If any component failed locally, the core
// verdict is not computed and CoreResult.Schedulable is empty — callers
// keep the components' local verdicts as-is. cfg bounds the FPS/RM
// server response-time iteration the same way it bounds the per-task
// WCRT iteration in AnalyzeComponent.
func AnalyzeCore(core *Core, componentResults map[string]*ComponentResult, cfg AnalysisConfig) *CoreResult {
	servers := core.FlattenedServers()

	for _, s := range servers {
		res := componentResults[s.Component.ID]
		if res == nil || !res.BDRSchedulable {
			return &CoreResult{Schedulable: map[string]bool{}}
		}
	}

	result := &CoreResult{Schedulable: make(map[string]bool, len(servers))}
	for _, s := range servers {
		result.Schedulable[s.Component.ID] = true
	}

	switch core.Scheduler {
	case EDF:
		analyzeEDFCore(servers, result)
	default: // FPS, RM
		analyzeFPSCore(servers, result, cfg.MaxWCRTIterations)
	}

	return result
}

// analyzeEDFCore implements §4.4's EDF-core test: treating each component
// as a periodic server (Q_k, P_k, J_k=Δ_k), demand must never exceed
// elapsed time over the server hyper-period. First violation marks every
// component on the core unschedulable.
func analyzeEDFCore(servers []FlatServer, result *CoreResult) {
	periods := make([]float64, len(servers))
	for i, s := range servers {
		_, p := s.Component.Interface.AsPRM()
		periods[i] = p
	}
	hCore := lcmOfPeriods(periods)

	for t := int64(0); t <= hCore; t++ {
		var demand float64
		for _, s := range servers {
			q, p := s.Component.Interface.AsPRM()
			_, j := s.Component.Interface.AsBDR()
			demand += DBFServer(q, p, j, float64(t))
		}
		if demand > float64(t)+epsilon {
			markAllUnschedulable(servers, result)
			return
		}
	}
}

// analyzeFPSCore implements §4.4's FPS/RM-core test: servers sorted by
// component priority (smaller = higher); each server's response time
// iterates until it converges (pass) or exceeds its own period (fail).
// First failure marks every component on the core unschedulable.
// Equal priorities are resolved by insertion order (§4.4 tie-break).
func analyzeFPSCore(servers []FlatServer, result *CoreResult, maxIterations int) {
	ordered := make([]FlatServer, len(servers))
	copy(ordered, servers)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Component.Priority < ordered[j-1].Component.Priority; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	for i, s := range ordered {
		qs, ps := s.Component.Interface.AsPRM()
		r := qs
		passed := false
		for iter := 0; iter < maxIterations; iter++ {
			var interference float64
			for _, hp := range ordered[:i] {
				qhp, phphp := hp.Component.Interface.AsPRM()
				_, jhp := hp.Component.Interface.AsBDR()
				interference += math.Ceil((r+jhp)/phphp) * qhp
			}
			if math.Abs(interference+qs-r) < 1e-6 {
				passed = true
				break // this server passes; move on to the next
			}
			if interference+qs > ps+epsilon {
				markAllUnschedulable(servers, result)
				return
			}
			r = interference + qs
		}
		if !passed {
			markAllUnschedulable(servers, result)
			return
		}
	}
}

func markAllUnschedulable(servers []FlatServer, result *CoreResult) {
	for _, s := range servers {
		result.Schedulable[s.Component.ID] = false
	}
}
