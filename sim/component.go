// sim/component.go
//
// The component analyzer (§4.3): for one component, tests DBF(t) <=
// SBF(t) over a bounded horizon under both the BDR and PRM supply, and
// computes per-task worst-case response times.
package sim

import (
	"math"
	"sort"
)

// ComponentResult is the per-supply-model verdict for one component
// (§3's analysis result shape).
type ComponentResult struct {
	Alpha         float64
	Delta         float64
	BDRSchedulable bool
	BDRWCRT       map[string]float64

	Q             float64
	P             float64
	PRMSchedulable bool
	PRMWCRT       map[string]float64
}

// Schedulable reports whether BOTH supply models found the component
// schedulable. §4.4's core-level precondition only requires the BDR
// verdict, but callers that want a single pass/fail usually want both.
func (r *ComponentResult) Schedulable() bool {
	return r.BDRSchedulable && r.PRMSchedulable
}

// lcm returns the least common multiple of two positive integers.
func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcmOfPeriods returns the LCM of a set of periods, rounded to the
// nearest integer tick before combining (§4.3's horizon needs an integer
// hyper-period).
func lcmOfPeriods(periods []float64) int64 {
	if len(periods) == 0 {
		return 1
	}
	result := int64(math.Round(periods[0]))
	if result <= 0 {
		result = 1
	}
	for _, p := range periods[1:] {
		pi := int64(math.Round(p))
		if pi <= 0 {
			pi = 1
		}
		result = lcm(result, pi)
	}
	return result
}

// ComponentHorizon computes the bounded horizon H for the DBF<=SBF test
// (§4.3): max(lcm(periods), 2*max(deadlines)), integer-rounded. This is
// the one fixed choice among the varying horizon formulas noted in §9.
func ComponentHorizon(tasks []*Task) int64 {
	periods := make([]float64, len(tasks))
	var maxDeadline float64
	for i, t := range tasks {
		periods[i] = t.Period
		if t.Deadline > maxDeadline {
			maxDeadline = t.Deadline
		}
	}
	hyper := lcmOfPeriods(periods)
	twiceMaxD := int64(math.Ceil(2 * maxDeadline))
	if twiceMaxD > hyper {
		return twiceMaxD
	}
	return hyper
}

// AnalyzeComponent runs the BDR and PRM schedulability tests and computes
// per-task WCRT for one component (§4.3). The component's current
// Interface (possibly tuned by sim/autotune) supplies both (α,Δ) and
// (Q,P) via SupplyInterface's conversions. speedFactor is the owning
// core's speed factor (§3): every task's WCET is mapped through
// Task.EffectiveWCET before it enters the DBF/WCRT computations. cfg
// bounds the WCRT fixed-point iteration (§7 kind 4).
func AnalyzeComponent(comp *Component, speedFactor float64, cfg AnalysisConfig) *ComponentResult {
	comp.AssignMissingPriorities()

	alpha, delta := comp.Interface.AsBDR()
	q, p := comp.Interface.AsPRM()

	tasks := scaledTasks(comp.Tasks, speedFactor)
	horizon := ComponentHorizon(tasks)

	result := &ComponentResult{
		Alpha: alpha,
		Delta: delta,
		Q:     q,
		P:     p,
	}

	result.BDRSchedulable = true
	for t := int64(0); t <= horizon; t++ {
		if DBF(comp.Scheduler, tasks, float64(t)) > SBFBDR(alpha, delta, float64(t))+epsilon {
			result.BDRSchedulable = false
			break
		}
	}

	result.PRMSchedulable = true
	for t := int64(0); t <= horizon; t++ {
		if DBF(comp.Scheduler, tasks, float64(t)) > SBFPRM(q, p, float64(t))+epsilon {
			result.PRMSchedulable = false
			break
		}
	}

	if comp.Scheduler == EDF {
		result.BDRWCRT = wcrtEDF(tasks, alpha, delta)
		result.PRMWCRT = wcrtEDF(tasks, alpha, 0) // PRM has no delay model (§4.3)
	} else {
		result.BDRWCRT = wcrtFPS(tasks, delta, cfg.MaxWCRTIterations)
		result.PRMWCRT = wcrtFPS(tasks, 0, cfg.MaxWCRTIterations) // no jitter-equivalent delay for PRM
	}

	return result
}

// scaledTasks returns a copy of tasks with WCET mapped through
// Task.EffectiveWCET(speedFactor), leaving the originals (and their
// identity-bearing IDs) untouched for result lookups.
func scaledTasks(tasks []*Task, speedFactor float64) []*Task {
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		scaled := *t
		scaled.WCET = t.EffectiveWCET(speedFactor)
		out[i] = &scaled
	}
	return out
}

// maxWCRTIterations bounds the WCRT fixed-point iteration (§7: numerical
// non-convergence after this many iterations is treated as divergence).
const maxWCRTIterations = 1000

// wcrtFPS computes per-task WCRT under fixed-priority dispatch (§4.3
// FPS/RM case):
//
//	R^0     = C_i + Δ + J_i
//	R^(n+1) = C_i + Δ + J_i + sum_{hp} ceil(R^n / P_hp) * C_hp
//
// converged when |R^(n+1) - R^n| < 1e-6; diverges (R > D_i, or
// maxIterations is hit) -> +Inf.
func wcrtFPS(tasks []*Task, delta float64, maxIterations int) map[string]float64 {
	ordered := sortedByPriority(tasks)
	results := make(map[string]float64, len(tasks))

	for i, task := range ordered {
		hp := ordered[:i]
		r := task.WCET + delta + task.Jitter
		converged := false
		for iter := 0; iter < maxIterations; iter++ {
			var interference float64
			for _, h := range hp {
				interference += math.Ceil(r/h.Period) * h.WCET
			}
			next := task.WCET + delta + task.Jitter + interference
			if math.Abs(next-r) < 1e-6 {
				r = next
				converged = true
				break
			}
			if next > task.Deadline {
				r = math.Inf(1)
				converged = true
				break
			}
			r = next
		}
		if !converged {
			r = math.Inf(1)
		}
		results[task.ID] = r
	}
	return results
}

// wcrtEDF computes per-task WCRT under EDF dispatch (§4.3 EDF case): the
// smallest integer t in [ceil(D_i+J_i), 2*max(D_j)] such that
// DBF-EDF(interfering, t-J_i) <= α*(t-Δ) + ε, where interfering tasks are
// those with deadline <= D_i. No such t -> +Inf.
func wcrtEDF(tasks []*Task, alpha, delta float64) map[string]float64 {
	ordered := make([]*Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Deadline < ordered[j].Deadline
	})

	results := make(map[string]float64, len(tasks))
	for _, task := range ordered {
		var interfering []*Task
		for _, other := range ordered {
			if other.Deadline <= task.Deadline {
				interfering = append(interfering, other)
			}
		}
		maxD := task.Deadline
		for _, it := range interfering {
			if it.Deadline > maxD {
				maxD = it.Deadline
			}
		}
		maxT := int64(math.Ceil(2 * maxD))

		r := math.Inf(1)
		start := int64(math.Ceil(task.Deadline + task.Jitter))
		for t := start; t <= maxT; t++ {
			demand := DBFEDF(interfering, float64(t)-task.Jitter)
			supply := math.Max(0, alpha*(float64(t)-delta))
			if demand <= supply+epsilon {
				r = float64(t)
				break
			}
		}
		results[task.ID] = r
	}
	return results
}
