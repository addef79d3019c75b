// sim/dbf.go
//
// Numeric primitives (§4.1): demand-bound and supply-bound functions.
// All functions here are pure — no side effects, no shared state — and
// use the package-wide tolerance epsilon for inequality tests.
package sim

import "math"

// DBFEDF computes the EDF demand-bound function at time t (§4.1):
//
//	dbf(t) = sum_i max(0, floor((t - D_i)/P_i) + 1) * C_i   when t >= D_i
//
// Order of tasks does not affect the result (§8 invariant).
func DBFEDF(tasks []*Task, t float64) float64 {
	var demand float64
	for _, task := range tasks {
		if t < task.Deadline {
			continue
		}
		nJobs := math.Floor((t-task.Deadline)/task.Period) + 1
		if nJobs < 0 {
			nJobs = 0
		}
		demand += nJobs * task.WCET
	}
	return demand
}

// DBFFPS computes the priority-aware fixed-priority demand-bound function
// at time t (§4.1). Tasks are interpreted in priority order (smaller
// Priority = higher); each task's own contribution follows the EDF
// formula at t >= D_i, and interference from higher-priority tasks adds
// ceil(t / P_j) * C_j. Tasks must already carry assigned priorities —
// see Component.AssignMissingPriorities.
//
// This is intentionally NOT the same as DBFEDF: §9 flags that some
// source copies reuse the EDF formulation for FPS, which is wrong for
// response-time analysis. We always use the priority-aware sum here.
func DBFFPS(tasks []*Task, t float64) float64 {
	ordered := sortedByPriority(tasks)

	var demand float64
	for i, task := range ordered {
		// Interference from strictly higher-priority tasks (smaller Priority).
		for _, hp := range ordered[:i] {
			demand += math.Ceil(t/hp.Period) * hp.WCET
		}
		// This task's own contribution, EDF-shaped at t >= D_i.
		if t >= task.Deadline {
			nJobs := math.Floor((t-task.Deadline)/task.Period) + 1
			if nJobs < 0 {
				nJobs = 0
			}
			demand += nJobs * task.WCET
		}
	}
	return demand
}

// sortedByPriority returns tasks ordered by ascending Priority without
// mutating the input slice.
func sortedByPriority(tasks []*Task) []*Task {
	ordered := make([]*Task, len(tasks))
	copy(ordered, tasks)
	// Insertion sort keeps equal-priority ties in original (insertion)
	// order, matching the tie-break rule in §4.4.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Priority < ordered[j-1].Priority; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}

// DBF dispatches to DBFEDF or DBFFPS based on the component's scheduler
// (§4.3: "DBF = DBF-EDF for EDF, DBF-FPS for FPS/RM").
func DBF(sched Scheduler, tasks []*Task, t float64) float64 {
	if sched == EDF {
		return DBFEDF(tasks, t)
	}
	return DBFFPS(tasks, t)
}

// SBFBDR is the BDR supply-bound function (§4.1):
//
//	sbf(t) = 0              if t <= Δ
//	       = α * (t - Δ)    otherwise
//
// Monotone non-decreasing in t, and exactly 0 for t <= Δ (§8 invariant).
func SBFBDR(alpha, delta, t float64) float64 {
	if t <= delta {
		return 0
	}
	return alpha * (t - delta)
}

// SBFPRM is the conservative PRM lower-bound supply-bound function
// (§4.1): floor(t/P) * Q.
//
// P == 0 only arises from a native BDR interface with Δ == 0 converted
// through the Half-Half mapping (§4.2): that mapping has no finite-period
// PRM equivalent (P = Δ/(1-α) collapses to 0), so no periodic supply is
// defined here. Returning 0 — rather than the floor(t/0) NaN that would
// otherwise compare false against any demand and silently report
// schedulable — fails the PRM test closed: a component whose native
// interface has no finite PRM form is correctly never certified
// PRM-schedulable.
func SBFPRM(q, p, t float64) float64 {
	if t < 0 {
		return 0
	}
	if p <= 0 {
		return 0
	}
	return math.Floor(t/p) * q
}

// DBFServer is the demand-bound function of a component treated as a
// periodic task with deadline P and release jitter J (§4.1), used by the
// core-level EDF arbitration test:
//
//	dbf_server(t) = 0                                   for t < J+P
//	              = (floor((t-(J+P))/P) + 1) * Q         otherwise
//
// P == 0 is the same degenerate Δ==0 Half-Half case as SBFPRM above. A
// server with no finite replenishment period cannot be placed into the
// discretized server-arbitration model at all, so it is treated as
// placing unbounded demand on the core rather than the +Inf*0 NaN the
// raw formula would otherwise produce — this correctly fails the whole
// core's arbitration test instead of silently vanishing from the sum.
func DBFServer(q, p, j, t float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	if t < j+p {
		return 0
	}
	nJobs := math.Floor((t-(j+p))/p) + 1
	return nJobs * q
}
