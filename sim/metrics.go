// sim/metrics.go
//
// Summary aggregates the analyzer's and simulator's per-task/per-component
// verdicts into whole-run reporting figures. Adapted from the teacher's
// Metrics (per-request latency/KV aggregation) to this domain's
// per-task/per-component schedulability aggregation.
package sim

import "fmt"

// Summary aggregates a run's outcome across every task and component for
// final reporting (§8's invariants are properties of the per-task/
// per-component results this struct summarizes, not of Summary itself).
type Summary struct {
	TotalTasks        int
	SchedulableTasks   int
	MissedDeadlineTasks int

	TotalComponents      int
	SchedulableComponents int

	MaxRespTimes []float64 // one entry per task, for percentile reporting
}

// NewSummary builds a Summary from a hierarchical Verdict and, optionally,
// simulation results (simResults may be nil when only static analysis ran).
func NewSummary(model *SystemModel, verdict *Verdict, simResults map[string]TaskSimResult) *Summary {
	s := &Summary{}

	for _, core := range model.Cores {
		for _, top := range core.Components {
			for _, comp := range top.Flatten() {
				s.TotalComponents++
				if verdict.ComponentSchedulable(core.ID, comp.ID) {
					s.SchedulableComponents++
				}
				for _, t := range comp.Tasks {
					s.TotalTasks++
					compRes := verdict.Components[core.ID][comp.ID]
					schedulable := compRes != nil && verdict.ComponentSchedulable(core.ID, comp.ID)
					if simResults != nil {
						if r, ok := simResults[t.ID]; ok {
							s.MaxRespTimes = append(s.MaxRespTimes, r.MaxRespTime)
							if !r.Schedulable {
								s.MissedDeadlineTasks++
							}
						}
					}
					if schedulable {
						s.SchedulableTasks++
					}
				}
			}
		}
	}

	return s
}

// Print reports the summary to stdout in the teacher's end-of-run style.
func (s *Summary) Print() {
	fmt.Println("=== Schedulability Summary ===")
	fmt.Printf("Components schedulable : %d / %d\n", s.SchedulableComponents, s.TotalComponents)
	fmt.Printf("Tasks schedulable      : %d / %d\n", s.SchedulableTasks, s.TotalTasks)
	if len(s.MaxRespTimes) > 0 {
		fmt.Printf("Missed deadlines (sim) : %d\n", s.MissedDeadlineTasks)
		fmt.Printf("p50 max response time  : %.4f\n", CalculatePercentile(s.MaxRespTimes, 50))
		fmt.Printf("p99 max response time  : %.4f\n", CalculatePercentile(s.MaxRespTimes, 99))
	}
}
