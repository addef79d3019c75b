package trace

// Summary aggregates statistics from a Run.
type Summary struct {
	TotalDispatches int
	CompletedJobs   int
	TotalMisses     int
	MissesByTask    map[string]int
}

// Summarize computes aggregate statistics from a Run. Safe for nil or
// empty runs (returns zero-value fields).
func Summarize(run *Run) *Summary {
	summary := &Summary{
		MissesByTask: make(map[string]int),
	}
	if run == nil {
		return summary
	}

	summary.TotalDispatches = len(run.Dispatches)
	for _, d := range run.Dispatches {
		if d.Completed {
			summary.CompletedJobs++
		}
	}

	summary.TotalMisses = len(run.Misses)
	for _, m := range run.Misses {
		summary.MissesByTask[m.TaskID]++
	}

	return summary
}
