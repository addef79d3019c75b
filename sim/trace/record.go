// Package trace provides decision-trace recording for scheduling
// analysis. It has no dependencies on sim/ — it stores pure data types
// describing what the simulator did at each step, so callers can inspect
// the run after the fact.
package trace

// DispatchRecord captures one job being served during one simulation
// quantum (§4.6 phase 4).
type DispatchRecord struct {
	Clock       float64
	ComponentID string
	TaskID      string
	Served      float64 // execution time served this quantum
	Completed   bool    // true if this quantum finished the job
}

// DeadlineMissRecord captures a job still outstanding at its deadline
// (§4.6 phase 5).
type DeadlineMissRecord struct {
	Clock       float64
	ComponentID string
	TaskID      string
	Response    float64 // Clock - job.Release
}
