// sim/server_state.go
//
// ServerRuntimeState tracks one component-server's simulation bookkeeping:
// budget replenishment under its BDR interface (§4.6 phase 2) and the
// set of task runtime states it dispatches.
package sim

// ServerRuntimeState is the simulator's per-component bookkeeping.
type ServerRuntimeState struct {
	Component *Component

	Alpha float64
	Delta float64

	// SpeedFactor is the owning core's speed factor (§3); job remaining
	// time at release is scaled through Task.EffectiveWCET(SpeedFactor)
	// (§4.6 phase 1).
	SpeedFactor float64

	NextPeriodStart float64 // Q replenishes when sim time reaches this
	BudgetRemaining float64

	Tasks []*TaskRuntimeState

	Dispatch DispatchPolicy
}

// NewServerRuntimeState builds the initial runtime state for one
// component: budget starts at 0 and only becomes available once the
// clock passes Δ (§4.6 phase 2's "initial-delay gate"), mirroring the
// Python prototype's next_period_start = Δ, budget_remaining = 0.
// speedFactor is the owning core's speed factor.
func NewServerRuntimeState(comp *Component, speedFactor float64) *ServerRuntimeState {
	alpha, delta := comp.Interface.AsBDR()

	tasks := make([]*TaskRuntimeState, len(comp.Tasks))
	for i, t := range comp.Tasks {
		tasks[i] = &TaskRuntimeState{Task: t}
	}

	return &ServerRuntimeState{
		Component:       comp,
		Alpha:           alpha,
		Delta:           delta,
		SpeedFactor:     speedFactor,
		NextPeriodStart: delta,
		BudgetRemaining: 0,
		Tasks:           tasks,
		Dispatch:        NewDispatchPolicy(comp.Scheduler),
	}
}

// HasReadyJob reports whether any task on this server currently has an
// outstanding job.
func (s *ServerRuntimeState) HasReadyJob() bool {
	for _, t := range s.Tasks {
		if t.Job != nil {
			return true
		}
	}
	return false
}

// ReadyJobs collects the currently outstanding jobs across this
// server's tasks, in task insertion order (the caller reorders via
// Dispatch before serving them).
func (s *ServerRuntimeState) ReadyJobs() []*Job {
	var jobs []*Job
	for _, t := range s.Tasks {
		if t.Job != nil {
			jobs = append(jobs, t.Job)
		}
	}
	return jobs
}

// taskState finds the runtime state owning a given job. Used by the
// simulator to update stats when a job completes within a quantum.
func (s *ServerRuntimeState) taskState(j *Job) *TaskRuntimeState {
	for _, t := range s.Tasks {
		if t.Job == j {
			return t
		}
	}
	return nil
}
