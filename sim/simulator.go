// sim/simulator.go
//
// The discrete-time hierarchical simulator (§4.6): steps a fixed dt over
// a horizon T, running the five phases (release, budget replenishment,
// core arbitration, intra-component dispatch, deadline check) in order
// each tick. Grounded on original_source/simulator.py's HierarchicalSimulator
// (build_state/run_simulation/_release_jobs/_replenish_budgets/
// _schedule_jobs/_check_deadlines), restructured into the teacher's
// struct-with-Run-method, step-logged style rather than the Python's
// free-function pipeline or the teacher's own event-heap loop (which
// modeled variable-length LLM request lifecycles, not a fixed-dt tick).
package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/anshjyot/hsa/sim/trace"
)

// DefaultHorizon computes the spec's default simulation horizon,
// 2*lcm(all periods in the model), across every task period and every
// component-server period.
func DefaultHorizon(model *SystemModel) float64 {
	var periods []float64
	for _, core := range model.Cores {
		for _, top := range core.Components {
			for _, comp := range top.Flatten() {
				for _, t := range comp.Tasks {
					periods = append(periods, t.Period)
				}
				_, p := comp.Interface.AsPRM()
				periods = append(periods, p)
			}
		}
	}
	return 2 * float64(lcmOfPeriods(periods))
}

// Simulator runs the discrete-time hierarchical simulation for one
// SystemModel.
type Simulator struct {
	model  *SystemModel
	config RunConfig
	trace  *trace.Run

	servers map[string]*ServerRuntimeState // componentID -> state, across all cores
}

// NewSimulator builds a Simulator over model with the given config. Every
// component across every core gets its own ServerRuntimeState.
func NewSimulator(model *SystemModel, config RunConfig) *Simulator {
	servers := make(map[string]*ServerRuntimeState)
	for _, core := range model.Cores {
		for _, top := range core.Components {
			for _, comp := range top.Flatten() {
				servers[comp.ID] = NewServerRuntimeState(comp, core.SpeedFactor)
			}
		}
	}
	return &Simulator{model: model, config: config, servers: servers}
}

// SetTrace attaches a decision-trace recorder; every subsequent dispatch
// and deadline miss is appended to it. A nil or LevelNone-configured run
// costs nothing to attach — the trace package itself no-ops recordings
// under LevelNone.
func (s *Simulator) SetTrace(run *trace.Run) {
	s.trace = run
}

// Run executes the full simulation and returns per-task results keyed by
// task ID. Never aborts on a missed deadline or an infeasible component
// (§4.6 "Failure semantics" / §7 kind 3): misses are recorded, not thrown.
func (s *Simulator) Run() map[string]TaskSimResult {
	logrus.Debugf("simulating horizon=%g dt=%g over %d components", s.config.Horizon, s.config.Dt, len(s.servers))

	for t := 0.0; t < s.config.Horizon; t += s.config.Dt {
		s.releasePhase(t)
		s.replenishPhase(t)
		for _, core := range s.model.Cores {
			s.arbitrationPhase(core, t)
		}
		s.deadlineCheckPhase(t)
	}

	results := make(map[string]TaskSimResult)
	for _, server := range s.servers {
		for _, ts := range server.Tasks {
			results[ts.Task.ID] = ts.Result()
		}
	}
	return results
}

// releasePhase is §4.6 phase 1: release a new job for every task whose
// next_release has arrived. A still-outstanding prior job at this point
// is itself a missed deadline (no job carries over a release boundary).
func (s *Simulator) releasePhase(t float64) {
	for _, server := range s.servers {
		for _, ts := range server.Tasks {
			if t+epsilon < ts.NextRelease {
				continue
			}
			if ts.Job != nil {
				resp := t - ts.Job.Release
				ts.NumMissed++
				ts.TotalResp += resp
				if resp > ts.MaxRespTime {
					ts.MaxRespTime = resp
				}
				ts.Job = nil
			}
			ts.Job = &Job{
				Task:      ts.Task,
				Release:   t,
				Remaining: ts.Task.EffectiveWCET(server.SpeedFactor),
				Deadline:  t + ts.Task.Deadline,
			}
			ts.NextRelease += ts.Task.Period
		}
	}
}

// replenishPhase is §4.6 phase 2: once past the initial-delay gate Δ,
// refill a server's budget to Q at every period boundary it has crossed.
func (s *Simulator) replenishPhase(t float64) {
	for _, server := range s.servers {
		if t+epsilon < server.Delta {
			continue
		}
		q, p := server.Component.Interface.AsPRM()
		for server.NextPeriodStart <= t+epsilon {
			server.BudgetRemaining = q
			server.NextPeriodStart += p
		}
	}
}

// arbitrationPhase is §4.6 phases 3 and 4: select active servers on this
// core, scale their bandwidth shares down if oversubscribed, hand each
// its quantum, then dispatch that quantum to the server's ready jobs.
func (s *Simulator) arbitrationPhase(core *Core, t float64) {
	var active []*ServerRuntimeState
	var alphaSum float64
	for _, fs := range core.FlattenedServers() {
		server := s.servers[fs.Component.ID]
		if server.BudgetRemaining <= epsilon {
			continue
		}
		if t+epsilon < server.Delta {
			continue
		}
		if !server.HasReadyJob() {
			continue
		}
		active = append(active, server)
		alphaSum += server.Alpha
	}

	scale := 1.0
	if alphaSum > 1 {
		scale = 1 / alphaSum
	}

	for _, server := range active {
		quantum := math.Min(server.Alpha*scale*s.config.Dt, server.BudgetRemaining)
		s.dispatchQuantum(server, quantum, t)
	}
}

// dispatchQuantum is §4.6 phase 4: order ready jobs per the server's
// inner discipline, then serve them sequentially and non-preemptively
// within the quantum.
func (s *Simulator) dispatchQuantum(server *ServerRuntimeState, quantum, t float64) {
	jobs := server.ReadyJobs()
	server.Dispatch.OrderJobs(jobs)

	remaining := quantum
	for _, job := range jobs {
		if remaining <= epsilon {
			break
		}
		amount := math.Min(remaining, job.Remaining)
		job.Remaining -= amount
		remaining -= amount
		server.BudgetRemaining -= amount

		completed := job.Remaining <= epsilon
		if s.trace != nil {
			s.trace.RecordDispatch(trace.DispatchRecord{
				Clock:       t,
				ComponentID: server.Component.ID,
				TaskID:      job.Task.ID,
				Served:      amount,
				Completed:   completed,
			})
		}

		if completed {
			ts := server.taskState(job)
			resp := (t + s.config.Dt) - job.Release
			ts.NumCompleted++
			ts.TotalResp += resp
			if resp > ts.MaxRespTime {
				ts.MaxRespTime = resp
			}
			ts.Job = nil
		}
	}
}

// deadlineCheckPhase is §4.6 phase 5: any job still outstanding at or
// past its absolute deadline is a miss.
func (s *Simulator) deadlineCheckPhase(t float64) {
	for _, server := range s.servers {
		for _, ts := range server.Tasks {
			if ts.Job == nil {
				continue
			}
			if t+epsilon < ts.Job.Deadline {
				continue
			}
			resp := t - ts.Job.Release
			ts.NumMissed++
			ts.TotalResp += resp
			if resp > ts.MaxRespTime {
				ts.MaxRespTime = resp
			}
			if s.trace != nil {
				s.trace.RecordMiss(trace.DeadlineMissRecord{
					Clock:       t,
					ComponentID: server.Component.ID,
					TaskID:      ts.Task.ID,
					Response:    resp,
				})
			}
			ts.Job = nil
		}
	}
}
