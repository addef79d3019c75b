// sim/job.go
//
// Job models one in-flight release of a Task during simulation — the
// analogue of the teacher's Request, specialized from an LLM request's
// prefill/decode lifecycle to a periodic real-time job's
// release/execute/complete-or-miss lifecycle (§4.6).
package sim

// Job is a single release of a Task, outstanding in the simulator
// between its release and its completion or deadline miss. A Task has
// at most one outstanding Job at a time (§4.6 phase 1: a new release
// while a job is still outstanding is itself a missed deadline).
type Job struct {
	Task      *Task
	Release   float64 // simulation time this job was released
	Remaining float64 // remaining execution time demand
	Deadline  float64 // absolute deadline: Release + Task.Deadline
}

// TaskRuntimeState tracks one task's simulation bookkeeping: when its
// next job releases, the currently outstanding job (if any), and its
// accumulated statistics.
type TaskRuntimeState struct {
	Task         *Task
	NextRelease  float64
	Job          *Job
	MaxRespTime  float64
	TotalResp    float64
	NumCompleted int
	NumMissed    int
}

// TaskSimResult is the per-task simulation result (§3's Simulation
// result shape).
type TaskSimResult struct {
	MaxRespTime    float64
	AvgRespTime    float64
	MissedDeadlines int
	CompletedJobs  int
	Schedulable    bool
}

// Result converts accumulated runtime state into the reported simulation
// result for this task. Schedulable holds iff zero deadlines were missed
// (§4.6: "schedulable iff missed_deadlines == 0").
func (s *TaskRuntimeState) Result() TaskSimResult {
	var avg float64
	if s.NumCompleted > 0 {
		avg = s.TotalResp / float64(s.NumCompleted)
	}
	return TaskSimResult{
		MaxRespTime:     s.MaxRespTime,
		AvgRespTime:     avg,
		MissedDeadlines: s.NumMissed,
		CompletedJobs:   s.NumCompleted,
		Schedulable:     s.NumMissed == 0,
	}
}
