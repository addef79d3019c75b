package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServerRuntimeState_StartsWithZeroBudgetGatedByDelta(t *testing.T) {
	iface, err := NewBDR(0.5, 3)
	assert.NoError(t, err)
	comp := &Component{
		ID:        "c1",
		Scheduler: EDF,
		Interface: iface,
		Tasks:     []*Task{{ID: "t1"}},
	}

	state := NewServerRuntimeState(comp, 1)
	assert.Equal(t, 0.5, state.Alpha)
	assert.Equal(t, 3.0, state.Delta)
	assert.Equal(t, 3.0, state.NextPeriodStart)
	assert.Equal(t, 0.0, state.BudgetRemaining)
	assert.Len(t, state.Tasks, 1)
	assert.IsType(t, EDFDispatch{}, state.Dispatch)
}

func TestServerRuntimeState_HasReadyJobAndReadyJobs(t *testing.T) {
	iface, err := NewBDR(0.5, 0)
	assert.NoError(t, err)
	comp := &Component{Scheduler: EDF, Interface: iface, Tasks: []*Task{{ID: "t1"}, {ID: "t2"}}}
	state := NewServerRuntimeState(comp, 1)

	assert.False(t, state.HasReadyJob())
	assert.Empty(t, state.ReadyJobs())

	job := &Job{Task: comp.Tasks[0]}
	state.Tasks[0].Job = job

	assert.True(t, state.HasReadyJob())
	assert.Equal(t, []*Job{job}, state.ReadyJobs())
	assert.Same(t, state.Tasks[0], state.taskState(job))
}

func TestServerRuntimeState_TaskStateReturnsNilWhenJobUnowned(t *testing.T) {
	iface, err := NewBDR(0.5, 0)
	assert.NoError(t, err)
	comp := &Component{Scheduler: EDF, Interface: iface, Tasks: []*Task{{ID: "t1"}}}
	state := NewServerRuntimeState(comp, 1)

	foreign := &Job{Task: &Task{ID: "other"}}
	assert.Nil(t, state.taskState(foreign))
}
