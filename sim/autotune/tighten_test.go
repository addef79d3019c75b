package autotune

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anshjyot/hsa/sim"
)

func TestCandidatePeriods_DescendingDivisorsAboveOne(t *testing.T) {
	periods := candidatePeriods(100)
	assert.Equal(t, []float64{50, 33, 25, 20, 16, 14, 12, 11, 10, 9, 8}, periods[:11])
	for _, p := range periods {
		assert.GreaterOrEqual(t, p, 1.0)
	}
}

func TestCandidatePeriods_DeduplicatesRepeatedQuotients(t *testing.T) {
	periods := candidatePeriods(4)
	seen := make(map[float64]bool)
	for _, p := range periods {
		assert.False(t, seen[p], "duplicate candidate period %g", p)
		seen[p] = true
	}
}

func buildLooseComponent(t *testing.T) *sim.Component {
	t.Helper()
	iface, err := sim.NewPRM(4, 16)
	assert.NoError(t, err)
	return &sim.Component{
		ID:        "c1",
		Scheduler: sim.EDF,
		Interface: iface,
		Tasks:     []*sim.Task{{ID: "t1", WCET: 1, Period: 40, Deadline: 40}},
	}
}

func TestCoreStillSchedulable_TrueWhenAllComponentsPassLocalBDR(t *testing.T) {
	comp := buildLooseComponent(t)
	core := &sim.Core{ID: "core1", Scheduler: sim.EDF, SpeedFactor: 1, Components: []*sim.Component{comp}}
	assert.True(t, coreStillSchedulable(core))
}

func TestCoreStillSchedulable_FalseWhenAComponentFailsLocalBDR(t *testing.T) {
	badIface, err := sim.NewPRM(1, 40)
	assert.NoError(t, err)
	bad := &sim.Component{
		ID:        "bad",
		Scheduler: sim.EDF,
		Interface: badIface,
		Tasks:     []*sim.Task{{ID: "t2", WCET: 10, Period: 10, Deadline: 10}},
	}
	core := &sim.Core{ID: "core1", Scheduler: sim.EDF, SpeedFactor: 1, Components: []*sim.Component{bad}}
	assert.False(t, coreStillSchedulable(core))
}

func TestTighten_ShrinksPeriodWhilePreservingAlpha(t *testing.T) {
	comp := buildLooseComponent(t)
	alphaBefore, _ := comp.Interface.AsBDR()
	core := &sim.Core{ID: "core1", Scheduler: sim.EDF, SpeedFactor: 1, Components: []*sim.Component{comp}}

	err := Tighten(core, comp)
	assert.NoError(t, err)

	alphaAfter, _ := comp.Interface.AsBDR()
	assert.InDelta(t, alphaBefore, alphaAfter, 1e-6, "alpha is held constant across the search")

	_, pAfter := comp.Interface.AsPRM()
	assert.LessOrEqual(t, pAfter, 16.0, "tighten never increases the period")
}

func TestTighten_NoOpWhenNoCandidateImproves(t *testing.T) {
	// P0 < 2 leaves candidatePeriods empty (every P/k < 1), so Tighten
	// must leave the component's interface unchanged.
	iface, err := sim.NewPRM(1, 1)
	assert.NoError(t, err)
	comp := &sim.Component{
		ID:        "c1",
		Scheduler: sim.EDF,
		Interface: iface,
		Tasks:     []*sim.Task{{ID: "t1", WCET: 1, Period: 10, Deadline: 10}},
	}
	core := &sim.Core{ID: "core1", Scheduler: sim.EDF, SpeedFactor: 1, Components: []*sim.Component{comp}}

	err = Tighten(core, comp)
	assert.NoError(t, err)
	q, p := comp.Interface.AsPRM()
	assert.Equal(t, 1.0, q)
	assert.Equal(t, 1.0, p)
}
