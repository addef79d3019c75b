package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anshjyot/hsa/sim"
)

func buildComponent(t *testing.T, id string, alpha float64) *sim.Component {
	t.Helper()
	iface, err := sim.NewBDR(alpha, 1)
	assert.NoError(t, err)
	return &sim.Component{ID: id, Scheduler: sim.EDF, Interface: iface}
}

func TestAssign_PacksHungriestComponentFirst(t *testing.T) {
	core1 := &sim.Core{ID: "core1", SpeedFactor: 1}
	core2 := &sim.Core{ID: "core2", SpeedFactor: 1}

	big := buildComponent(t, "big", 0.6)
	small := buildComponent(t, "small", 0.3)

	// Pass components in ascending order; Assign must still place "big"
	// (the higher alpha) first regardless of input order.
	assignments := Assign([]*sim.Core{core1, core2}, []*sim.Component{small, big})

	assigned := make(map[string]string, len(assignments))
	for _, a := range assignments {
		assigned[a.ComponentID] = a.CoreID
	}
	assert.Equal(t, "core1", assigned["big"], "first candidate fills the first (least-loaded, tied) core")
	assert.Equal(t, "core1", big.CoreID)
}

func TestAssign_SpreadsAcrossCoresWhenOneWouldOverflow(t *testing.T) {
	core1 := &sim.Core{ID: "core1", SpeedFactor: 1}
	core2 := &sim.Core{ID: "core2", SpeedFactor: 1}

	c1 := buildComponent(t, "c1", 0.7)
	c2 := buildComponent(t, "c2", 0.7)

	assignments := Assign([]*sim.Core{core1, core2}, []*sim.Component{c1, c2})
	cores := make(map[string]bool)
	for _, a := range assignments {
		cores[a.CoreID] = true
	}
	assert.Len(t, cores, 2, "two 0.7-alpha components cannot share one core")
}

func TestAssign_ScalesDemandBySpeedFactor(t *testing.T) {
	slow := &sim.Core{ID: "slow", SpeedFactor: 0.5}
	fast := &sim.Core{ID: "fast", SpeedFactor: 2}

	c := buildComponent(t, "c1", 0.6)
	assignments := Assign([]*sim.Core{slow, fast}, []*sim.Component{c})
	assert.Equal(t, "fast", assignments[0].CoreID, "0.6/2=0.3 fits comfortably; 0.6/0.5=1.2 overflows the slow core")
}

func TestAssign_FallsBackToLeastLoadedWhenNoCoreFits(t *testing.T) {
	core1 := &sim.Core{ID: "core1", SpeedFactor: 1}

	full := buildComponent(t, "full", 0.9)
	overflow := buildComponent(t, "overflow", 0.5)

	assignments := Assign([]*sim.Core{core1}, []*sim.Component{full, overflow})
	assert.Len(t, assignments, 2)
	for _, a := range assignments {
		assert.Equal(t, "core1", a.CoreID, "single-core system always falls back to that core")
	}
}

func TestAssign_MutatesComponentCoreIDInPlace(t *testing.T) {
	core1 := &sim.Core{ID: "core1", SpeedFactor: 1}
	c := buildComponent(t, "c1", 0.2)
	assert.Empty(t, c.CoreID)
	Assign([]*sim.Core{core1}, []*sim.Component{c})
	assert.Equal(t, "core1", c.CoreID)
}
