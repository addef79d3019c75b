package sim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func writeTempYAML(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}
	return path
}

func TestLoadTuningBundle_ValidYAML(t *testing.T) {
	yaml := `
analysis:
  max_wcrt_iterations: 500
simulation:
  dt: 0.05
  horizon_multiplier: 2.0
autotune:
  alpha_step: 0.01
`
	path := writeTempYAML(t, yaml)
	bundle, err := LoadTuningBundle(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *bundle.Analysis.MaxWCRTIterations != 500 {
		t.Errorf("expected max_wcrt_iterations 500, got %d", *bundle.Analysis.MaxWCRTIterations)
	}
	if *bundle.Sim.Dt != 0.05 {
		t.Errorf("expected dt 0.05, got %g", *bundle.Sim.Dt)
	}
	if *bundle.Sim.HorizonMultiplier != 2.0 {
		t.Errorf("expected horizon_multiplier 2.0, got %g", *bundle.Sim.HorizonMultiplier)
	}
	if *bundle.Autotune.AlphaStep != 0.01 {
		t.Errorf("expected alpha_step 0.01, got %g", *bundle.Autotune.AlphaStep)
	}
}

func TestLoadTuningBundle_PartialYAMLLeavesRestNil(t *testing.T) {
	yaml := `
simulation:
  dt: 0.2
`
	path := writeTempYAML(t, yaml)
	bundle, err := LoadTuningBundle(path)
	assert.NoError(t, err)
	assert.NotNil(t, bundle.Sim.Dt)
	assert.Nil(t, bundle.Sim.HorizonMultiplier)
	assert.Nil(t, bundle.Analysis.MaxWCRTIterations)
}

func TestLoadTuningBundle_RejectsUnknownField(t *testing.T) {
	yaml := `
simulation:
  dt: 0.1
  bogus_field: 5
`
	path := writeTempYAML(t, yaml)
	_, err := LoadTuningBundle(path)
	assert.Error(t, err)
}

func TestLoadTuningBundle_MissingFileReturnsError(t *testing.T) {
	_, err := LoadTuningBundle("/nonexistent/path/tuning.yaml")
	assert.Error(t, err)
}

func TestTuningBundle_Validate_RejectsNonPositiveValues(t *testing.T) {
	b := &TuningBundle{Sim: SimTuning{Dt: floatPtr(-1)}}
	assert.Error(t, b.Validate())

	b2 := &TuningBundle{Analysis: AnalysisTuning{MaxWCRTIterations: intPtr(0)}}
	assert.Error(t, b2.Validate())

	b3 := &TuningBundle{Autotune: AutotuneTuning{AlphaStep: floatPtr(0)}}
	assert.Error(t, b3.Validate())
}

func TestTuningBundle_Validate_RejectsNaNAndInf(t *testing.T) {
	b := &TuningBundle{Sim: SimTuning{Dt: floatPtr(math.Inf(1))}}
	assert.Error(t, b.Validate())
}

func TestTuningBundle_ApplyTo_OverridesOnlySetFields(t *testing.T) {
	base := RunConfig{Dt: 0.1, Horizon: 100}
	baseAnalysis := DefaultAnalysisConfig()

	b := &TuningBundle{
		Sim:      SimTuning{Dt: floatPtr(0.05), HorizonMultiplier: floatPtr(2.0)},
		Analysis: AnalysisTuning{MaxWCRTIterations: intPtr(50)},
	}

	run, analysis := b.ApplyTo(base, baseAnalysis)
	assert.Equal(t, 0.05, run.Dt)
	assert.Equal(t, 200.0, run.Horizon)
	assert.Equal(t, 50, analysis.MaxWCRTIterations)
}

func TestTuningBundle_ApplyTo_LeavesBaseWhenUnset(t *testing.T) {
	base := RunConfig{Dt: 0.1, Horizon: 100}
	baseAnalysis := DefaultAnalysisConfig()

	b := &TuningBundle{}
	run, analysis := b.ApplyTo(base, baseAnalysis)
	assert.Equal(t, base, run)
	assert.Equal(t, baseAnalysis, analysis)
}
