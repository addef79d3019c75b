package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// TuningBundle holds the run-tuning knobs loadable from a YAML file (§9
// "Global state: none required... Ingest, analyze, simulate, emit are
// sequential phases with explicit inputs/outputs" — TuningBundle is one
// such explicit input, never a package-level default). Adapted from the
// teacher's PolicyBundle strict-YAML loader idiom.
type TuningBundle struct {
	Analysis AnalysisTuning `yaml:"analysis"`
	Sim      SimTuning      `yaml:"simulation"`
	Autotune AutotuneTuning `yaml:"autotune"`
}

// AnalysisTuning configures the static analyzer.
type AnalysisTuning struct {
	MaxWCRTIterations *int `yaml:"max_wcrt_iterations"`
}

// SimTuning configures the discrete-time simulator.
type SimTuning struct {
	Dt             *float64 `yaml:"dt"`
	HorizonMultiplier *float64 `yaml:"horizon_multiplier"` // multiplies RunConfig.Horizon (DefaultHorizon's 2*lcm unless set explicitly)
}

// AutotuneTuning holds the autotune section of the file. It is parsed
// and validated only: ApplyTo does not read it, and sim/autotune's
// functions take their step sizes as arguments.
type AutotuneTuning struct {
	AlphaStep *float64 `yaml:"alpha_step"` // parsed and validated; not applied anywhere
}

// LoadTuningBundle reads and parses a YAML run-tuning file. Uses strict
// parsing: unrecognized keys (typos) are rejected.
func LoadTuningBundle(path string) (*TuningBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tuning config: %w", err)
	}
	var bundle TuningBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing tuning config: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Validate checks parameter ranges (reject non-positive, NaN, and Inf).
func (b *TuningBundle) Validate() error {
	if b.Analysis.MaxWCRTIterations != nil && *b.Analysis.MaxWCRTIterations <= 0 {
		return fmt.Errorf("analysis.max_wcrt_iterations must be > 0, got %d", *b.Analysis.MaxWCRTIterations)
	}
	if err := validatePositiveFloat("simulation.dt", b.Sim.Dt); err != nil {
		return err
	}
	if err := validatePositiveFloat("simulation.horizon_multiplier", b.Sim.HorizonMultiplier); err != nil {
		return err
	}
	if err := validatePositiveFloat("autotune.alpha_step", b.Autotune.AlphaStep); err != nil {
		return err
	}
	return nil
}

// ApplyTo merges bundle overrides onto base run/analysis config, leaving
// fields the bundle doesn't set at base's values.
func (b *TuningBundle) ApplyTo(run RunConfig, analysis AnalysisConfig) (RunConfig, AnalysisConfig) {
	if b.Sim.Dt != nil {
		run.Dt = *b.Sim.Dt
	}
	if b.Sim.HorizonMultiplier != nil {
		run.Horizon *= *b.Sim.HorizonMultiplier
	}
	if b.Analysis.MaxWCRTIterations != nil {
		analysis.MaxWCRTIterations = *b.Analysis.MaxWCRTIterations
	}
	return run, analysis
}

func validatePositiveFloat(name string, val *float64) error {
	if val == nil {
		return nil
	}
	if math.IsNaN(*val) || math.IsInf(*val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, *val)
	}
	if *val <= 0 {
		return fmt.Errorf("%s must be > 0, got %f", name, *val)
	}
	return nil
}
