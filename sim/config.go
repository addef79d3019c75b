package sim

// AnalysisConfig groups the static analyzer's tunable bounds. Adapted
// from the teacher's per-subsystem *Config grouping idiom
// (KVCacheConfig/BatchConfig/...), specialized to schedulability
// analysis instead of GPU/KV parameters.
type AnalysisConfig struct {
	// MaxWCRTIterations caps the fixed-point response-time iteration
	// (§7 kind 4); exceeding it is treated as divergence to +Inf.
	MaxWCRTIterations int
}

// DefaultAnalysisConfig returns the spec's stated default iteration cap.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{MaxWCRTIterations: maxWCRTIterations}
}

// RunConfig groups the simulator's tunable run parameters (§4.6).
type RunConfig struct {
	Dt      float64 // fixed simulation step
	Horizon float64 // 0 means "derive from DefaultHorizon"
}

// DefaultRunConfig returns the spec's stated default dt, with Horizon
// left for the caller to derive per-model via DefaultHorizon.
func DefaultRunConfig() RunConfig {
	return RunConfig{Dt: 0.1}
}
