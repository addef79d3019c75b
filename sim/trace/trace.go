package trace

import "github.com/google/uuid"

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every dispatch and deadline-miss decision.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized
// trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// Run collects decision records during one simulation run, correlated by
// a generated run ID (§9: traces are a side artifact of a sequential
// ingest/analyze/simulate/emit pipeline, never shared mutable state).
type Run struct {
	ID     string
	Config Config

	Dispatches []DispatchRecord
	Misses     []DeadlineMissRecord
}

// NewRun creates a Run ready for recording, stamped with a fresh UUID.
func NewRun(config Config) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Config:     config,
		Dispatches: make([]DispatchRecord, 0),
		Misses:     make([]DeadlineMissRecord, 0),
	}
}

// RecordDispatch appends a dispatch decision record. A no-op under
// LevelNone so callers can record unconditionally without a branch.
func (r *Run) RecordDispatch(rec DispatchRecord) {
	if r.Config.Level != LevelDecisions {
		return
	}
	r.Dispatches = append(r.Dispatches, rec)
}

// RecordMiss appends a deadline-miss record. A no-op under LevelNone.
func (r *Run) RecordMiss(rec DeadlineMissRecord) {
	if r.Config.Level != LevelDecisions {
		return
	}
	r.Misses = append(r.Misses, rec)
}
