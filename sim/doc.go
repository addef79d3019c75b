// Package sim implements the hierarchical schedulability analyzer and
// discrete-time simulator for a two-level scheduling hierarchy: cores,
// each hosting one or more component servers, each running a set of
// periodic tasks under a Bounded Delay Resource (BDR) supply.
//
// # Reading Guide
//
// Start with these files to understand the data model and the two core
// subsystems:
//   - types.go: Task, Component, Core, SystemModel and the SupplyInterface
//     and Scheduler sum types
//   - dbf.go / halfhalf.go: the numeric primitives (DBF/SBF) and the
//     Half-Half (α,Δ)↔(Q,P) mapping they build on
//   - component.go / core.go / hierarchy.go: the analytical path —
//     per-component DBF≤SBF tests and WCRT, per-core server arbitration,
//     and the orchestrator tying both together
//   - simulator.go: the discrete-time cross-check — fixed-dt stepping,
//     per-server budget replenishment, per-component dispatch
//
// # Architecture
//
// The sim package holds the core engine. Thin I/O and optimization
// wrappers live in sub-packages and depend on sim, never the reverse:
//   - sim/ingest: CSV loading of tasks/architecture/budgets/comm-links
//   - sim/emit: CSV emission of the solution table
//   - sim/autotune: BDR auto-tuning drivers
//   - sim/assign: greedy core-assignment heuristic
//   - sim/trace: pure decision-trace records emitted by the simulator
//
// # Key interfaces
//
//   - DispatchPolicy: orders ready jobs within a component's quantum (EDF
//     or FPS/RM)
//   - SupplyInterface: the BDR/PRM sum type every component carries
//
// Analysis and simulation are independent cross-checks over the same
// data model: an analyzer verdict of schedulable implies the simulator
// reports zero missed deadlines over a hyper-period (§8), and a
// simulator miss implies the analyzer would have flagged the component
// unschedulable.
//
// The simulator's per-step "fair" core arbitration (splitting α·dt
// concurrently across every active server) models the BDR supply
// bound, not a real single-CPU trace — it is a sufficiency cross-check,
// not an exact scheduler simulation. See core.go for the analytical
// FPS/EDF core arbitration that IS exact.
package sim
