// Package advisor provides the per-entity behavior selection core for game agents.
//
// # Reading Guide
//
// Start with these files to understand the decision cycle:
//   - suggestion.go: Suggestion records (variant, score, payload) and score validation
//   - collector.go: per-tick accumulation of suggestions
//   - decision.go: champion reduction, argmax with declaration-order tie-break, hysteresis
//   - sync.go: diffing two decisions into Deactivate/Activate/Update events
//   - advisor.go: the per-entity phase machine (Collect → Decide → Apply)
//
// # Architecture
//
// The advisor package holds pure data types and pure functions; hosts own the
// loop. Reference host implementations live in sub-packages:
//   - advisor/world/: multi-entity tick loop, parallel evaluation, metrics
//   - advisor/scenario/: YAML-described variants, entities and evaluators
//   - advisor/trace/: decision trace recording, summaries and export
//
// # Key Types
//
//   - Catalog: the closed, ordered set of behavior variants
//   - Payload: tagged-union member; each payload reports its own Variant
//   - Decision: the active behavior of one entity
//   - Policy: hysteresis margin, tie-break rule, decision stage
//   - Registry: dispatch table mapping each variant to attach/update/detach
//
// Decide and Synchronize never log, allocate goroutines or touch I/O. Invoking
// Decide twice on the same inputs yields the same Verdict.
package advisor
