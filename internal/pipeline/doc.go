// Package pipeline contains the daily runner: the fixed stage table, the
// weekday schedule gate, and the sequential executor that spawns each stage
// under the shared interpreter.
//
// Failure semantics are intentionally permissive. Five of the six stages run
// fire-and-continue: their exit codes are recorded but never branch the run.
// Only the notifier stage has its failure caught and downgraded to a logged
// skip, and only the pre-flight interpreter check can abort a run. Operators
// detect stage failures by reading the run log or the history store, not the
// process exit code.
package pipeline
