// Package preflight provides readiness checks for the interpreter and
// filesystem paths the pipeline depends on.
//
// The checks run in two contexts:
//   - The runner calls CheckInterpreter before spawning any stage. A failure
//     here is the only fatal condition: the run aborts with exit code 1
//     before any stage is attempted.
//   - The CLI "marketcron status" command uses RunAll to display readiness
//     without running anything.
package preflight
