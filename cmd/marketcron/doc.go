// Command marketcron runs a daily trading pipeline: six external stage
// scripts executed in fixed order under a shared interpreter, with output
// appended to a single run log. Subcommands inspect the stage table,
// pre-flight state, and recorded run history.
package main
