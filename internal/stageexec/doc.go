// Package stageexec spawns one pipeline stage as a child process under the
// shared interpreter, with stdout and stderr merged into the run log.
package stageexec
