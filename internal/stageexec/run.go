package stageexec

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Options controls a single stage child process.
type Options struct {
	// Interpreter is the shared runtime binary every stage runs under.
	Interpreter string
	// Script is the absolute path of the stage script.
	Script string
	// Args are fixed invocation arguments appended after the script.
	Args []string
	// WorkDir is the working directory for the child, normally the project root.
	WorkDir string
	// Output receives the merged stdout and stderr of the child. Required.
	Output io.Writer
}

// Run spawns the stage and blocks until it terminates. The child inherits the
// parent environment; its combined output is appended to Options.Output. A
// non-zero exit surfaces as *exec.ExitError — policy handling is the caller's
// concern.
func Run(ctx context.Context, opts Options) error {
	if opts.Interpreter == "" {
		return errors.New("stage interpreter is required")
	}
	if opts.Script == "" {
		return errors.New("stage script is required")
	}
	if opts.Output == nil {
		return errors.New("stage output sink is required")
	}

	args := append([]string{opts.Script}, opts.Args...)
	cmd := exec.CommandContext(ctx, opts.Interpreter, args...)
	cmd.Dir = opts.WorkDir
	cmd.Stdout = opts.Output
	cmd.Stderr = opts.Output
	return cmd.Run()
}

// ExitCode extracts the child's exit code from a Run error. It returns -1
// when the error does not carry one (spawn failures, cancellation).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
