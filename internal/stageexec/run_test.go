package stageexec_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketcron/internal/stageexec"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunMergesStdoutAndStderr(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "stage.sh", "echo out\necho err 1>&2\n")

	var buf bytes.Buffer
	err := stageexec.Run(context.Background(), stageexec.Options{
		Interpreter: "/bin/sh",
		Script:      script,
		WorkDir:     dir,
		Output:      &buf,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "out") || !strings.Contains(out, "err") {
		t.Fatalf("missing merged output: %q", out)
	}
}

func TestRunPassesArgsAndWorkDir(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "stage.sh", "echo \"$1 $2\"\npwd\n")

	var buf bytes.Buffer
	err := stageexec.Run(context.Background(), stageexec.Options{
		Interpreter: "/bin/sh",
		Script:      script,
		Args:        []string{"--mode", "testing"},
		WorkDir:     dir,
		Output:      &buf,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "--mode testing") {
		t.Fatalf("args not forwarded: %q", buf.String())
	}
	if !strings.Contains(buf.String(), dir) {
		t.Fatalf("workdir not applied: %q", buf.String())
	}
}

func TestRunReportsExitCode(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fail.sh", "exit 3\n")

	var buf bytes.Buffer
	err := stageexec.Run(context.Background(), stageexec.Options{
		Interpreter: "/bin/sh",
		Script:      script,
		WorkDir:     dir,
		Output:      &buf,
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if code := stageexec.ExitCode(err); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestRunValidatesOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := stageexec.Run(context.Background(), stageexec.Options{Script: "x", Output: &buf}); err == nil {
		t.Fatal("expected error for missing interpreter")
	}
	if err := stageexec.Run(context.Background(), stageexec.Options{Interpreter: "/bin/sh", Output: &buf}); err == nil {
		t.Fatal("expected error for missing script")
	}
	if err := stageexec.Run(context.Background(), stageexec.Options{Interpreter: "/bin/sh", Script: "x"}); err == nil {
		t.Fatal("expected error for missing output sink")
	}
}

func TestExitCodeNilError(t *testing.T) {
	if code := stageexec.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}
