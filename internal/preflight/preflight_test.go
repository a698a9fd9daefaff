package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"marketcron/internal/preflight"
	"marketcron/internal/testsupport"
)

func TestCheckInterpreterPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := preflight.CheckInterpreter(cfg.Paths.Interpreter)
	if !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
}

func TestCheckInterpreterMissing(t *testing.T) {
	result := preflight.CheckInterpreter(filepath.Join(t.TempDir(), "venv", "bin", "python"))
	if result.Passed {
		t.Fatal("expected failure for missing interpreter")
	}
}

func TestCheckInterpreterNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "python")
	if err := os.WriteFile(path, []byte("not a binary"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := preflight.CheckInterpreter(path)
	if result.Passed {
		t.Fatal("expected failure for non-executable interpreter")
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckDirectoryAccess("Scripts directory", dir); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if result := preflight.CheckDirectoryAccess("Scripts directory", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing directory")
	}
}

func TestRunAllCoversEveryPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := preflight.RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("check %s failed: %s", result.Name, result.Detail)
		}
	}
}
