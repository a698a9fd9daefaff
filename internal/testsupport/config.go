package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"marketcron/internal/config"
	"marketcron/internal/pipeline"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The interpreter is /bin/sh and every stage script exists as a stub that
// prints its own name, so a full pipeline run succeeds out of the box.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectRoot = base
	cfg.Paths.ScriptsDir = filepath.Join(base, "scripts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "logs", "history.db")
	cfg.Paths.Interpreter = "/bin/sh"
	cfg.History.Enabled = false

	if err := os.MkdirAll(cfg.Paths.ScriptsDir, 0o755); err != nil {
		t.Fatalf("mkdir scripts dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}

	for _, stage := range pipeline.Stages(&cfg) {
		StubStage(t, &cfg, stage.Script, "echo "+stage.Script+"\n")
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithInterpreter overrides the interpreter path on the test config.
func WithInterpreter(path string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.Interpreter = path
	}
}

// WithHistory enables the sqlite history store on the test config.
func WithHistory() ConfigOption {
	return func(c *config.Config) {
		c.History.Enabled = true
	}
}

// StubStage writes a shell stub for the named stage script. The body runs
// under /bin/sh with the project root as working directory.
func StubStage(t testing.TB, cfg *config.Config, script, body string) {
	t.Helper()

	path := cfg.ScriptPath(script)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", script, err)
	}
}
