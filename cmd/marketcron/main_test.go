package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig lays out a temp trading-system checkout with stub stage
// scripts and returns the config file path.
func writeTestConfig(t *testing.T, extra string) (string, string) {
	t.Helper()

	base := t.TempDir()
	scriptsDir := filepath.Join(base, "scripts")
	if err := os.MkdirAll(scriptsDir, 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(base, "logs"), 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	for _, script := range []string{
		"1_data_collector.py",
		"2_screener.py",
		"3_analyzer.py",
		"4_notifier.py",
		"5_tracker.py",
		"6_reporter.py",
		"7_cleanup.py",
	} {
		path := filepath.Join(scriptsDir, script)
		if err := os.WriteFile(path, []byte("echo "+script+"\n"), 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}

	content := strings.Join([]string{
		"[paths]",
		`project_root = "` + base + `"`,
		`scripts_dir = "` + scriptsDir + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		`interpreter = "/bin/sh"`,
		extra,
	}, "\n")
	configPath := filepath.Join(base, "marketcron.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, base
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandWritesRunLog(t *testing.T) {
	configPath, base := writeTestConfig(t, "")

	if _, err := execute(t, "run", "--config", configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "logs", "cron.log"))
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	log := string(data)
	if !strings.Contains(log, "daily pipeline starting") || !strings.Contains(log, "daily pipeline complete") {
		t.Fatalf("missing banners in run log:\n%s", log)
	}
	for _, script := range []string{"1_data_collector.py", "2_screener.py", "3_analyzer.py", "4_notifier.py", "5_tracker.py"} {
		if !strings.Contains(log, script) {
			t.Fatalf("stage output for %s missing from run log:\n%s", script, log)
		}
	}
}

func TestRunCommandRecordsHistory(t *testing.T) {
	configPath, base := writeTestConfig(t, "")

	if _, err := execute(t, "run", "--config", configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "logs", "history.db")); err != nil {
		t.Fatalf("history db not created: %v", err)
	}

	out, err := execute(t, "history", "--config", configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "No runs recorded yet") {
		t.Fatalf("expected a recorded run:\n%s", out)
	}
}

func TestRunCommandFailsOnMissingInterpreter(t *testing.T) {
	configPath, _ := writeTestConfig(t, "")
	broken := strings.Replace(mustRead(t, configPath), "/bin/sh", "/nonexistent/python", 1)
	if err := os.WriteFile(configPath, []byte(broken), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	if _, err := execute(t, "run", "--config", configPath); err == nil {
		t.Fatal("expected run to fail when interpreter is missing")
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestStagesCommandListsStageTable(t *testing.T) {
	configPath, _ := writeTestConfig(t, "")

	out, err := execute(t, "stages", "--config", configPath)
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	for _, want := range []string{"Data Collector", "Screener", "--mode testing", "soft", "Sunday only"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stages output missing %q:\n%s", want, out)
		}
	}
}

func TestStagesCommandIncludesCleanupWhenEnabled(t *testing.T) {
	configPath, _ := writeTestConfig(t, "[cleanup]\nenabled = true\nmax_age_days = 14\n")

	out, err := execute(t, "stages", "--config", configPath)
	if err != nil {
		t.Fatalf("stages: %v", err)
	}
	if !strings.Contains(out, "7_cleanup.py") || !strings.Contains(out, "--older-than 14") {
		t.Fatalf("cleanup stage missing:\n%s", out)
	}
}

func TestStatusCommandReportsChecks(t *testing.T) {
	configPath, _ := writeTestConfig(t, "")

	out, err := execute(t, "status", "--config", configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Interpreter") || !strings.Contains(out, "PASS") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output:\n%s", out)
	}

	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}

	out, err = execute(t, "config", "validate", "--config", target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	configPath, _ := writeTestConfig(t, "")

	out, err := execute(t, "config", "show", "--config", configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[screener]") || !strings.Contains(out, "mode = 'testing'") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestTestNotifyRequiresTopic(t *testing.T) {
	configPath, _ := writeTestConfig(t, "")
	if _, err := execute(t, "test-notify", "--config", configPath); err == nil {
		t.Fatal("expected error when no ntfy topic is configured")
	}
}
