package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and interpreter configuration shared by every
// stage invocation.
type Paths struct {
	ProjectRoot string `toml:"project_root"`
	ScriptsDir  string `toml:"scripts_dir"`
	LogDir      string `toml:"log_dir"`
	Interpreter string `toml:"interpreter"`
	HistoryDB   string `toml:"history_db"`
}

// Screener contains configuration for the screener stage invocation.
type Screener struct {
	Mode string `toml:"mode"`
}

// Reporter contains configuration for the weekly reporter schedule gate.
type Reporter struct {
	Weekday string `toml:"weekday"`
}

// Cleanup contains configuration for the optional trailing cleanup stage.
type Cleanup struct {
	Enabled    bool `toml:"enabled"`
	MaxAgeDays int  `toml:"max_age_days"`
}

// Workflow contains runner behavior toggles.
type Workflow struct {
	RunLock bool `toml:"run_lock"`
}

// Notifications contains configuration for ntfy push notifications about
// runner lifecycle events.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	RunStart       bool   `toml:"run_start"`
	RunComplete    bool   `toml:"run_complete"`
	Errors         bool   `toml:"errors"`
}

// History contains configuration for the run history store.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for marketcron.
//
// Configuration sections by subsystem:
//   - Paths: project root, stage scripts, log directory, interpreter
//   - Screener: operational mode passed to the screener stage
//   - Reporter: weekday gate for the weekly reporter stage
//   - Cleanup: optional trailing cleanup stage
//   - Workflow: single-instance run lock
//   - Notifications: ntfy push notification settings
//   - History: sqlite run history store
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Screener      Screener      `toml:"screener"`
	Reporter      Reporter      `toml:"reporter"`
	Cleanup       Cleanup       `toml:"cleanup"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marketcron/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marketcron.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run. The log directory
// is mandatory: the run log and history store live there, and failing to
// create it aborts before any stage runs.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
	}
	if dir := filepath.Dir(c.Paths.HistoryDB); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

// RunLogPath returns the append-only run log shared by the runner and every
// stage child process.
func (c *Config) RunLogPath() string {
	return filepath.Join(c.Paths.LogDir, "cron.log")
}

// LockPath returns the flock path used when workflow.run_lock is enabled.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "marketcron.lock")
}

// ScriptPath resolves a stage script name inside the scripts directory.
func (c *Config) ScriptPath(name string) string {
	return filepath.Join(c.Paths.ScriptsDir, name)
}

// ReporterWeekday returns the parsed weekday gate target. Validate guarantees
// the configured value parses.
func (c *Config) ReporterWeekday() time.Weekday {
	day, _ := ParseWeekday(c.Reporter.Weekday)
	return day
}

// ParseWeekday maps a lowercase weekday name or ISO 1-7 number (Monday=1,
// Sunday=7) to a time.Weekday.
func ParseWeekday(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "monday", "1":
		return time.Monday, nil
	case "tuesday", "2":
		return time.Tuesday, nil
	case "wednesday", "3":
		return time.Wednesday, nil
	case "thursday", "4":
		return time.Thursday, nil
	case "friday", "5":
		return time.Friday, nil
	case "saturday", "6":
		return time.Saturday, nil
	case "sunday", "7":
		return time.Sunday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", value)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
