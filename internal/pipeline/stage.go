package pipeline

import (
	"strconv"
	"time"

	"marketcron/internal/config"
)

// Policy describes how the runner treats a stage's exit status.
type Policy string

const (
	// PolicyIgnore dispatches the stage and deliberately never branches on
	// its exit status. The stage's output still lands in the run log, and
	// the outcome is recorded to history, but a failure does not block the
	// stages that follow.
	PolicyIgnore Policy = "ignore"
	// PolicySoft catches a non-zero exit, logs a substitute skip line, and
	// continues the run.
	PolicySoft Policy = "soft"
)

// Stage is one external pipeline step: an ordered position, a script run
// under the shared interpreter, fixed invocation arguments, a failure policy,
// and an optional schedule gate.
type Stage struct {
	Position int
	Name     string
	Script   string
	Args     []string
	Policy   Policy
	// SkipReason is the substitute log line written when a PolicySoft stage
	// fails.
	SkipReason string
	// Gate, when set, decides whether the stage runs at all.
	Gate *WeekdayGate
}

// StageStatus is the recorded outcome of one stage within a run.
type StageStatus string

const (
	StageCompleted  StageStatus = "completed"
	StageFailed     StageStatus = "failed"
	StageSoftFailed StageStatus = "soft_failed"
	StageSkipped    StageStatus = "skipped"
)

// StageResult captures what happened to one stage during a run. Results are
// observational: nothing in the runner reads them back to alter control flow.
type StageResult struct {
	Stage    Stage
	Status   StageStatus
	ExitCode int
	Duration time.Duration
}

// RunSummary describes one complete invocation of the pipeline.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []StageResult
}

// SoftFailures counts stages that hit the soft-failure path.
func (s RunSummary) SoftFailures() int {
	count := 0
	for _, result := range s.Results {
		if result.Status == StageSoftFailed {
			count++
		}
	}
	return count
}

// Stages returns the fixed stage table for one run. Order is total and never
// changes at runtime; only the screener mode, the reporter weekday, and the
// optional trailing cleanup stage come from configuration.
func Stages(cfg *config.Config) []Stage {
	stages := []Stage{
		{
			Position: 1,
			Name:     "Data Collector",
			Script:   "1_data_collector.py",
			Policy:   PolicyIgnore,
		},
		{
			Position: 2,
			Name:     "Screener",
			Script:   "2_screener.py",
			Args:     []string{"--mode", cfg.Screener.Mode},
			Policy:   PolicyIgnore,
		},
		{
			Position: 3,
			Name:     "Analyzer",
			Script:   "3_analyzer.py",
			Policy:   PolicyIgnore,
		},
		{
			Position:   4,
			Name:       "Notifier",
			Script:     "4_notifier.py",
			Policy:     PolicySoft,
			SkipReason: "notifier skipped (likely missing credentials)",
		},
		{
			Position: 5,
			Name:     "Tracker",
			Script:   "5_tracker.py",
			Policy:   PolicyIgnore,
		},
		{
			Position: 6,
			Name:     "Weekly Reporter",
			Script:   "6_reporter.py",
			Policy:   PolicyIgnore,
			Gate:     &WeekdayGate{Target: cfg.ReporterWeekday()},
		},
	}

	if cfg.Cleanup.Enabled {
		stages = append(stages, Stage{
			Position: 7,
			Name:     "Cleanup",
			Script:   "7_cleanup.py",
			Args:     []string{"--all", "--older-than", strconv.Itoa(cfg.Cleanup.MaxAgeDays)},
			Policy:   PolicyIgnore,
		})
	}

	return stages
}
