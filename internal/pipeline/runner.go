package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marketcron/internal/config"
	"marketcron/internal/logging"
	"marketcron/internal/preflight"
	"marketcron/internal/stageexec"
)

// ErrPreflight indicates the interpreter check failed before any stage ran.
// The CLI maps it to exit code 1.
var ErrPreflight = errors.New("preflight check failed")

// Runner executes the fixed stage sequence once per invocation. It holds no
// mutable state beyond the values computed at construction, so two runs in
// immediate succession are independent save for the shared append-only log.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	sink     io.Writer
	recorder Recorder
	notifier Notifier
	now      func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder attaches a run history recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) { r.recorder = recorder }
}

// WithNotifier attaches a lifecycle notifier.
func WithNotifier(notifier Notifier) Option {
	return func(r *Runner) { r.notifier = notifier }
}

// WithClock injects the wall clock used for the schedule gate and banners.
// Tests use this to pin the weekday.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner builds a runner. sink is the append-only run log that receives
// raw stage output; logger carries the lifecycle lines mirrored to console
// and log.
func NewRunner(cfg *config.Config, logger *slog.Logger, sink io.Writer, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
		sink:   sink,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline once: pre-flight, then every stage in fixed
// order, sequential and blocking. Only the pre-flight check can fail the run;
// stage failures are either ignored by policy or downgraded to a logged skip.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	started := r.now()
	stages := Stages(r.cfg)

	logger := r.logger.With(logging.Args(logging.String(logging.FieldRunID, runID))...)
	logger.Info("daily pipeline starting",
		logging.Args(
			logging.String(logging.FieldEventType, "run_start"),
			logging.String("interpreter", r.cfg.Paths.Interpreter),
			logging.Int("stages", len(stages)),
		)...)

	if check := preflight.CheckInterpreter(r.cfg.Paths.Interpreter); !check.Passed {
		logger.Error("interpreter unavailable, aborting before any stage",
			logging.Args(
				logging.String(logging.FieldEventType, "preflight_failure"),
				logging.String("detail", check.Detail),
			)...)
		if r.notifier != nil {
			if err := r.notifier.PreflightFailed(ctx, check.Detail); err != nil {
				logger.Debug("preflight notification failed", logging.Args(logging.Error(err))...)
			}
		}
		return fmt.Errorf("%w: %s", ErrPreflight, check.Detail)
	}

	if r.notifier != nil {
		if err := r.notifier.RunStarted(ctx, runID, len(stages)); err != nil {
			logger.Debug("run start notification failed", logging.Args(logging.Error(err))...)
		}
	}

	summary := RunSummary{ID: runID, StartedAt: started}
	for _, stage := range stages {
		summary.Results = append(summary.Results, r.runStage(ctx, logger, stage))
	}
	summary.FinishedAt = r.now()

	logger.Info("daily pipeline complete",
		logging.Args(
			logging.String(logging.FieldEventType, "run_complete"),
			logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
			logging.Int("soft_failures", summary.SoftFailures()),
		)...)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, summary); err != nil {
			logger.Warn("failed to record run history", logging.Args(logging.Error(err))...)
		}
	}
	if r.notifier != nil {
		if err := r.notifier.RunCompleted(ctx, summary); err != nil {
			logger.Debug("run complete notification failed", logging.Args(logging.Error(err))...)
		}
	}

	return nil
}

func (r *Runner) runStage(ctx context.Context, logger *slog.Logger, stage Stage) StageResult {
	stageLogger := logger.With(logging.Args(logging.String(logging.FieldStage, stage.Name))...)

	if stage.Gate != nil {
		now := r.now()
		if !stage.Gate.Open(now) {
			stageLogger.Info("schedule gate closed, skipping stage",
				logging.Args(
					logging.String(logging.FieldEventType, "stage_skip"),
					logging.String("today", now.Weekday().String()),
					logging.String("runs_on", stage.Gate.Target.String()),
				)...)
			return StageResult{Stage: stage, Status: StageSkipped}
		}
		stageLogger.Info("schedule gate open, running stage",
			logging.Args(
				logging.String(logging.FieldEventType, "stage_gate_open"),
				logging.String("today", now.Weekday().String()),
			)...)
	}

	stageLogger.Info("stage started",
		logging.Args(
			logging.String(logging.FieldEventType, "stage_start"),
			logging.String("script", stage.Script),
		)...)

	begin := time.Now()
	err := stageexec.Run(ctx, stageexec.Options{
		Interpreter: r.cfg.Paths.Interpreter,
		Script:      r.cfg.ScriptPath(stage.Script),
		Args:        stage.Args,
		WorkDir:     r.cfg.Paths.ProjectRoot,
		Output:      r.sink,
	})
	elapsed := time.Since(begin)

	result := StageResult{
		Stage:    stage,
		Status:   StageCompleted,
		ExitCode: stageexec.ExitCode(err),
		Duration: elapsed,
	}

	switch {
	case err == nil:
		stageLogger.Info("stage completed",
			logging.Args(
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.Duration("elapsed", elapsed),
			)...)
	case stage.Policy == PolicySoft:
		result.Status = StageSoftFailed
		stageLogger.Warn(stage.SkipReason,
			logging.Args(
				logging.String(logging.FieldEventType, "stage_soft_failure"),
				logging.Error(err),
			)...)
	default:
		// Fire-and-continue: the exit status is recorded for history but
		// deliberately not used for control flow.
		result.Status = StageFailed
		stageLogger.Debug("stage process exited non-zero",
			logging.Args(logging.Int("exit_code", result.ExitCode))...)
	}

	return result
}
