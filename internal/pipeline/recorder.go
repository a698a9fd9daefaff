package pipeline

import "context"

// Recorder persists run summaries. Implementations must be purely
// observational: the runner never reads anything back, so recorded state
// cannot influence a later run.
type Recorder interface {
	Record(ctx context.Context, summary RunSummary) error
}

// Notifier publishes runner lifecycle events to an external channel.
type Notifier interface {
	RunStarted(ctx context.Context, runID string, stages int) error
	RunCompleted(ctx context.Context, summary RunSummary) error
	PreflightFailed(ctx context.Context, detail string) error
}
