package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"marketcron/internal/pipeline"
)

// Store persists run summaries to SQLite. It is write-mostly: the runner
// records summaries after each run, and the history command reads them back.
// Nothing in the runner ever reads the store, so recorded state cannot leak
// into a later run's behavior.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Record stores one run summary and its per-stage outcomes in a single
// transaction. It implements pipeline.Recorder.
func (s *Store) Record(ctx context.Context, summary pipeline.RunSummary) error {
	if summary.ID == "" {
		return errors.New("run summary requires an id")
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO runs (id, started_at, finished_at, soft_failures) VALUES (?, ?, ?, ?)",
			summary.ID,
			summary.StartedAt.UTC().Format(time.RFC3339),
			summary.FinishedAt.UTC().Format(time.RFC3339),
			summary.SoftFailures(),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, result := range summary.Results {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO run_stages (run_id, position, name, status, exit_code, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
				summary.ID,
				result.Stage.Position,
				result.Stage.Name,
				string(result.Status),
				result.ExitCode,
				result.Duration.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert stage outcome: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
}

// Run is a stored run row.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	SoftFailures int
}

// StageOutcome is a stored per-stage row.
type StageOutcome struct {
	RunID    string
	Position int
	Name     string
	Status   string
	ExitCode int
	Duration time.Duration
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, soft_failures FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.SoftFailures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StagesForRun returns the recorded stage outcomes for one run in position
// order.
func (s *Store) StagesForRun(ctx context.Context, runID string) ([]StageOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, position, name, status, exit_code, duration_ms FROM run_stages WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query stage outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []StageOutcome
	for rows.Next() {
		var outcome StageOutcome
		var durationMS int64
		if err := rows.Scan(&outcome.RunID, &outcome.Position, &outcome.Name, &outcome.Status, &outcome.ExitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("scan stage outcome: %w", err)
		}
		outcome.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}
