package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"marketcron/internal/config"
	"marketcron/internal/history"
	"marketcron/internal/logging"
	"marketcron/internal/notifications"
	"marketcron/internal/pipeline"
	"marketcron/internal/runlock"
)

func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the daily pipeline once",
		Long: `Execute the six pipeline stages in fixed order, appending all stage
output to the run log. Intended for unattended cron scheduling: the command
takes no arguments and exits 0 unless the pre-flight interpreter check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			if cfg.Workflow.RunLock {
				lock, err := runlock.Acquire(cfg.LockPath())
				if err != nil {
					return err
				}
				defer func() { _ = lock.Release() }()
			}

			sink, err := logging.OpenRunLog(cfg.RunLogPath())
			if err != nil {
				return err
			}
			defer sink.Close()

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Writers: []io.Writer{os.Stdout, sink},
			})
			if err != nil {
				return err
			}

			opts := []pipeline.Option{
				pipeline.WithNotifier(notifications.NewService(cfg)),
			}
			if cfg.History.Enabled {
				store, err := history.Open(cfg.Paths.HistoryDB)
				if err != nil {
					logger.Warn("history store unavailable, continuing without it", logging.Args(logging.Error(err))...)
				} else {
					defer store.Close()
					opts = append(opts, pipeline.WithRecorder(store))
				}
			}

			runner := pipeline.NewRunner(cfg, logger, sink, opts...)
			return runner.Run(cmd.Context())
		},
	}
}
