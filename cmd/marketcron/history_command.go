package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"marketcron/internal/config"
	"marketcron/internal/history"
)

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent pipeline runs",
		Long: `List recent runs from the history store, newest first. With a run ID
argument, show the per-stage outcomes recorded for that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if len(args) == 1 {
				outcomes, err := store.StagesForRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No stages recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					rows = append(rows, []string{
						strconv.Itoa(outcome.Position),
						outcome.Name,
						outcome.Status,
						strconv.Itoa(outcome.ExitCode),
						outcome.Duration.Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"#", "Stage", "Status", "Exit", "Duration"}, rows))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
					strconv.Itoa(run.SoftFailures),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Run", "Started", "Duration", "Soft failures"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}
