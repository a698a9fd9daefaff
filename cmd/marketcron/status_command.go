package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marketcron/internal/config"
	"marketcron/internal/preflight"
)

func newStatusCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Run pre-flight checks without executing any stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s", path)
			if !exists {
				fmt.Fprint(out, " (defaults; file not found)")
			}
			fmt.Fprintln(out)

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				state := "PASS"
				if !result.Passed {
					state = "FAIL"
					failed++
				}
				rows = append(rows, []string{state, result.Name, result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"State", "Check", "Detail"}, rows))

			if failed > 0 {
				return fmt.Errorf("%d pre-flight check(s) failed", failed)
			}
			return nil
		},
	}
}
