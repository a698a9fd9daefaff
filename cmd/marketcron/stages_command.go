package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marketcron/internal/config"
	"marketcron/internal/pipeline"
)

func newStagesCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "Show the configured stage table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows := make([][]string, 0, 7)
			for _, stage := range pipeline.Stages(cfg) {
				gate := "-"
				if stage.Gate != nil {
					gate = stage.Gate.Target.String() + " only"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", stage.Position),
					stage.Name,
					stage.Script,
					strings.Join(stage.Args, " "),
					string(stage.Policy),
					gate,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Stage", "Script", "Args", "Policy", "Gate"},
				rows,
			))
			return nil
		},
	}
}
