package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/disaster-response/internal/db"
	"github.com/banshee-data/disaster-response/internal/report"
)

func newRunsCmd(out io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs DATABASE",
		Short: "List recorded training runs, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.OpenExistingDB(args[0])
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			runs, err := database.ListTrainingRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list training runs: %w", err)
			}
			return report.WriteRuns(out, runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum runs to show, 0 for all")
	return cmd
}
