// Command process-data loads the disaster messages and categories CSV files,
// cleans them and stores the result in a SQLite database for training.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/banshee-data/disaster-response/internal/db"
	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/version"
)

const usage = "Please provide the filepaths of the messages and categories " +
	"datasets as the first and second argument respectively, as " +
	"well as the filepath of the database to save the cleaned data " +
	"to as the third argument. \n\nExample: process-data " +
	"disaster_messages.csv disaster_categories.csv " +
	"DisasterResponse.db"

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		table   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "process-data MESSAGES CATEGORIES DATABASE",
		Short:         "Clean disaster messages into a SQLite table",
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			monitoring.UseZap(monitoring.NewConsoleLogger(cmd.ErrOrStderr(), verbose))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				fmt.Fprintln(out, usage)
				return nil
			}
			return run(cmd.Context(), out, options{
				messagesPath:   args[0],
				categoriesPath: args[1],
				databasePath:   args[2],
				table:          table,
			})
		},
	}
	cmd.SetOut(out)
	cmd.Flags().StringVar(&table, "table", db.DefaultTable, "name of the table to replace")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newMigrateCmd(out))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "process-data: %v\n", err)
		os.Exit(1)
	}
}
