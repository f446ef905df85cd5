// Command train-classifier fits the multi-label message classifier on the
// table written by process-data, reports held-out scores and saves the model.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/banshee-data/disaster-response/internal/monitoring"
	"github.com/banshee-data/disaster-response/internal/version"
)

const usage = "Please provide the filepath of the disaster messages database " +
	"as the first argument and the filepath of the model file to " +
	"save the model to as the second argument. \n\nExample: " +
	"train-classifier ../data/DisasterResponse.db classifier.model"

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		o       options
		verbose bool
	)
	cmd := &cobra.Command{
		Use:           "train-classifier DATABASE MODEL",
		Short:         "Grid search, train and save the disaster message classifier",
		Version:       version.String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			monitoring.UseZap(monitoring.NewConsoleLogger(cmd.ErrOrStderr(), verbose))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				fmt.Fprintln(out, usage)
				return nil
			}
			o.databasePath, o.modelPath = args[0], args[1]
			o.seedSet = cmd.Flags().Changed("seed")
			return run(cmd.Context(), out, o)
		},
	}
	cmd.SetOut(out)

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "training config file (.json, .yaml or .yml)")
	f.StringVar(&o.reportPNG, "report-png", "", "write a per-category score chart to this PNG file")
	f.StringVar(&o.reportHTML, "report-html", "", "write an interactive score page to this HTML file")
	f.StringVar(&o.ngramMax, "ngram-max", "", "override the n-gram upper bounds, e.g. 1,2 or 1:3:1")
	f.StringVar(&o.maxDF, "max-df", "", "override max_df values, e.g. 0.5,1.0 or 0.5:1.0:0.25")
	f.StringVar(&o.useIDF, "use-idf", "", "override use_idf values, e.g. true,false")
	f.Int64Var(&o.seed, "seed", 0, "seed for the train/test split and CV folds")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRunsCmd(out))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "train-classifier: %v\n", err)
		os.Exit(1)
	}
}
