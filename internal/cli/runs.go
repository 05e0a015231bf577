package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tslkit/tslkit/internal/store"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List persisted generation runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database of persisted runs (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(rootOpts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open run store", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %d frames (%d normal, %d single, %d error)\n",
			run.ID,
			run.CreatedAt.Format(time.RFC3339),
			run.Source,
			run.Total, run.Normal, run.Single, run.Error,
		)
	}

	return nil
}
