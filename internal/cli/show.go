package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tslkit/tslkit/internal/generator"
	"github.com/tslkit/tslkit/internal/model"
	"github.com/tslkit/tslkit/internal/render"
	"github.com/tslkit/tslkit/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath   string
	TypeName string // filter: normal | single | error
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Render a persisted generation run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database of persisted runs (required)")
	cmd.Flags().StringVar(&opts.TypeName, "type", "", "only show frames of this type (normal|single|error)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open run store", err)
	}
	defer st.Close()

	run, frames, err := st.ReadRun(cmd.Context(), runID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		code := ExitCommandError
		if errors.Is(err, store.ErrRunNotFound) {
			code = ExitFailure
		}
		return WrapExitError(code, "read run", err)
	}

	if opts.TypeName != "" {
		want, err := model.ParseFrameType(opts.TypeName)
		if err != nil {
			_ = formatter.Error(ErrCodeIO, err.Error(), nil)
			return WrapExitError(ExitCommandError, "bad --type", err)
		}
		filtered := frames[:0]
		for _, f := range frames {
			if f.Type == want {
				filtered = append(filtered, f)
			}
		}
		frames = filtered
	}

	if formatter.Format == "json" {
		result := &generator.Result{SpecName: run.Source, Frames: frames}
		return formatter.Success(buildGenerateData(run.Source, run.ID, result))
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s)\n", run.ID, run.Source)
	renderer := render.Renderer{Color: !opts.NoColor}
	for _, f := range frames {
		fmt.Fprint(formatter.Writer, renderer.Frame(f))
	}

	return nil
}
