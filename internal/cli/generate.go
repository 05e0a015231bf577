package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tslkit/tslkit/internal/generator"
	"github.com/tslkit/tslkit/internal/render"
	"github.com/tslkit/tslkit/internal/specfile"
	"github.com/tslkit/tslkit/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	DBPath    string // persist the run when set
	MaxStates int    // step budget for the backtracking search, 0 = unbounded
}

// frameJSON is the JSON shape of one frame in CLI output.
type frameJSON struct {
	Seq     int               `json:"seq"`
	Type    string            `json:"type"`
	Key     string            `json:"key,omitempty"`
	Branch  string            `json:"branch,omitempty"`
	Entries []generator.Entry `json:"entries"`
}

// generateData is the JSON success payload for generate.
type generateData struct {
	Source string      `json:"source"`
	RunID  string      `json:"run_id,omitempty"`
	Total  int         `json:"total"`
	Normal int         `json:"normal"`
	Single int         `json:"single"`
	Error  int         `json:"error"`
	Frames []frameJSON `json:"frames"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <spec-file>",
		Short: "Generate test frames from a specification",
		Long: `Generate test frames from a category-partition specification.

Single and error frames are extracted first, then every valid cross-category
combination of normal choices is enumerated. Frame order, keys, and sequence
numbers are deterministic for a given specification.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "persist the run to this SQLite database")
	cmd.Flags().IntVar(&opts.MaxStates, "max-states", 0, "abort after visiting this many search states (0 = unbounded)")

	return cmd
}

func runGenerate(opts *GenerateOptions, specPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, warnings, err := specfile.Load(specPath)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return WrapExitError(ExitFailure, "specification rejected", err)
	}
	for _, w := range warnings {
		formatter.VerboseLog("warning: %s", w)
	}

	var genOpts []generator.Option
	if opts.MaxStates > 0 {
		genOpts = append(genOpts, generator.WithStepBudget(opts.MaxStates))
	}

	result, err := generator.New(spec, genOpts...).Generate()
	if err != nil {
		_ = formatter.Error(ErrCodeGenerate, err.Error(), nil)
		return WrapExitError(ExitFailure, "generation failed", err)
	}

	runID := ""
	if opts.DBPath != "" {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open run store", err)
		}
		defer st.Close()

		run, err := st.SaveRun(cmd.Context(), specPath, result)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "save run", err)
		}
		runID = run.ID
	}

	if formatter.Format == "json" {
		return formatter.Success(buildGenerateData(specPath, runID, result))
	}

	renderer := render.Renderer{Color: !opts.NoColor}
	fmt.Fprint(formatter.Writer, renderer.Result(result))
	if runID != "" {
		fmt.Fprintf(formatter.Writer, "\nSaved run %s\n", runID)
	}

	return nil
}

func buildGenerateData(source, runID string, result *generator.Result) generateData {
	data := generateData{
		Source: source,
		RunID:  runID,
		Total:  result.Total(),
		Normal: result.NormalCount(),
		Single: result.SingleCount(),
		Error:  result.ErrorCount(),
		Frames: make([]frameJSON, len(result.Frames)),
	}
	for i, f := range result.Frames {
		data.Frames[i] = frameJSON{
			Seq:     f.Seq,
			Type:    f.Type.String(),
			Key:     f.Key,
			Branch:  string(f.Branch),
			Entries: f.Entries,
		}
	}
	return data
}
