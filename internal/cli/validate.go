package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tslkit/tslkit/internal/specfile"
)

// validateData is the JSON success payload for validate.
type validateData struct {
	Source     string   `json:"source"`
	Categories int      `json:"categories"`
	Choices    int      `json:"choices"`
	Properties int      `json:"properties"`
	Warnings   []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec-file>",
		Short: "Parse a specification without generating frames",
		Long: `Parse and validate a category-partition specification.

Reports categories, choices, and properties on success; syntax errors,
undefined properties, and structural invariant violations fail with exit
code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(rootOpts *RootOptions, specPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	spec, warnings, err := specfile.Load(specPath)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return WrapExitError(ExitFailure, "specification rejected", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(validateData{
			Source:     specPath,
			Categories: len(spec.Categories),
			Choices:    spec.ChoiceCount(),
			Properties: spec.Properties.Len(),
			Warnings:   warnings,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: %d categories, %d choices, %d properties\n",
		specPath, len(spec.Categories), spec.ChoiceCount(), spec.Properties.Len())
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
	}

	return nil
}
