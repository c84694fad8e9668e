package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cathbad/internal/query"
)

// ValidationResult is the JSON payload of a successful validate.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	QueryType string `json:"query_type"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query-file>",
		Short: "Check a query without sending it",
		Long: `Decode a query document and run both validation phases.

The discriminator of every component must match its shape and every
nested component must itself be valid. Nothing is sent to the engine.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := loadValid(formatter, path, cmd)
	if err != nil {
		return err
	}

	queryType := query.TypeOf(loaded.Query)
	return formatter.Success(
		fmt.Sprintf("✓ %s query valid", queryType),
		ValidationResult{Valid: true, QueryType: queryType},
	)
}

// loadValid loads path and rejects queries that fail validation.
// On failure the error has already been reported through f.
func loadValid(f *OutputFormatter, path string, cmd *cobra.Command) (*LoadedQuery, error) {
	loaded, err := LoadQuery(path, cmd.InOrStdin())
	if err != nil {
		return nil, loadFailure(f, err)
	}
	if !query.Validate(loaded.Query) {
		return nil, f.Fail(ExitFailure, ErrCodeInvalidQuery,
			fmt.Sprintf("%s query in %s failed validation", query.TypeOf(loaded.Query), path), nil)
	}
	return loaded, nil
}
