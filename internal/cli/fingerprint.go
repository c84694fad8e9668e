package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cathbad/internal/query"
)

// FingerprintResult is the JSON payload of the fingerprint command.
type FingerprintResult struct {
	QueryType   string `json:"query_type"`
	Fingerprint string `json:"fingerprint"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <query-file>",
		Short: "Print the content hash of a query",
		Long: `Print a stable hash of the query's wire form.

Documents that differ only in key order, whitespace or source format
(JSON, YAML, CUE) have the same fingerprint. The submit command logs
the same value.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := loadValid(formatter, path, cmd)
	if err != nil {
		return err
	}

	fp, err := query.Fingerprint(loaded.Query)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSerialization, err.Error(), nil)
	}
	return formatter.Success(fp, FingerprintResult{
		QueryType:   query.TypeOf(loaded.Query),
		Fingerprint: fp,
	})
}
