package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cathbad/internal/query"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Indent bool
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <query-file>",
		Short: "Print the wire JSON of a query",
		Long: `Decode and validate a query document, then print the exact JSON body
that submit would send. Useful for converting YAML or CUE documents.

Example:
  cathbad encode --indent queries/top-pages.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Indent, "indent", false, "indent the output")

	return cmd
}

func runEncode(opts *EncodeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := loadValid(formatter, path, cmd)
	if err != nil {
		return err
	}

	body, err := query.Marshal(loaded.Query)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSerialization, err.Error(), nil)
	}
	if opts.Indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeSerialization, err.Error(), nil)
		}
		body = buf.Bytes()
	}

	if opts.Format == "json" {
		return formatter.Success("", json.RawMessage(body))
	}
	_, err = fmt.Fprintln(formatter.Writer, string(body))
	return err
}
