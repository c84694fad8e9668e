package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/cathbad/internal/client"
	"github.com/roach88/cathbad/internal/config"
	"github.com/roach88/cathbad/internal/query"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	AssignQueryID bool
	Timeout       time.Duration
	MetricsFile   string
}

// QueryIDGenerator produces ids for --assign-query-id.
type QueryIDGenerator interface {
	Generate() (string, error)
}

type uuidV7Generator struct{}

func (uuidV7Generator) Generate() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SubmitResult is the JSON payload of a successful submit.
type SubmitResult struct {
	QueryType string `json:"query_type"`
	QueryID   string `json:"query_id,omitempty"`
	Address   string `json:"address"`
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit <query-file>",
		Short: "Validate and send a query to the engine",
		Long: `Validate a query document and POST it to the configured endpoint.

The result rows are discarded; the command reports whether the engine
accepted the query and, if not, which engine error it returned.

Example:
  cathbad submit --endpoint http://router --port 8888 queries/top-pages.yaml
  cathbad submit --config cathbad.yaml --assign-query-id queries/scan.json
  cathbad submit --metrics-file /var/lib/node_exporter/cathbad.prom queries/scan.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.AssignQueryID, "assign-query-id", false, "set context.queryId to a fresh UUIDv7 if the query has none")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "give up after this long (0 waits for the engine)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write submission metrics here in Prometheus text format")

	return cmd
}

// resolveConfig layers flags over the config file over defaults.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	return cfg, cfg.Validate()
}

func runSubmit(opts *SubmitOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(formatter.Diagnostics(), opts.Verbose)

	cfg, err := resolveConfig(opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	loaded, err := loadValid(formatter, path, cmd)
	if err != nil {
		return err
	}
	q := loaded.Query

	var queryID string
	if opts.AssignQueryID {
		ids := opts.QueryIDs
		if ids == nil {
			ids = uuidV7Generator{}
		}
		queryID, err = assignQueryID(q, ids)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
	}

	clientOpts := []client.Option{client.WithLogger(logger)}
	var registry *prometheus.Registry
	if opts.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		clientOpts = append(clientOpts, client.WithMetrics(client.NewMetrics(registry)))
	}

	c, err := client.New(cfg, clientOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	queryErr := c.Query(ctx, q)

	// Metrics are written whatever the outcome; a failed query is still
	// reported as such if the file cannot be written.
	if registry != nil {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, registry); err != nil {
			if queryErr == nil {
				return formatter.Fail(ExitCommandError, ErrCodeMetrics, fmt.Sprintf("write metrics: %v", err), nil)
			}
			logger.Warn("write metrics", "path", opts.MetricsFile, "error", err)
		}
	}

	if queryErr != nil {
		return submitFailure(formatter, queryErr)
	}

	queryType := query.TypeOf(q)
	text := fmt.Sprintf("✓ %s query accepted by %s", queryType, c.Address())
	if queryID != "" {
		text = fmt.Sprintf("%s (queryId %s)", text, queryID)
	}
	return formatter.Success(text, SubmitResult{
		QueryType: queryType,
		QueryID:   queryID,
		Address:   c.Address(),
	})
}

// assignQueryID stamps a fresh id into the query context unless one is
// set, and returns the id in effect.
func assignQueryID(q query.NativeQuery, ids QueryIDGenerator) (string, error) {
	qc := query.EnsureContext(q)
	if qc.QueryID != nil {
		return *qc.QueryID, nil
	}
	id, err := ids.Generate()
	if err != nil {
		return "", fmt.Errorf("generate query id: %w", err)
	}
	qc.QueryID = query.Ptr(id)
	return id, nil
}

// submitFailure maps a client error onto a CLI error code and exit code.
func submitFailure(f *OutputFormatter, err error) error {
	var ce *client.Error
	if !errors.As(err, &ce) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	switch ce.Code {
	case client.ErrCodeInvalidQuery:
		return f.Fail(ExitFailure, ErrCodeInvalidQuery, ce.Error(), nil)
	case client.ErrCodeSerialization:
		return f.Fail(ExitFailure, ErrCodeSerialization, ce.Error(), nil)
	case client.ErrCodeTransport:
		return f.Fail(ExitCommandError, ErrCodeTransport, ce.Error(), nil)
	case client.ErrCodeDomain:
		details := map[string]any{
			"kind":   string(ce.Kind),
			"status": ce.StatusCode,
		}
		if ce.Response != nil {
			if ce.Response.ErrorClass != "" {
				details["error_class"] = ce.Response.ErrorClass
			}
			if ce.Response.Host != "" {
				details["host"] = ce.Response.Host
			}
		}
		return f.Fail(ExitFailure, ErrCodeDomain, fmt.Sprintf("%s: %s", ce.Kind, ce.Message), details)
	default:
		return f.Fail(ExitFailure, ErrCodeResponse, ce.Error(), map[string]any{"status": ce.StatusCode})
	}
}
