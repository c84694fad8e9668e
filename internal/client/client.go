// Package client submits native queries to the engine and classifies the
// outcome.
//
// A submission moves through fixed stages and stops at the first failure:
//
//	validate → encode → POST → classify
//
// Validation and encoding failures never reach the network. The response
// to a successful query is drained and discarded; only the fact that the
// engine accepted the query is reported.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/cathbad/internal/config"
	"github.com/roach88/cathbad/internal/fingerprint"
	"github.com/roach88/cathbad/internal/query"
)

// HTTPDoer sends one HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// statuses whose body carries a structured engine error.
var errorBodyStatuses = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusNotImplemented:      true,
	http.StatusGatewayTimeout:      true,
}

// Client submits queries to one endpoint. It is safe for concurrent use.
type Client struct {
	address string
	http    HTTPDoer
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient as the transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics records submissions in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for the endpoint described by cfg.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}
	c := &Client{
		address: cfg.Address(),
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address is the URL queries are POSTed to.
func (c *Client) Address() string {
	return c.address
}

// Query validates, encodes and submits q. It returns nil when the engine
// accepted the query and a *Error otherwise. There is no retry; ctx bounds
// the single attempt.
func (c *Client) Query(ctx context.Context, q query.NativeQuery) error {
	queryType := query.TypeOf(q)

	if !query.Validate(q) {
		return c.finish(queryType, "", &Error{
			Code:    ErrCodeInvalidQuery,
			Message: "query failed validation",
		})
	}

	body, err := query.Marshal(q)
	if err != nil {
		return c.finish(queryType, "", &Error{
			Code:    ErrCodeSerialization,
			Message: "encode query",
			Err:     err,
		})
	}

	// The fingerprint only correlates log lines; failing to compute it
	// does not fail the query.
	fp, err := fingerprint.Sum(fingerprint.DomainQuery, body)
	if err != nil {
		c.logger.Debug("fingerprint query", "query_type", queryType, "error", err)
	}

	c.logger.Debug("submitting query",
		"query_type", queryType,
		"fingerprint", fp,
		"address", c.address,
		"bytes", len(body),
	)

	start := time.Now()
	err = c.send(ctx, body)
	if c.metrics != nil {
		c.metrics.Duration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	}
	return c.finish(queryType, fp, err)
}

func (c *Client) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.address, bytes.NewReader(body))
	if err != nil {
		return &Error{Code: ErrCodeTransport, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Code: ErrCodeTransport, Message: "send request", Err: err}
	}
	defer resp.Body.Close()

	return classify(resp)
}

// classify turns a response into nil or a *Error.
func classify(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if !errorBodyStatuses[resp.StatusCode] {
		return &Error{
			Code:       ErrCodeUnmarshal,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %s", http.StatusText(resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &Error{
			Code:       ErrCodeTransport,
			StatusCode: resp.StatusCode,
			Message:    "read error body",
			Err:        err,
		}
	}

	var body ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return &Error{
			Code:       ErrCodeUnmarshal,
			StatusCode: resp.StatusCode,
			Message:    "decode error body",
			Err:        err,
		}
	}

	kind, ok := LookupDomainErrorKind(body.Error)
	if !ok {
		return &Error{
			Code:       ErrCodeUnmarshal,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unrecognized engine error %q", body.Error),
			Response:   &body,
		}
	}

	message := body.ErrorMessage
	if message == "" {
		message = body.Error
	}
	return &Error{
		Code:       ErrCodeDomain,
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Message:    message,
		Response:   &body,
	}
}

// finish logs and counts the outcome and returns err unchanged.
func (c *Client) finish(queryType, fp string, err error) error {
	outcome := OutcomeSuccess
	if ce, ok := err.(*Error); ok {
		outcome = strings.ToLower(string(ce.Code))
	}
	if c.metrics != nil {
		c.metrics.Queries.WithLabelValues(queryType, outcome).Inc()
	}

	if err == nil {
		c.logger.Info("query accepted",
			"query_type", queryType,
			"fingerprint", fp,
			"outcome", outcome,
		)
		return nil
	}

	attrs := []any{
		"query_type", queryType,
		"outcome", outcome,
		"error", err,
	}
	if fp != "" {
		attrs = append(attrs, "fingerprint", fp)
	}
	if ce, ok := err.(*Error); ok && ce.StatusCode != 0 {
		attrs = append(attrs, "status", ce.StatusCode)
	}
	c.logger.Warn("query failed", attrs...)
	return err
}
