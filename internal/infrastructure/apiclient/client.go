// Package apiclient talks to the hotel REST API: the login/register endpoints and
// the token-authenticated resource collections.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/metrics"
)

const maxResponseBody = 1 << 20

// Client sends JSON requests to the API origin. A Client without a token source
// sends no Authorization header.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens ports.TokenSource
	log    zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded. The rest of
// the http.Client, whichever option set it, is kept.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New builds a Client for the API at baseURL.
func New(baseURL string, log zerolog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api url: unsupported scheme %q", u.Scheme)
	}
	c := &Client{base: u, http: &http.Client{}, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin is the API base URL. hmsctl scopes its session store by it.
func (c *Client) Origin() string { return c.base.String() }

// Authenticated returns a copy of c that attaches the token from tokens to
// every request.
func (c *Client) Authenticated(tokens ports.TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// statusError is a non-2xx answer. Message is the server's {"error"} text when
// the body carried one.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api responded %d", e.Status)
}

// Do sends body as JSON and decodes a 2xx response into out. Non-2xx answers
// come back as *statusError; anything else is a transport or codec failure.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	resource := resourceLabel(path)
	start := time.Now()
	err := c.do(ctx, method, path, body, out)
	metrics.APIRequestDuration.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())

	outcome := "ok"
	var se *statusError
	switch {
	case errors.As(err, &se):
		outcome = "http_error"
	case err != nil:
		outcome = "transport_error"
	}
	metrics.APIRequestsTotal.WithLabelValues(resource, method, outcome).Inc()

	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		// sent verbatim; an absent token is left for the server to reject
		if token != "" {
			req.Header.Set("Authorization", token)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Status: resp.StatusCode, Message: errorText(raw)}
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Ping reports whether the API origin answers HTTP at all. Any status counts,
// since the API has no health route of its own.
func (c *Client) Ping(ctx context.Context) error {
	err := c.Do(ctx, http.MethodGet, "/", nil, nil)
	var se *statusError
	if err == nil || errors.As(err, &se) {
		return nil
	}
	return err
}

// errorText pulls the server's message out of an error envelope. The API uses
// {"error": ...} for business failures and {"message": ...} for token failures.
func errorText(raw []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

func resourceLabel(path string) string {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}
