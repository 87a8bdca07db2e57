package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/junyouava/openapi-sdk-go/logger"
	"github.com/junyouava/openapi-sdk-go/resilience"
)

// Adapter is a configurable HTTP adapter with pluggable auth and opt-in
// retry. It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(c *Adapter) {
		if l != nil {
			c.log = l.WithComponent("httpclient")
		}
	}
}

// WithRoundTripper replaces the underlying transport, for instance to
// instrument or stub the network.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Adapter) {
		if rt != nil {
			c.httpClient.Transport = rt
		}
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		log:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do executes an HTTP request and returns the complete response.
//
// A non-2xx response is returned together with a classified *Error. With
// retry enabled the response and error of the last attempt are returned.
func (c *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	// Readers cannot be replayed across attempts.
	if r, ok := req.Body.(io.Reader); ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, NewRequestError("read body: %w", err)
		}
		req.Body = data
	}

	if c.config.Retry == nil {
		resp, err := c.executeRequest(ctx, req)
		if resp != nil {
			resp.Attempts = 1
		}
		return resp, err
	}

	retryCfg := *c.config.Retry
	if retryCfg.RetryIf == nil {
		retryCfg.RetryIf = IsRetryable
	}
	onRetry := retryCfg.OnRetry
	retryCfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Debug("retrying request", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldPath, req.Path,
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff_ms", backoff.Milliseconds(),
		))
		if onRetry != nil {
			onRetry(attempt, err, backoff)
		}
	}

	attempts := 0
	resp, err := resilience.Retry(ctx, retryCfg, func() (*Response, error) {
		attempts++
		return c.executeRequest(ctx, req)
	})
	if resp != nil {
		resp.Attempts = attempts
	}
	return resp, err
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Adapter) Unwrap() *http.Client {
	return c.httpClient
}

// executeRequest builds, signs and sends a single attempt.
func (c *Adapter) executeRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || (stderrors.As(err, &netErr) && netErr.Timeout()) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	c.log.Debug("request completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldPath, req.Path,
		logger.FieldStatus, resp.StatusCode,
	), time.Since(start)))

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}

	return result, nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (c *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError("encode body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewRequestError("create request: %w", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	// Request-specific headers override defaults
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides adapter-level auth
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if err := auth.apply(httpReq, req.Path); err != nil {
		return nil, err
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// Close releases idle connections held by the adapter.
func (c *Adapter) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (c *Adapter) GetConfig() Config {
	return c.config
}
