package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/junyouava/openapi-sdk-go/errors"
	"github.com/junyouava/openapi-sdk-go/logger"
	"github.com/junyouava/openapi-sdk-go/resilience"
)

func fastRetry(attempts int) *resilience.RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.Jitter = 0
	return cfg
}

func TestAdapter_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/open/v1/register" {
			t.Errorf("expected /api/open/v1/register, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["phone_number"] != "13800000000" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/open/v1/register",
		Body:   map[string]string{"phone_number": "13800000000"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if !resp.IsSuccess() || resp.IsError() {
		t.Error("expected a successful response")
	}
	if resp.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", resp.Attempts)
	}
	if string(resp.Body) != `{"success":true}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestAdapter_Do_DefaultAndRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "openapi-sdk-go/test" {
			t.Errorf("expected default User-Agent, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("expected request Content-Type to win, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"User-Agent": "openapi-sdk-go/test", "Content-Type": "application/json"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/",
		Headers: map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:    []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/items",
		Query:  map[string]string{"page": "2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_Auth_PerRequestOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer override-token" {
			t.Errorf("expected override-token, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Auth:    BearerAuth("default-token"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/",
		Auth:   BearerAuth("override-token"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_SignedAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Access-ID"); got != "id" {
			t.Errorf("expected signed request, got X-Access-ID=%q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	signer := &stubSigner{}
	c, err := New(Config{BaseURL: srv.URL, Auth: SignedAuth(signer)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/open/v1/auth/login"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signer.paths[0] != "/api/open/v1/auth/login" {
		t.Errorf("expected the request path to be signed, got %q", signer.paths[0])
	}
}

func TestAdapter_Do_SigningFailureSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Auth:    SignedAuth(&stubSigner{err: apperrors.Decoding("access key secret", nil)}),
		Retry:   fastRetry(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	if !apperrors.HasCode(err, apperrors.ErrCodeDecoding) {
		t.Fatalf("expected DECODING_ERROR, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("expected no request to reach the server")
	}
}

func TestAdapter_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		code int
		kind Kind
	}{
		{400, KindClient},
		{401, KindAuth},
		{403, KindAuth},
		{404, KindNotFound},
		{429, KindRateLimit},
		{500, KindServer},
		{503, KindServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(`{"err_code":"E1","message":"bad"}`))
			}))
			defer srv.Close()

			c, err := New(Config{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := KindOf(err); got != tt.kind {
				t.Errorf("HTTP %d classified as %q, want %q", tt.code, got, tt.kind)
			}
			if resp == nil {
				t.Fatal("expected response even on error")
			}
			if resp.StatusCode != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, resp.StatusCode)
			}
			if !strings.Contains(string(resp.Body), "E1") {
				t.Errorf("expected the error body to be kept, got %s", resp.Body)
			}
		})
	}
}

func TestAdapter_Do_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error for an expired context, got %v", err)
	}
}

func TestAdapter_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if resp != nil {
		t.Error("expected no response")
	}
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if got := ToAppError("register", err); got.Code != apperrors.ErrCodeTransport {
		t.Errorf("expected TRANSPORT_ERROR, got %s", got.Code)
	}
}

func TestAdapter_Do_FullURL_IgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: "http://should-not-be-used.invalid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   srv.URL + "/direct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAdapter_Do_RetryResignsEachAttempt(t *testing.T) {
	var (
		mu     sync.Mutex
		nonces []string
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		nonces = append(nonces, r.Header.Get("X-Signature-Nonce"))
		bodies = append(bodies, string(b))
		n := len(nonces)
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Auth:    SignedAuth(&stubSigner{}),
		Retry:   fastRetry(3),
	}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   bytes.NewBufferString(`{"open_id":"o1"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", resp.Attempts)
	}
	if nonces[0] == nonces[1] || nonces[1] == nonces[2] {
		t.Errorf("expected a fresh nonce per attempt, got %v", nonces)
	}
	for i, b := range bodies {
		if b != `{"open_id":"o1"}` {
			t.Errorf("attempt %d: expected replayed body, got %q", i+1, b)
		}
	}
}

func TestAdapter_Do_RetryExhaustedKeepsLastResponse(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprintf(w, "attempt %d", n)
	}))
	defer srv.Close()

	var retried []int
	retry := fastRetry(2)
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		retried = append(retried, attempt)
	}

	c, err := New(Config{BaseURL: srv.URL, Retry: retry})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsServerError(err) {
		t.Fatalf("expected server error, got %v", err)
	}
	if resp == nil || string(resp.Body) != "attempt 2" {
		t.Fatalf("expected the last response, got %+v", resp)
	}
	if resp.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", resp.Attempts)
	}
	if len(retried) != 1 || retried[0] != 1 {
		t.Errorf("expected caller OnRetry to run once, got %v", retried)
	}
}

func TestAdapter_Do_NoRetryOnClientError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	retry := fastRetry(3)
	retry.RetryIf = nil
	c, err := New(Config{BaseURL: srv.URL, Retry: retry})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected 1 attempt for a 400, got %d", got)
	}
}

type recordingTransport struct {
	requests int32
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&rt.requests, 1)
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"success":true}`)),
		Request:    req,
	}, nil
}

func TestAdapter_WithRoundTripper(t *testing.T) {
	rt := &recordingTransport{}
	c, err := New(Config{BaseURL: "https://open-api.example.com"}, WithRoundTripper(rt))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected flattened headers, got %v", resp.Headers)
	}
	if rt.requests != 1 {
		t.Errorf("expected stubbed transport to be used, got %d requests", rt.requests)
	}
	if c.Unwrap().Transport != rt {
		t.Error("expected Unwrap to expose the configured transport")
	}
	if err := c.Close(context.Background()); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"absolute base url", Config{BaseURL: "https://open-api.junyouchain.com"}, false},
		{"relative base url", Config{BaseURL: "open-api.junyouchain.com"}, true},
		{"garbage base url", Config{BaseURL: "://"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !apperrors.HasCode(err, apperrors.ErrCodeConfiguration) {
				t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
			}
			if err == nil && c.GetConfig().Timeout != defaultTimeout {
				t.Errorf("expected default timeout, got %v", c.GetConfig().Timeout)
			}
		})
	}
}

func TestConfig_ValidateTimeout(t *testing.T) {
	cfg := Config{Timeout: -time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a negative timeout")
	}
}
