package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/junyouava/openapi-sdk-go/errors"
)

// Kind classifies why an exchange did not produce a 2xx response.
type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	// KindRequest means the request could not be built or its body read.
	KindRequest   Kind = "request"
	KindAuth      Kind = "auth"
	KindNotFound  Kind = "not_found"
	KindRateLimit Kind = "rate_limit"
	KindClient    Kind = "client"
	KindServer    Kind = "server"
)

// Error is returned by Adapter.Do. For status errors it accompanies the
// Response, so callers that only need the body can ignore it.
type Error struct {
	Kind Kind
	// StatusCode is zero when no response arrived.
	StatusCode int
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d)", e.Kind, e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("httpclient: %s", e.Kind)
	}
	return fmt.Sprintf("httpclient: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeoutError wraps a deadline or network timeout.
func NewTimeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Retryable: true, Err: err}
}

// NewConnectionError wraps a failure to reach the server or read its reply.
func NewConnectionError(err error) *Error {
	return &Error{Kind: KindConnection, Retryable: true, Err: err}
}

// NewRequestError reports a request that was never sent.
func NewRequestError(format string, args ...any) *Error {
	return &Error{Kind: KindRequest, Err: fmt.Errorf(format, args...)}
}

// NewServerError reports a 5xx reply.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{Kind: KindServer, StatusCode: statusCode, Retryable: true, Body: body}
}

// ClassifyStatusCode returns nil for 2xx and a typed *Error otherwise.
// Only 429 and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Body: body}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Kind = KindAuth
	case statusCode == http.StatusNotFound:
		e.Kind = KindNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Kind, e.Retryable = KindRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Kind = KindClient
	case statusCode >= 500:
		return NewServerError(statusCode, body)
	default:
		e.Kind = KindServer
	}
	return e
}

// KindOf returns the classification of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return KindOf(err) == KindTimeout }

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool { return KindOf(err) == KindConnection }

// IsServerError reports whether err is a 5xx reply.
func IsServerError(err error) bool { return KindOf(err) == KindServer }

// IsRetryable is the default retry predicate of the adapter.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// ToAppError maps an error returned by Adapter.Do for a request that got no
// response onto the SDK error taxonomy. AppErrors pass through unchanged.
func ToAppError(operation string, err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	if IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(operation, err)
	}
	return apperrors.Transport(operation, err)
}
