package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified SDK error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// Configuration creates an error for a missing or invalid configuration field.
func Configuration(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates an error for values that failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, Retryable: false}
}

// Decoding creates an error for a value that could not be decoded.
func Decoding(what string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecoding, Message: fmt.Sprintf("%s is not valid base64", what),
		Retryable: false, Cause: cause,
	}
}

// Signing creates an error for a signature that could not be produced.
func Signing(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSigning, Message: "failed to generate signature",
		Retryable: false, Cause: cause,
	}
}

// Unauthorized creates an error for a request that failed signature verification.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "signature verification failed"
	}
	return &AppError{Code: ErrCodeUnauthorized, Message: reason, Retryable: false}
}

// Transport creates an error for a request that did not produce a response.
func Transport(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransport, Message: fmt.Sprintf("%s request failed", operation),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// Timeout creates an error for a request that timed out.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s request timed out", operation),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// ParseFailure creates an error for a body that matched no envelope shape.
func ParseFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodeParseFailure, Message: "parse response failed",
		Retryable: false, Cause: cause,
	}
}

// Remote creates an error describing an unsuccessful server result.
func Remote(statusCode int, errCode, message string) *AppError {
	details := map[string]any{"status_code": statusCode}
	if errCode != "" {
		details["err_code"] = errCode
	}
	if message == "" {
		message = fmt.Sprintf("request unsuccessful (code %d)", statusCode)
	}
	return &AppError{Code: ErrCodeRemote, Message: message, Retryable: false, Details: details}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
