package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Client setup errors (fail fast, never retryable)
const (
	// ErrCodeConfiguration indicates missing or invalid client configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInvalidInput indicates a value failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Signing errors
const (
	// ErrCodeDecoding indicates the access key secret is not valid base64.
	ErrCodeDecoding ErrorCode = "DECODING_ERROR"
	// ErrCodeSigning indicates the signature could not be produced.
	ErrCodeSigning ErrorCode = "SIGNING_ERROR"
	// ErrCodeUnauthorized indicates a signature failed verification.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Exchange errors
const (
	// ErrCodeTransport indicates the request never produced a response.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeParseFailure indicates a response body matched no envelope shape.
	ErrCodeParseFailure ErrorCode = "PARSE_FAILURE"
	// ErrCodeRemote indicates the server answered with an unsuccessful result.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
	ErrCodeTimeout:   true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
