package result

import (
	"encoding/json"

	"github.com/junyouava/openapi-sdk-go/errors"
)

// Outcome is the normalized result of one API call.
type Outcome[T any] struct {
	Succeeded  bool   `json:"success"`
	StatusCode int    `json:"code"`
	ErrCode    string `json:"err_code,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       T      `json:"data,omitempty"`
}

// Err returns nil for a successful outcome and a REMOTE_ERROR otherwise.
func (o *Outcome[T]) Err() error {
	if o.Succeeded {
		return nil
	}
	return errors.Remote(o.StatusCode, o.ErrCode, o.Message)
}

// IsSuccessStatus reports whether an HTTP status is 2xx.
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// Normalize converts a raw status and body into an Outcome.
//
// On 2xx the parsed envelope is copied verbatim. An unparsable 2xx body is
// a success carrying the raw text when T is string, and a failure for any
// other T. On non-2xx the outcome always fails; err_code, message and code
// are recovered from the body when it parses, else the raw body becomes
// the message. A parsed code replaces the HTTP status when present.
func Normalize[T any](statusCode int, body []byte) Outcome[T] {
	out := Outcome[T]{StatusCode: statusCode}

	if IsSuccessStatus(statusCode) {
		env, shape, err := Decode[T](body)
		if shape == ShapeUnparsable {
			if _, plain := any(out.Data).(string); plain {
				out.Succeeded = true
				out.Data = any(string(body)).(T)
				return out
			}
			out.Message = "parse response: " + err.Error()
			return out
		}
		out.Succeeded = env.Success
		out.ErrCode = env.ErrCode
		out.Message = env.Message
		out.Data = env.Data
		if env.Code != nil {
			out.StatusCode = *env.Code
		}
		return out
	}

	// The payload of an error body is never typed, so a data field that
	// does not match T cannot hide the error code.
	env, shape, _ := Decode[json.RawMessage](body)
	if shape == ShapeUnparsable {
		out.Message = string(body)
		return out
	}
	out.ErrCode = env.ErrCode
	out.Message = env.Message
	if env.Code != nil {
		out.StatusCode = *env.Code
	}
	return out
}
