package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeDecoding, "bad key")
	if err.Code != ErrCodeDecoding {
		t.Errorf("expected code %s, got %s", ErrCodeDecoding, err.Code)
	}
	if err.Message != "bad key" {
		t.Errorf("expected message 'bad key', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("DECODING_ERROR should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTransport, "connection reset")
	if !err.Retryable {
		t.Error("TRANSPORT_ERROR should be retryable")
	}
}

func TestAppError_Configuration_Field(t *testing.T) {
	err := Configuration("access_id", "access_id is required")
	if err.Code != ErrCodeConfiguration {
		t.Errorf("expected CONFIGURATION_ERROR, got %s", err.Code)
	}
	if err.Details["field"] != "access_id" {
		t.Errorf("expected field=access_id, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Message, "access_id is required") {
		t.Errorf("expected reason in message, got %q", err.Message)
	}
}

func TestAppError_Configuration_EmptyField(t *testing.T) {
	err := Configuration("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestAppError_Decoding_Cause(t *testing.T) {
	cause := fmt.Errorf("illegal base64 data at input byte 4")
	err := Decoding("access key", cause)
	if err.Code != ErrCodeDecoding {
		t.Errorf("expected DECODING_ERROR, got %s", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through errors.Is")
	}
	if !strings.Contains(err.Error(), "illegal base64") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_Unauthorized_DefaultMessage(t *testing.T) {
	err := Unauthorized("")
	if err.Message != "signature verification failed" {
		t.Errorf("expected default message, got %q", err.Message)
	}

	err2 := Unauthorized("nonce reused")
	if err2.Message != "nonce reused" {
		t.Errorf("expected custom message, got %q", err2.Message)
	}
}

func TestAppError_Remote(t *testing.T) {
	err := Remote(400, "E1", "bad")
	if err.Code != ErrCodeRemote {
		t.Errorf("expected REMOTE_ERROR, got %s", err.Code)
	}
	if err.Details["err_code"] != "E1" {
		t.Errorf("expected err_code=E1, got %v", err.Details["err_code"])
	}
	if err.Details["status_code"] != 400 {
		t.Errorf("expected status_code=400, got %v", err.Details["status_code"])
	}

	noMsg := Remote(500, "", "")
	if !strings.Contains(noMsg.Message, "500") {
		t.Errorf("expected status in fallback message, got %q", noMsg.Message)
	}
	if _, ok := noMsg.Details["err_code"]; ok {
		t.Error("expected no err_code detail when empty")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := Transport("register", nil).WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["operation"] != "register" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"Configuration", Configuration("x", "y"), ErrCodeConfiguration, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, false},
		{"Decoding", Decoding("secret", nil), ErrCodeDecoding, false},
		{"Signing", Signing(nil), ErrCodeSigning, false},
		{"Unauthorized", Unauthorized(""), ErrCodeUnauthorized, false},
		{"Transport", Transport("login", nil), ErrCodeTransport, true},
		{"Timeout", Timeout("login", nil), ErrCodeTimeout, true},
		{"ParseFailure", ParseFailure(nil), ErrCodeParseFailure, false},
		{"Remote", Remote(400, "", ""), ErrCodeRemote, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_AsAppError_Wrapped(t *testing.T) {
	appErr := Signing(nil)
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeSigning {
		t.Errorf("expected SIGNING_ERROR, got %s", got.Code)
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Decoding("secret", nil))
	if !HasCode(err, ErrCodeDecoding) {
		t.Error("expected HasCode to match DECODING_ERROR")
	}
	if HasCode(err, ErrCodeConfiguration) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeDecoding) {
		t.Error("expected HasCode false for plain errors")
	}
}
