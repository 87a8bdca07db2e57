package testutil

import (
	"context"
	"testing"

	"github.com/junyouava/openapi-sdk-go/signature"
)

// Default credentials used by SDK tests. The secret is base64("test-key").
const (
	TestAccessID  = "test-id"
	TestAccessKey = "dGVzdC1rZXk="
)

// CleanupFunc stops a component started by Setup.
type CleanupFunc func() error

// Setup starts a test component and returns a cleanup function.
//
//	cleanup, err := testutil.Setup(server)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func Setup(component TestComponent) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), component)
}

// SetupWithContext starts a test component with a custom context.
func SetupWithContext(ctx context.Context, component TestComponent) (CleanupFunc, error) {
	if err := component.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return component.Stop(ctx) }, nil
}

// MustSetup starts component and stops it when the test ends.
func MustSetup(t testing.TB, component TestComponent) {
	t.Helper()
	ctx := context.Background()
	if err := component.Start(ctx); err != nil {
		t.Fatalf("failed to start component %s: %v", component.Name(), err)
	}
	t.Cleanup(func() {
		if err := component.Stop(ctx); err != nil {
			t.Errorf("failed to stop component %s: %v", component.Name(), err)
		}
	})
}

// TestCredentials returns credentials for TestAccessID and TestAccessKey.
func TestCredentials(t testing.TB) signature.Credentials {
	t.Helper()
	creds, err := signature.NewCredentials(TestAccessID, TestAccessKey)
	if err != nil {
		t.Fatalf("test credentials: %v", err)
	}
	return creds
}

// StartMockServer starts a MockServer that accepts requests signed with
// creds (TestCredentials when none are given) and stops it when the test
// ends.
func StartMockServer(t testing.TB, creds ...signature.Credentials) *MockServer {
	t.Helper()
	if len(creds) == 0 {
		creds = []signature.Credentials{TestCredentials(t)}
	}
	s := NewMockServer(creds...)
	MustSetup(t, s)
	return s
}
