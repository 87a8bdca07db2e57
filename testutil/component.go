package testutil

import "context"

// TestComponent is a test fixture with a start/stop lifecycle that can be
// reset between test cases and rolled back to a captured state.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state of the component.
	// The returned data can be passed to Restore() to return to this state.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore restores the component to a previously captured state.
	Restore(ctx context.Context, snapshot interface{}) error
}
