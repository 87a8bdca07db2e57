package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/junyouava/openapi-sdk-go/errors"
)

// OperationContext tracks a single API call for tracing and metrics.
type OperationContext struct {
	Operation string
	Method    string
	Path      string
	AccessID  string
	StartTime time.Time
	Tracer    trace.Tracer
	Metrics   *Metrics
}

// Completion describes how an operation ended. StatusCode is the HTTP
// status, or 0 when no response arrived.
type Completion struct {
	StatusCode int
	Succeeded  bool
	ErrCode    string
	Err        error
}

// NewOperationContext creates a new operation context.
// A nil tracer falls back to the global provider; nil metrics are skipped.
func NewOperationContext(tracer trace.Tracer, metrics *Metrics, operation, method, path string) *OperationContext {
	if tracer == nil {
		tracer = Tracer(InstrumentationName)
	}
	return &OperationContext{
		Operation: operation,
		Method:    method,
		Path:      path,
		StartTime: time.Now(),
		Tracer:    tracer,
		Metrics:   metrics,
	}
}

// operationContextKey is the context key for OperationContext.
type operationContextKey struct{}

// WithOperationContext stores an OperationContext in the context.
func WithOperationContext(ctx context.Context, oc *OperationContext) context.Context {
	return context.WithValue(ctx, operationContextKey{}, oc)
}

// OperationContextFromContext retrieves the OperationContext from context, or nil.
func OperationContextFromContext(ctx context.Context) *OperationContext {
	if oc, ok := ctx.Value(operationContextKey{}).(*OperationContext); ok {
		return oc
	}
	return nil
}

// Start opens a client span for the operation and records the request start.
func (oc *OperationContext) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := oc.Tracer.Start(ctx, SpanPrefix+oc.Operation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrOperation, oc.Operation),
		attribute.String(AttrMethod, oc.Method),
		attribute.String(AttrPath, oc.Path),
	)
	if oc.AccessID != "" {
		span.SetAttributes(attribute.String(AttrAccessID, oc.AccessID))
	}

	oc.Metrics.RecordRequestStart(ctx, oc.Operation)
	return WithOperationContext(ctx, oc), span
}

// End annotates and ends the span and records request-end metrics.
func (oc *OperationContext) End(ctx context.Context, span trace.Span, c Completion) {
	duration := time.Since(oc.StartTime)

	if c.StatusCode != 0 {
		span.SetAttributes(attribute.Int(AttrStatusCode, c.StatusCode))
	}
	span.SetAttributes(attribute.Int64(AttrDurationMs, duration.Milliseconds()))

	switch {
	case c.Err != nil:
		span.RecordError(c.Err)
		span.SetStatus(codes.Error, c.Err.Error())
		code := "UNKNOWN"
		if appErr, ok := apperrors.AsAppError(c.Err); ok {
			code = string(appErr.Code)
		}
		oc.Metrics.RecordError(ctx, oc.Operation, code)
	default:
		span.SetAttributes(attribute.Bool(AttrSucceeded, c.Succeeded))
		if c.ErrCode != "" {
			span.SetAttributes(attribute.String(AttrErrCode, c.ErrCode))
		}
		if !c.Succeeded {
			span.SetStatus(codes.Error, "unsuccessful outcome")
		}
		oc.Metrics.RecordOutcome(ctx, oc.Operation, c.Succeeded, c.ErrCode)
	}
	span.End()

	oc.Metrics.RecordRequestEnd(ctx, oc.Operation, c.StatusCode, duration)
}

// Duration returns the elapsed time since operation start.
func (oc *OperationContext) Duration() time.Duration {
	return time.Since(oc.StartTime)
}
