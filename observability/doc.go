// Package observability provides OpenTelemetry tracing and metrics for
// API calls made through the SDK.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "my.operation")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//
// Per call:
//
//	oc := observability.NewOperationContext(tracer, metrics, "register", "POST", path)
//	ctx, span := oc.Start(ctx)
//	oc.End(ctx, span, observability.Completion{StatusCode: 200, Succeeded: true})
package observability
