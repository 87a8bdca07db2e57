package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/junyouava/openapi-sdk-go/logger"
)

// Metric instrument names.
const (
	MetricRequestTotal    = "openapi.request.total"
	MetricRequestDuration = "openapi.request.duration"
	MetricRequestActive   = "openapi.request.active"
	MetricOutcomeTotal    = "openapi.outcome.total"
	MetricErrorTotal      = "openapi.error.total"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported in the service.name resource attribute.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded around every API call.
// A nil *Metrics records nothing.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	outcomeTotal    metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("Total number of API requests by operation and HTTP status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestTotal, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	requestActive, err := meter.Int64UpDownCounter(MetricRequestActive,
		metric.WithDescription("Number of in-flight API requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricRequestActive, err)
	}

	outcomeTotal, err := meter.Int64Counter(MetricOutcomeTotal,
		metric.WithDescription("Normalized outcomes by operation, success flag and err_code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricOutcomeTotal, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Calls that failed before an outcome was produced"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		outcomeTotal:    outcomeTotal,
		errorTotal:      errorTotal,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordRequestEnd decrements in-flight requests and records the completed
// request. statusCode is 0 when no response was received.
func (m *Metrics) RecordRequestEnd(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	op := attribute.String("operation", operation)
	m.requestActive.Add(ctx, -1, metric.WithAttributes(op))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(op, attribute.Int("status", statusCode)))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(op))
}

// RecordOutcome counts a normalized outcome.
func (m *Metrics) RecordOutcome(ctx context.Context, operation string, succeeded bool, errCode string) {
	if m == nil {
		return
	}
	m.outcomeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("succeeded", succeeded),
		attribute.String("err_code", errCode),
	))
}

// RecordError counts a call that ended in an error, by error code.
func (m *Metrics) RecordError(ctx context.Context, operation, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}
