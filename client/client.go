package client

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/junyouava/openapi-sdk-go/errors"
	"github.com/junyouava/openapi-sdk-go/httpclient"
	"github.com/junyouava/openapi-sdk-go/logger"
	"github.com/junyouava/openapi-sdk-go/observability"
	"github.com/junyouava/openapi-sdk-go/signature"
	"github.com/junyouava/openapi-sdk-go/version"
)

// Client is the SDK entry point. It is safe for concurrent use.
type Client struct {
	config    Config
	signer    *signature.Signer
	transport Transport
	log       *logger.Logger
	tracer    trace.Tracer
	metrics   *observability.Metrics

	auth *AuthService
	api  *APIService
}

type options struct {
	transport      Transport
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	signerOpts     []signature.Option
}

// Option configures a Client.
type Option func(*options)

// WithTransport replaces the default HTTP adapter.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger sets the client logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracer sets the tracer provider. Defaults to the global provider.
func WithTracer(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeter sets the meter provider. Defaults to the global provider.
func WithMeter(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithSignerOptions passes options to the request signer.
func WithSignerOptions(opts ...signature.Option) Option {
	return func(o *options) { o.signerOpts = append(o.signerOpts, opts...) }
}

// New validates cfg and creates a Client. Invalid configuration fails
// here with a CONFIGURATION_ERROR, before any request is signed.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	creds, err := signature.NewCredentials(cfg.AccessID, cfg.AccessKey)
	if err != nil {
		return nil, err
	}
	signer, err := signature.NewSigner(creds, o.signerOpts...)
	if err != nil {
		return nil, err
	}

	log := o.log.WithComponent("client")

	transport := o.transport
	if transport == nil {
		transport, err = httpclient.New(httpclient.Config{
			BaseURL: cfg.Address,
			Timeout: cfg.Timeout,
			Headers: map[string]string{
				"Content-Type": cfg.ContentType,
				"Accept":       "application/json",
				"User-Agent":   version.UserAgent(),
			},
			Retry: cfg.Retry,
		}, httpclient.WithLogger(o.log))
		if err != nil {
			return nil, err
		}
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := observability.NewMetrics(mp.Meter(observability.InstrumentationName,
		metric.WithInstrumentationVersion(version.Version)))
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "create metrics").WithCause(err)
	}

	c := &Client{
		config:    cfg,
		signer:    signer,
		transport: transport,
		log:       log,
		tracer: tp.Tracer(observability.InstrumentationName,
			trace.WithInstrumentationVersion(version.Version)),
		metrics: metrics,
	}
	c.api = &APIService{client: c}
	c.auth = &AuthService{client: c}

	log.Debug("client created", logger.Fields(
		logger.FieldAccessID, cfg.AccessID,
		"address", cfg.Address,
		"version", cfg.Version,
	))
	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config { return c.config }

// Auth returns the signing service.
func (c *Client) Auth() *AuthService { return c.auth }

// API returns the business endpoint service.
func (c *Client) API() *APIService { return c.api }

// Close releases idle connections held by the transport.
func (c *Client) Close(ctx context.Context) error {
	return c.transport.Close(ctx)
}
