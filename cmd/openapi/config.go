package main

import (
	"github.com/urfave/cli/v2"

	"github.com/junyouava/openapi-sdk-go/client"
	"github.com/junyouava/openapi-sdk-go/config"
	"github.com/junyouava/openapi-sdk-go/httpclient"
	"github.com/junyouava/openapi-sdk-go/observability"
	"github.com/junyouava/openapi-sdk-go/version"
)

const serviceName = "openapi"

// Config is the CLI configuration loaded from config.yml, .env and the
// environment, then overridden by flags.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	OpenAPI              client.Config   `yaml:"openapi" mapstructure:"openapi"`
	Telemetry            TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig enables OTLP export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// NewConfigFromCLI loads the configuration and applies flag overrides.
func NewConfigFromCLI(c *cli.Context) (*Config, error) {
	var opts []config.LoaderOption
	if path := c.String(ConfigFlag.Name); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path := c.String(EnvFileFlag.Name); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	if c.IsSet(AccessIDFlag.Name) {
		cfg.OpenAPI.AccessID = c.String(AccessIDFlag.Name)
	}
	if c.IsSet(AccessKeyFlag.Name) {
		cfg.OpenAPI.AccessKey = c.String(AccessKeyFlag.Name)
	}
	if c.IsSet(AddressFlag.Name) {
		cfg.OpenAPI.Address = c.String(AddressFlag.Name)
	}
	if c.IsSet(VersionPathFlag.Name) {
		cfg.OpenAPI.Version = c.String(VersionPathFlag.Name)
	}
	if c.IsSet(RetryFlag.Name) {
		if attempts := c.Int(RetryFlag.Name); attempts > 1 {
			retry := httpclient.DefaultRetryConfig()
			retry.MaxAttempts = attempts
			cfg.OpenAPI.Retry = retry
		} else {
			cfg.OpenAPI.Retry = nil
		}
	}
	if c.IsSet(LogLevelFlag.Name) {
		cfg.Logging.Level = c.String(LogLevelFlag.Name)
	}
	if c.IsSet(OTLPEndpointFlag.Name) {
		cfg.Telemetry.Endpoint = c.String(OTLPEndpointFlag.Name)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills in the service and telemetry defaults. The OpenAPI
// section is defaulted by client.New.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks the service section.
func (c *Config) Validate() error {
	return c.ServiceConfig.Validate()
}

// TracerConfig derives the tracer settings.
func (c *Config) TracerConfig() observability.TracerConfig {
	tc := observability.DefaultTracerConfig(c.Name)
	tc.ServiceVersion = version.Version
	tc.Environment = c.Environment
	tc.Endpoint = c.Telemetry.Endpoint
	tc.Insecure = c.Telemetry.Insecure
	tc.SampleRate = c.Telemetry.SampleRate
	return tc
}

// MeterConfig derives the meter settings.
func (c *Config) MeterConfig() observability.MeterConfig {
	mc := observability.DefaultMeterConfig(c.Name)
	mc.ServiceVersion = version.Version
	mc.Environment = c.Environment
	mc.Endpoint = c.Telemetry.Endpoint
	mc.Insecure = c.Telemetry.Insecure
	return mc
}
