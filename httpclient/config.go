package httpclient

import (
	"net/url"
	"time"

	"github.com/junyouava/openapi-sdk-go/errors"
	"github.com/junyouava/openapi-sdk-go/resilience"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP adapter.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the per-attempt request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures retry behavior. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.Configuration("timeout", "httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Configuration("base_url", "httpclient: base_url must be an absolute URL")
		}
	}
	return nil
}

// DefaultRetryConfig returns a default retry config suitable for HTTP
// requests: connection failures, timeouts, 429 and 5xx are retried.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
