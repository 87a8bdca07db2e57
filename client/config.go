package client

import (
	"time"

	"github.com/junyouava/openapi-sdk-go/errors"
	"github.com/junyouava/openapi-sdk-go/resilience"
	"github.com/junyouava/openapi-sdk-go/validation"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultAddress     = "https://open-api.junyouchain.com"
	DefaultVersion     = "v1"
	DefaultContentType = "application/json"
	DefaultTimeout     = 30 * time.Second
)

// Config configures a Client. It is copied by New and never mutated
// afterwards.
type Config struct {
	// AccessID identifies the caller.
	AccessID string `yaml:"access_id" mapstructure:"access_id" validate:"notblank"`
	// AccessKey is the base64 encoded shared secret.
	AccessKey string `yaml:"access_key" mapstructure:"access_key" validate:"notblank"`
	// Version is the API version segment of every path.
	Version string `yaml:"version" mapstructure:"version" validate:"notblank"`
	// Address is the server base URL.
	Address string `yaml:"address" mapstructure:"address" validate:"required,url"`
	// ContentType is sent with every request body.
	ContentType string `yaml:"content_type" mapstructure:"content_type" validate:"notblank"`
	// Timeout is the per-attempt request timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Retry enables transport retries. Nil disables them.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.ContentType == "" {
		c.ContentType = DefaultContentType
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate reports the first invalid field as a configuration error.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		reason := err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			reason = appErr.Message
		}
		return errors.Configuration(validation.FirstField(err), reason).WithCause(err)
	}
	if c.Retry != nil && c.Retry.MaxAttempts < 1 {
		return errors.Configuration("retry.max_attempts", "retry.max_attempts must be at least 1")
	}
	return nil
}

// BasePath returns the path prefix of every endpoint, e.g. "/api/open/v1".
func (c *Config) BasePath() string {
	return "/api/open/" + c.Version
}

// String redacts the access key.
func (c Config) String() string {
	return "Config{AccessID: " + c.AccessID + ", AccessKey: ***, Address: " + c.Address + ", Version: " + c.Version + "}"
}
