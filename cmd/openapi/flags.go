package main

import "github.com/urfave/cli/v2"

// Global flags. Values given on the command line override config.yml,
// .env and OPENAPI_* environment variables.
var (
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to config.yml (searched in standard locations when empty)",
	}

	EnvFileFlag = &cli.StringFlag{
		Name:  "env-file",
		Usage: "Path to a .env file (searched in standard locations when empty)",
	}

	AccessIDFlag = &cli.StringFlag{
		Name:  "access-id",
		Usage: "Access id issued by the OpenAPI platform",
	}

	AccessKeyFlag = &cli.StringFlag{
		Name:  "access-key",
		Usage: "Base64 encoded access key secret",
	}

	AddressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "OpenAPI server base URL (e.g. https://open-api.junyouchain.com)",
	}

	VersionPathFlag = &cli.StringFlag{
		Name:  "version-path",
		Usage: "API version path segment (e.g. v1)",
	}

	RetryFlag = &cli.IntFlag{
		Name:  "retry",
		Usage: "Maximum attempts per request for transient failures (1 disables retry)",
	}

	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}

	OTLPEndpointFlag = &cli.StringFlag{
		Name:  "otlp-endpoint",
		Usage: "OTLP HTTP collector host:port; enables tracing and metrics export",
	}
)

// Command flags.
var (
	MethodFlag = &cli.StringFlag{
		Name:  "method",
		Usage: "HTTP method to sign",
		Value: "POST",
	}

	PathFlag = &cli.StringFlag{
		Name:     "path",
		Usage:    "Request path to sign (e.g. /api/open/v1/register)",
		Required: true,
	}

	PhoneFlag = &cli.StringFlag{
		Name:     "phone",
		Usage:    "Phone number to register",
		Required: true,
	}

	OpenIDFlag = &cli.StringFlag{
		Name:     "open-id",
		Usage:    "Open id of the end user",
		Required: true,
	}

	OpenAuthFlag = &cli.StringFlag{
		Name:  "open-id",
		Usage: "When set, also fetch an open auth token for this open id",
	}

	BizNoFlag = &cli.StringFlag{
		Name:     "biz-no",
		Usage:    "EWT business number to confirm",
		Required: true,
	}
)
