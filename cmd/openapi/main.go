package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/junyouava/openapi-sdk-go/client"
	"github.com/junyouava/openapi-sdk-go/logger"
	"github.com/junyouava/openapi-sdk-go/observability"
	"github.com/junyouava/openapi-sdk-go/result"
	"github.com/junyouava/openapi-sdk-go/validation"
	"github.com/junyouava/openapi-sdk-go/version"
)

// exitUnsuccessful is the exit code when the server answered with an
// unsuccessful outcome.
const exitUnsuccessful = 2

var signableMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := 1
		if exit, ok := err.(cli.ExitCoder); ok {
			code = exit.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "openapi",
		Usage:     "Sign requests for and call the OpenAPI platform",
		Version:   version.GetShortVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		// main owns the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			ConfigFlag,
			EnvFileFlag,
			AccessIDFlag,
			AccessKeyFlag,
			AddressFlag,
			VersionPathFlag,
			RetryFlag,
			LogLevelFlag,
			OTLPEndpointFlag,
		},
		Commands: []*cli.Command{
			{
				Name:   "sign",
				Usage:  "Print a signature for a method and path",
				Flags:  []cli.Flag{MethodFlag, PathFlag, OpenAuthFlag},
				Action: runSign,
			},
			{
				Name:   "register",
				Usage:  "Register a phone number",
				Flags:  []cli.Flag{PhoneFlag},
				Action: runRegister,
			},
			{
				Name:   "login",
				Usage:  "Obtain a login token",
				Flags:  []cli.Flag{OpenIDFlag},
				Action: openIDAction((*client.APIService).AuthLogin),
			},
			{
				Name:   "setpwd",
				Usage:  "Obtain a set-password token",
				Flags:  []cli.Flag{OpenIDFlag},
				Action: openIDAction((*client.APIService).AuthSetPWD),
			},
			{
				Name:   "cmt",
				Usage:  "Obtain an open auth token",
				Flags:  []cli.Flag{OpenIDFlag},
				Action: openIDAction((*client.APIService).AuthCMT),
			},
			{
				Name:   "release",
				Usage:  "Confirm the release of an EWT order",
				Flags:  []cli.Flag{BizNoFlag},
				Action: runRelease,
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					return printJSON(c.App.Writer, version.GetVersionInfo())
				},
			},
		},
	}
}

// session holds what a command needs to talk to the server.
type session struct {
	client   *client.Client
	log      *logger.Logger
	shutdown []func(context.Context) error
}

func (s *session) Close(ctx context.Context) {
	if err := s.client.Close(ctx); err != nil {
		s.log.Warn("close client", logger.ErrorFields("close", err))
	}
	for _, fn := range s.shutdown {
		if err := fn(ctx); err != nil {
			s.log.Warn("shutdown telemetry", logger.ErrorFields("shutdown", err))
		}
	}
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := NewConfigFromCLI(c)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(&cfg.Logging, c.App.ErrWriter, cfg.Name)
	logger.SetGlobalLogger(log)
	s := &session{log: log}

	if cfg.Telemetry.Endpoint != "" {
		tp, err := observability.InitTracer(c.Context, cfg.TracerConfig())
		if err != nil {
			return nil, err
		}
		mp, err := observability.InitMeter(c.Context, cfg.MeterConfig())
		if err != nil {
			_ = tp.Shutdown(c.Context)
			return nil, err
		}
		s.shutdown = append(s.shutdown, tp.Shutdown, mp.Shutdown)
	}

	s.client, err = client.New(cfg.OpenAPI, client.WithLogger(log))
	if err != nil {
		for _, fn := range s.shutdown {
			_ = fn(c.Context)
		}
		return nil, err
	}
	return s, nil
}

func runSign(c *cli.Context) error {
	method := strings.ToUpper(c.String(MethodFlag.Name))
	path := c.String(PathFlag.Name)
	if err := validation.New().
		Required("method", method).
		OneOf("method", method, signableMethods).
		Required("path", path).
		Pattern("path", path, `^/\S*$`).
		Err(); err != nil {
		return err
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close(c.Context)

	if openID := c.String(OpenAuthFlag.Name); openID != "" {
		sig, err := s.client.Auth().GenerateSignatureWithOpenAuth(c.Context, method, path, client.OpenIDToken{OpenID: openID})
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, sig)
	}

	sig, err := s.client.Auth().GenerateSignature(method, path)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, sig)
}

func runRegister(c *cli.Context) error {
	info := client.RegisterInfo{PhoneNumber: c.String(PhoneFlag.Name)}
	if err := validation.Required("phone", info.PhoneNumber); err != nil {
		return err
	}
	return call(c, func(ctx context.Context, api *client.APIService) (*result.Outcome[string], error) {
		return api.Register(ctx, info)
	})
}

func runRelease(c *cli.Context) error {
	info := client.EWTBizNoInfo{EWTBizNo: c.String(BizNoFlag.Name)}
	if err := validation.Required("biz_no", info.EWTBizNo); err != nil {
		return err
	}
	return call(c, func(ctx context.Context, api *client.APIService) (*result.Outcome[string], error) {
		return api.ConfirmEWTReleaseByPartner(ctx, info)
	})
}

func openIDAction(method func(*client.APIService, context.Context, client.OpenIDToken) (*result.Outcome[string], error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		token := client.OpenIDToken{OpenID: c.String(OpenIDFlag.Name)}
		if err := validation.Required("open_id", token.OpenID); err != nil {
			return err
		}
		return call(c, func(ctx context.Context, api *client.APIService) (*result.Outcome[string], error) {
			return method(api, ctx, token)
		})
	}
}

// call runs one API call, prints its outcome and maps an unsuccessful
// outcome to a non-zero exit code.
func call(c *cli.Context, fn func(context.Context, *client.APIService) (*result.Outcome[string], error)) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close(c.Context)

	out, err := fn(c.Context, s.client.API())
	if err != nil {
		return err
	}
	if err := printJSON(c.App.Writer, out); err != nil {
		return err
	}
	if !out.Succeeded {
		return cli.Exit(fmt.Sprintf("request unsuccessful: %s", out.Err()), exitUnsuccessful)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
