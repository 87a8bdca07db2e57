package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/junyouava/openapi-sdk-go/httpclient"
	"github.com/junyouava/openapi-sdk-go/logger"
	"github.com/junyouava/openapi-sdk-go/observability"
	"github.com/junyouava/openapi-sdk-go/result"
)

// Endpoint paths, relative to Config.BasePath.
const (
	EndpointRegister          = "/register"
	EndpointAuthLogin         = "/auth/login"
	EndpointAuthSetPWD        = "/auth/setpwd"
	EndpointAuthCMT           = "/auth/cmt"
	EndpointConfirmEWTRelease = "/ewt/confirm-release-by-partner"
)

// APIService calls the business endpoints. Every call returns a
// normalized outcome; the error is set only when signing fails or no
// response was received.
type APIService struct {
	client *Client
}

// Register registers a phone number.
func (s *APIService) Register(ctx context.Context, info RegisterInfo) (*result.Outcome[string], error) {
	return Post[string](ctx, s.client, "register", EndpointRegister, info)
}

// AuthLogin obtains a login token for an open id.
func (s *APIService) AuthLogin(ctx context.Context, token OpenIDToken) (*result.Outcome[string], error) {
	return Post[string](ctx, s.client, "auth_login", EndpointAuthLogin, token)
}

// AuthSetPWD obtains a set-password token for an open id.
func (s *APIService) AuthSetPWD(ctx context.Context, token OpenIDToken) (*result.Outcome[string], error) {
	return Post[string](ctx, s.client, "auth_setpwd", EndpointAuthSetPWD, token)
}

// AuthCMT obtains an open auth token for an open id.
func (s *APIService) AuthCMT(ctx context.Context, token OpenIDToken) (*result.Outcome[string], error) {
	return Post[string](ctx, s.client, "auth_cmt", EndpointAuthCMT, token)
}

// ConfirmEWTReleaseByPartner confirms the release of an EWT order.
func (s *APIService) ConfirmEWTReleaseByPartner(ctx context.Context, info EWTBizNoInfo) (*result.Outcome[string], error) {
	return Post[string](ctx, s.client, "confirm_ewt_release", EndpointConfirmEWTRelease, info)
}

// Post sends body as JSON to endpoint under the client's base path, signed,
// and normalizes the response into an Outcome carrying a T payload.
// operation names the call in logs, spans and metrics.
func Post[T any](ctx context.Context, c *Client, operation, endpoint string, body any) (*result.Outcome[T], error) {
	path := c.config.BasePath() + endpoint

	oc := observability.NewOperationContext(c.tracer, c.metrics, operation, http.MethodPost, path)
	oc.AccessID = c.signer.AccessID()
	ctx, span := oc.Start(ctx)
	log := c.log.WithContext(ctx)

	resp, err := c.transport.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Auth:   httpclient.SignedAuth(c.signer),
	})
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("transport returned no response")
		}
		appErr := httpclient.ToAppError(operation, err)
		oc.End(ctx, span, observability.Completion{Err: appErr})
		log.Warn("api call failed", logger.MergeWithError(logger.Fields(
			logger.FieldOperation, operation,
			logger.FieldPath, path,
			logger.FieldErrCode, string(appErr.Code),
		), appErr))
		return nil, appErr
	}

	out := result.Normalize[T](resp.StatusCode, resp.Body)
	oc.End(ctx, span, observability.Completion{
		StatusCode: resp.StatusCode,
		Succeeded:  out.Succeeded,
		ErrCode:    out.ErrCode,
	})

	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldOperation, operation,
		logger.FieldPath, path,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldAttempt, resp.Attempts,
	), oc.Duration())
	if out.Succeeded {
		log.Debug("api call completed", fields)
	} else {
		fields[logger.FieldErrCode] = out.ErrCode
		log.Info("api call unsuccessful", fields)
	}
	return &out, nil
}
