package client

import (
	"context"

	"github.com/junyouava/openapi-sdk-go/httpclient"
)

// Transport sends one API request. *httpclient.Adapter is the default.
//
// Requests carry a signed Auth config; implementations must apply it per
// attempt. A non-2xx response may be returned together with an error and
// is still normalized; an error without a response fails the call.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
	Close(ctx context.Context) error
}

var _ Transport = (*httpclient.Adapter)(nil)
