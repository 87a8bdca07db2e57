// Package httpclient is the HTTP transport used by the SDK client.
//
// An Adapter resolves request paths against a base URL, encodes bodies,
// applies default headers and authentication, and classifies non-2xx
// responses into *Error values while still returning the response. Retry
// is opt-in through Config.Retry.
//
// SignedAuth plugs a RequestSigner (such as *signature.Signer) in as the
// authentication step. The signer runs while each attempt is built, so
// retried requests carry a new nonce and timestamp.
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://open-api.junyouchain.com",
//	    Auth:    httpclient.SignedAuth(signer),
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/api/open/v1/register",
//	    Body:   info,
//	})
package httpclient
