// Package resilience retries failed operations with exponential backoff
// and jitter.
//
// The SDK only retries when asked to: httpclient.Config.Retry (and
// client.Config.Retry above it) is nil by default. Every retried request
// is signed again, so each attempt carries a fresh nonce and timestamp.
//
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (*httpclient.Response, error) {
//	    return adapter.Do(ctx, req)
//	})
package resilience
