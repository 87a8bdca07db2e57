package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthCustom uses a custom authentication function.
	AuthCustom
	// AuthSigned adds per-request signature headers from a RequestSigner.
	AuthSigned
)

// RequestSigner produces the authentication headers for one request.
// It is called once per attempt, so every retry is signed afresh.
type RequestSigner interface {
	GenerateAuthHeaders(method, path string) (map[string]string, error)
}

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(*http.Request)
	// Signer signs the request method and path (AuthSigned).
	Signer RequestSigner
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// SignedAuth creates an auth config that signs each request with signer.
// The signed path is Request.Path exactly as given, without host or query.
func SignedAuth(signer RequestSigner) *AuthConfig {
	return &AuthConfig{Type: AuthSigned, Signer: signer}
}

// apply applies authentication to an HTTP request. path is the request
// path as the caller passed it.
func (a *AuthConfig) apply(req *http.Request, path string) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	case AuthSigned:
		if a.Signer == nil {
			return nil
		}
		headers, err := a.Signer.GenerateAuthHeaders(req.Method, path)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}
	return nil
}
