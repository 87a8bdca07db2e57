package client

import (
	"context"

	"github.com/junyouava/openapi-sdk-go/signature"
)

// AuthService exposes request signing to callers that send requests
// themselves.
type AuthService struct {
	client *Client
}

// GenerateSignature signs method and path with a fresh nonce and timestamp.
func (s *AuthService) GenerateSignature(method, path string) (*signature.Signature, error) {
	return s.client.signer.GenerateSignature(method, path)
}

// GenerateAuthHeader returns the four authentication headers for method
// and path.
func (s *AuthService) GenerateAuthHeader(method, path string) (map[string]string, error) {
	return s.client.signer.GenerateAuthHeaders(method, path)
}

// GenerateSignatureWithOpenAuth signs method and path, then calls AuthCMT
// for token and merges the returned open auth token into the result. An
// unsuccessful AuthCMT outcome is returned as a REMOTE_ERROR.
func (s *AuthService) GenerateSignatureWithOpenAuth(ctx context.Context, method, path string, token OpenIDToken) (*SignatureWithOpenAuth, error) {
	sig, err := s.GenerateSignature(method, path)
	if err != nil {
		return nil, err
	}

	out, err := s.client.api.AuthCMT(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := out.Err(); err != nil {
		return nil, err
	}

	return &SignatureWithOpenAuth{Signature: *sig, OpenAuth: out.Data}, nil
}
