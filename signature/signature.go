package signature

import (
	"fmt"
	"strings"
	"time"

	"github.com/junyouava/openapi-sdk-go/errors"
)

// Header names emitted on every signed request.
const (
	HeaderAccessID  = "X-Access-ID"
	HeaderSignature = "X-Signature"
	HeaderNonce     = "X-Signature-Nonce"
	HeaderTimestamp = "X-Timestamp"
)

// DefaultSkew is how far ahead of the local clock timestamps are generated.
const DefaultSkew = 180 * time.Second

// Credentials holds the long-lived access id and base64 encoded secret.
// The zero value is invalid; build one with NewCredentials.
type Credentials struct {
	accessID        string
	accessKeySecret string
}

// NewCredentials validates and returns credentials. Both values must be
// non-blank; the secret is not decoded until the first signing call.
func NewCredentials(accessID, accessKeySecret string) (Credentials, error) {
	if strings.TrimSpace(accessID) == "" {
		return Credentials{}, errors.Configuration("access_id", "access id must not be empty")
	}
	if strings.TrimSpace(accessKeySecret) == "" {
		return Credentials{}, errors.Configuration("access_key", "access key must not be empty")
	}
	return Credentials{accessID: accessID, accessKeySecret: accessKeySecret}, nil
}

// AccessID returns the access id.
func (c Credentials) AccessID() string { return c.accessID }

// IsZero reports whether the credentials were never initialized.
func (c Credentials) IsZero() bool { return c.accessID == "" && c.accessKeySecret == "" }

// String redacts the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessID: %s, AccessKeySecret: ***}", c.accessID)
}

// Signature is the result of a single signing call.
type Signature struct {
	AccessID  string `json:"access_id"`
	Signature string `json:"signature"`
	Nonce     string `json:"nonce"`
	Timestamp string `json:"timestamp"`
}

// Headers returns the four authentication headers for the signature.
func (s *Signature) Headers() map[string]string {
	return map[string]string{
		HeaderAccessID:  s.AccessID,
		HeaderSignature: s.Signature,
		HeaderNonce:     s.Nonce,
		HeaderTimestamp: s.Timestamp,
	}
}
