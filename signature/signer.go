package signature

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/junyouava/openapi-sdk-go/errors"
)

// Clock returns the current time.
type Clock func() time.Time

// NonceSource returns a fresh nonce. Implementations must be safe for
// concurrent use.
type NonceSource func() (string, error)

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(s *Signer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithNonceSource overrides the nonce generator.
func WithNonceSource(source NonceSource) Option {
	return func(s *Signer) {
		if source != nil {
			s.nonce = source
		}
	}
}

// WithSkew overrides the forward timestamp offset. Servers expect
// DefaultSkew; change it only against a server that says otherwise.
func WithSkew(skew time.Duration) Option {
	return func(s *Signer) { s.skew = skew }
}

// Signer produces signatures for one set of credentials. It holds no
// mutable state and is safe for concurrent use as long as its clock and
// nonce source are.
type Signer struct {
	creds Credentials
	clock Clock
	nonce NonceSource
	skew  time.Duration
}

// NewSigner creates a signer for the given credentials.
func NewSigner(creds Credentials, opts ...Option) (*Signer, error) {
	if creds.IsZero() {
		return nil, errors.Configuration("credentials", "credentials are not initialized")
	}
	s := &Signer{
		creds: creds,
		clock: time.Now,
		nonce: UUIDNonce,
		skew:  DefaultSkew,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AccessID returns the access id this signer signs for.
func (s *Signer) AccessID() string { return s.creds.accessID }

// GenerateSignature signs method and path. The method is used exactly as
// given; path must not include scheme, host or query string.
func (s *Signer) GenerateSignature(method, path string) (*Signature, error) {
	timestamp := strconv.FormatInt(s.clock().Add(s.skew).Unix(), 10)

	nonce, err := s.nonce()
	if err != nil {
		return nil, errors.Signing(err)
	}

	canonical := CanonicalString(s.creds.accessID, method, path, nonce, timestamp)
	sig, err := ComputeHMAC(s.creds.accessKeySecret, canonical)
	if err != nil {
		return nil, err
	}

	return &Signature{
		AccessID:  s.creds.accessID,
		Signature: sig,
		Nonce:     nonce,
		Timestamp: timestamp,
	}, nil
}

// GenerateAuthHeaders signs method and path and returns exactly the four
// authentication headers.
func (s *Signer) GenerateAuthHeaders(method, path string) (map[string]string, error) {
	sig, err := s.GenerateSignature(method, path)
	if err != nil {
		return nil, err
	}
	return sig.Headers(), nil
}

// UUIDNonce returns a random UUIDv4 with the separators stripped.
func UUIDNonce() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
