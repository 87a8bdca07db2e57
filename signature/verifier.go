package signature

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/junyouava/openapi-sdk-go/errors"
)

// DefaultWindow is the clock tolerance applied on both sides of the
// accepted timestamp range.
const DefaultWindow = 5 * time.Minute

// SecretLookup resolves an access id to its base64 encoded secret.
type SecretLookup func(accessID string) (secret string, ok bool)

// StaticSecrets returns a lookup over a fixed set of credentials.
func StaticSecrets(creds ...Credentials) SecretLookup {
	secrets := make(map[string]string, len(creds))
	for _, c := range creds {
		secrets[c.accessID] = c.accessKeySecret
	}
	return func(accessID string) (string, bool) {
		s, ok := secrets[accessID]
		return s, ok
	}
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithVerifierClock overrides the verifier's time source.
func WithVerifierClock(clock Clock) VerifierOption {
	return func(v *Verifier) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithWindow overrides the timestamp tolerance.
func WithWindow(window time.Duration) VerifierOption {
	return func(v *Verifier) { v.window = window }
}

// Verifier checks signed requests. A timestamp is accepted when it lies in
// [now-window, now+DefaultSkew+window]; each nonce is accepted once until
// its timestamp leaves that range.
type Verifier struct {
	lookup SecretLookup
	clock  Clock
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewVerifier creates a verifier resolving secrets through lookup.
func NewVerifier(lookup SecretLookup, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		lookup: lookup,
		clock:  time.Now,
		window: DefaultWindow,
		seen:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify authenticates a request given its headers, method and path.
// It returns the verified access id.
func (v *Verifier) Verify(headers http.Header, method, path string) (string, error) {
	accessID := headers.Get(HeaderAccessID)
	sig := headers.Get(HeaderSignature)
	nonce := headers.Get(HeaderNonce)
	timestamp := headers.Get(HeaderTimestamp)
	for name, value := range map[string]string{
		HeaderAccessID:  accessID,
		HeaderSignature: sig,
		HeaderNonce:     nonce,
		HeaderTimestamp: timestamp,
	} {
		if value == "" {
			return "", errors.Unauthorized(fmt.Sprintf("missing header %s", name))
		}
	}

	secret, ok := v.lookup(accessID)
	if !ok {
		return "", errors.Unauthorized("unknown access id")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return "", errors.Unauthorized("malformed timestamp")
	}
	signedAt := time.Unix(ts, 0)
	now := v.clock()
	if signedAt.Before(now.Add(-v.window)) || signedAt.After(now.Add(DefaultSkew+v.window)) {
		return "", errors.Unauthorized("timestamp outside accepted window")
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	got, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return "", errors.Unauthorized("malformed signature")
	}
	want := sum(key, CanonicalString(accessID, method, path, nonce, timestamp))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return "", errors.Unauthorized("")
	}

	if !v.remember(accessID+":"+nonce, signedAt.Add(v.window), now) {
		return "", errors.Unauthorized("nonce already used")
	}
	return accessID, nil
}

// remember records key until expiry and reports whether it was new.
func (v *Verifier) remember(key string, expiry, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for k, exp := range v.seen {
		if now.After(exp) {
			delete(v.seen, k)
		}
	}
	if _, dup := v.seen[key]; dup {
		return false
	}
	v.seen[key] = expiry
	return true
}
