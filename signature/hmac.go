package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/junyouava/openapi-sdk-go/errors"
)

// CanonicalString joins the signed fields with "\n" and no trailing newline.
func CanonicalString(accessID, method, path, nonce, timestamp string) string {
	return strings.Join([]string{accessID, method, path, nonce, timestamp}, "\n")
}

// ComputeHMAC decodes the base64 secret and returns the base64 encoded
// HMAC-SHA256 of canonical. A secret that is not valid base64 yields a
// DECODING_ERROR.
func ComputeHMAC(secret, canonical string) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sum(key, canonical)), nil
}

func decodeSecret(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.Decoding("access key secret", err)
	}
	return key, nil
}

func sum(key []byte, canonical string) []byte {
	mac := hmac.New(sha256.New, key)
	// hash.Hash writes never return an error.
	_, _ = mac.Write([]byte(canonical))
	return mac.Sum(nil)
}
