// Package signature implements the shared-secret request signing scheme.
//
// Every signed request carries four headers:
//
//	X-Access-ID        the caller's access id
//	X-Signature        base64(HMAC-SHA256(base64decode(secret), canonical))
//	X-Signature-Nonce  32 hex characters, fresh per request
//	X-Timestamp        Unix seconds, generated 180s ahead of the local clock
//
// The canonical string is the newline-joined sequence
//
//	accessId \n method \n path \n nonce \n timestamp
//
// with no trailing newline. Field order and delimiter are a wire contract
// with the server.
//
// # Usage
//
//	creds, err := signature.NewCredentials("my-id", "dGVzdC1rZXk=")
//	signer, err := signature.NewSigner(creds)
//	headers, err := signer.GenerateAuthHeaders("POST", "/api/open/v1/register")
//
// A Verifier performs the inverse check and is what the mock server in
// testutil uses to authenticate SDK traffic.
package signature
