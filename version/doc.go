// Package version carries the SDK build version and the User-Agent derived
// from it.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/junyouava/openapi-sdk-go/version.Version=1.0.0" ./cmd/openapi
package version
