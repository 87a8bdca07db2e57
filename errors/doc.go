// Package errors provides the SDK's structured error type.
//
// Signing and configuration failures surface as *AppError values with a
// machine-readable ErrorCode. Response parse failures never become errors;
// they are folded into result.Outcome instead.
package errors
