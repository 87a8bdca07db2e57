// Package result normalizes server responses into a uniform Outcome.
//
// The server wraps its result object in one of two envelopes:
//
//	{"result": {"code": 200, "success": true, "data": ...}}   // wrapped
//	{"code": 200, "success": true, "data": ...}               // direct
//
// Normalize accepts either, never returns an error and never panics.
// Callers branch on Outcome.Succeeded.
package result
