// Package errors provides coded errors for the secrets pipeline. A code tells
// run-fatal problems (configuration, listing) apart from failures confined to
// one secret (not found, forbidden, name conflict).
package errors

// ErrorCode classifies an Error. Codes are strings so they read well in logs.
type ErrorCode string

// Per-secret failures.
const (
	// CodeNotFound means the secret does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeForbidden means the credentials may not read or decrypt the secret.
	CodeForbidden ErrorCode = "FORBIDDEN"
	// CodeConflict means the secret maps to an environment name already exported.
	CodeConflict ErrorCode = "CONFLICT"
	// CodeInvalidInput means an identifier or stored value cannot be used.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Run-level failures.
const (
	// CodeInvalidConfig means the run configuration is malformed.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"
	// CodeUnavailable means the backend could not be reached or refused the call.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// CodeIO means a local file could not be read or written.
	CodeIO ErrorCode = "IO_ERROR"
	// CodeInternal means a host or encoding step failed.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	// CodeUnknown is reported for errors that carry no code.
	CodeUnknown ErrorCode = "UNKNOWN"
)

func (c ErrorCode) String() string {
	return string(c)
}
