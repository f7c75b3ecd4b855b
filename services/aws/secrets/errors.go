package secrets

import (
	"errors"
	"fmt"
)

// Secrets Manager error codes mapped onto sentinels.
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
	// DecryptionFailure is returned when the caller may read the secret but
	// not use its KMS key.
	DecryptionFailure = "DecryptionFailure"
)

var (
	// ErrSecretNotFound is returned when no secret has the requested name or ARN.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret version carries neither
	// SecretString nor SecretBinary.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the credentials may not read the secret
	// or decrypt it.
	ErrAccessDenied = errors.New("access denied to secret")
)

// APIError carries the code and message of a Secrets Manager error that maps
// onto a sentinel. errors.Is matches the sentinel.
type APIError struct {
	Code    string
	Message string
	// Err is the sentinel the code maps to.
	Err error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// sentinelForCode returns the sentinel for an API error code, or nil when the
// code has none.
func sentinelForCode(code string) error {
	switch code {
	case ResourceNotFoundException:
		return ErrSecretNotFound
	case AccessDeniedException, DecryptionFailure:
		return ErrAccessDenied
	default:
		return nil
	}
}

// isSentinel reports whether err already wraps one of the package sentinels.
func isSentinel(err error) bool {
	return errors.Is(err, ErrSecretNotFound) ||
		errors.Is(err, ErrSecretEmpty) ||
		errors.Is(err, ErrAccessDenied)
}
