package secrets

import (
	"errors"
	"fmt"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

var (
	// ErrSecretNotFound indicates the requested secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty indicates the secret exists but holds no value.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied indicates the caller may not read the secret.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidID indicates an empty or malformed identifier.
	ErrInvalidID = errors.New("invalid secret identifier")
)

// ProviderError wraps a provider failure for one identifier.
// Its message is the underlying error's, so reports stay short.
type ProviderError struct {
	Provider string // Name of the provider where the error occurred
	ID       string // Identifier that was requested
	Err      error  // The underlying error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider, id string, err error) *ProviderError {
	return &ProviderError{Provider: provider, ID: id, Err: err}
}

// IsProviderError checks if an error is a ProviderError or contains one in its chain.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// codeFor classifies a provider error.
func codeFor(err error) errs.ErrorCode {
	switch {
	case errors.Is(err, ErrSecretNotFound):
		return errs.CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return errs.CodeForbidden
	case errors.Is(err, ErrInvalidID):
		return errs.CodeInvalidInput
	case errors.Is(err, ErrSecretEmpty):
		return errs.CodeInvalidInput
	default:
		return errs.CodeUnavailable
	}
}

// wrapFetchError returns a coded error around a ProviderError.
func wrapFetchError(provider, id string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(NewProviderError(provider, id, err), codeFor(err), "")
}

// ListError wraps a failed listing. Listing failures are fatal for a run.
func ListError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return errs.Wrap(err, errs.CodeUnavailable, fmt.Sprintf("list secrets from %s", provider))
}
