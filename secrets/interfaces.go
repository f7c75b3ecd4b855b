package secrets

import "context"

// Provider is a secret backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider's identifier (e.g., "aws", "memory").
	Name() string

	// ListSecrets returns every secret name visible to the caller in
	// backend order.
	ListSecrets(ctx context.Context) ([]string, error)

	// GetSecret returns the secret identified by a name or an ARN.
	// Secret.Name is the backend's name for the secret.
	GetSecret(ctx context.Context, id string) (*Secret, error)

	// Close releases any secret values the provider still holds.
	Close() error
}

// AuditLogger records secret access events.
// Implementations should be thread-safe and handle logging failures gracefully.
type AuditLogger interface {
	// LogAccess logs one access attempt. err is nil on success.
	LogAccess(ctx context.Context, action, secretName string, success bool, err error)
}
