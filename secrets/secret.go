// Package secrets defines the secret backend capability used by the pipeline
// and the Value Fetcher that reads one resolved identifier at a time.
//
// # Providers
//
// A Provider lists the secret names it holds and returns one secret by name or
// ARN. Two implementations ship with the module:
//
//	providers/aws     AWS Secrets Manager
//	providers/memory  in-memory store for tests and local dry runs
//
// # Fetching
//
// Fetcher wraps a Provider, assigns the canonical name of each fetched secret
// and records an audit entry per access:
//
//	fetcher := secrets.NewFetcher(provider, secrets.WithAuditLogger(secrets.NewSlogAuditLogger(logger)))
//	secret, err := fetcher.Fetch(ctx, "arn:aws:secretsmanager:...:secret:prod/db-AbCdEf", true)
//	// secret.Name == "prod/db"
//
// Secret values are never logged.
package secrets

// Secret is a value fetched from a provider.
type Secret struct {
	// Name is the canonical name: the requested identifier, or the
	// backend-reported name when the identifier was an ARN.
	Name string
	// ARN is the backend ARN when the provider knows it.
	ARN string
	// Value contains the secret data. It must never be logged.
	Value []byte
}

// String returns the secret value as a string.
func (s *Secret) String() string {
	if s == nil || s.Value == nil {
		return ""
	}
	return string(s.Value)
}

// Clear zeroes the secret value in memory.
func (s *Secret) Clear() {
	if s == nil || s.Value == nil {
		return
	}
	for i := range s.Value {
		s.Value[i] = 0
	}
	s.Value = nil
}
