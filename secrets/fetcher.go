package secrets

import (
	"context"
	"log/slog"
)

// Fetcher reads one identifier at a time from a Provider.
type Fetcher struct {
	provider Provider
	audit    AuditLogger
	logger   *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithAuditLogger records every fetch through audit.
func WithAuditLogger(audit AuditLogger) FetcherOption {
	return func(f *Fetcher) {
		f.audit = audit
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher returns a Fetcher over provider.
func NewFetcher(provider Provider, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{provider: provider}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the secret for id. The returned Secret.Name is id itself,
// unless isARN is set, in which case it is the name the backend reported.
//
// Errors are coded (see package errors) and wrap a *ProviderError.
func (f *Fetcher) Fetch(ctx context.Context, id string, isARN bool) (*Secret, error) {
	if id == "" {
		err := wrapFetchError(f.provider.Name(), id, ErrInvalidID)
		f.record(ctx, id, err)
		return nil, err
	}

	secret, err := f.provider.GetSecret(ctx, id)
	if err != nil {
		err = wrapFetchError(f.provider.Name(), id, err)
		f.record(ctx, id, err)
		return nil, err
	}

	out := &Secret{
		Name:  id,
		ARN:   secret.ARN,
		Value: secret.Value,
	}
	if isARN && secret.Name != "" {
		out.Name = secret.Name
	}

	f.record(ctx, out.Name, nil)
	if f.logger != nil {
		f.logger.DebugContext(ctx, "fetched secret",
			"secret_name", out.Name,
			"provider", f.provider.Name())
	}

	return out, nil
}

func (f *Fetcher) record(ctx context.Context, name string, err error) {
	if f.audit != nil {
		f.audit.LogAccess(ctx, "get", name, err == nil, err)
	}
}
