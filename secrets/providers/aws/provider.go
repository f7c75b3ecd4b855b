// Package aws provides an AWS Secrets Manager implementation of secrets.Provider.
//
//	provider, err := aws.New(ctx,
//	    awssecrets.WithRegion("us-west-2"),
//	    awssecrets.WithEndpoint("http://localhost:4566"), // for LocalStack
//	)
//
// Client errors are mapped onto the secrets package sentinels, so callers can
// test with errors.Is(err, secrets.ErrSecretNotFound) regardless of backend.
package aws

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/useparagon/aws-secretsmanager-get-secrets/secrets"
	awssecrets "github.com/useparagon/aws-secretsmanager-get-secrets/services/aws/secrets"
)

// SecretsClient is the subset of the Secrets Manager client used by Provider.
type SecretsClient interface {
	GetSecret(ctx context.Context, secretID string) (*awssecrets.SecretValue, error)
	ListSecretNames(ctx context.Context) ([]string, error)
}

var _ SecretsClient = (*awssecrets.Client)(nil)

// Provider reads secrets from AWS Secrets Manager.
// It is safe for concurrent use.
type Provider struct {
	client SecretsClient
}

var _ secrets.Provider = (*Provider)(nil)

// New builds a Secrets Manager client from the default AWS configuration.
func New(ctx context.Context, opts ...awssecrets.Option) (*Provider, error) {
	client, err := awssecrets.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager client: %w", err)
	}
	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client SecretsClient) *Provider {
	return &Provider{client: client}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "aws"
}

// ListSecrets returns every secret name in the account and region.
func (p *Provider) ListSecrets(ctx context.Context) ([]string, error) {
	names, err := p.client.ListSecretNames(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return names, nil
}

// GetSecret returns the current value of the secret named or ARN'd by id.
func (p *Provider) GetSecret(ctx context.Context, id string) (*secrets.Secret, error) {
	value, err := p.client.GetSecret(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &secrets.Secret{
		Name:  value.Name,
		ARN:   value.ARN,
		Value: []byte(value.Value),
	}, nil
}

// Close clears values cached by the client, if it caches any.
func (p *Provider) Close() error {
	if closer, ok := p.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// mapError translates client sentinels into secrets sentinels, keeping the
// Secrets Manager code and message when the client reported one.
func mapError(err error) error {
	switch {
	case errors.Is(err, awssecrets.ErrSecretNotFound):
		return withDetail(secrets.ErrSecretNotFound, err)
	case errors.Is(err, awssecrets.ErrAccessDenied):
		return withDetail(secrets.ErrAccessDenied, err)
	case errors.Is(err, awssecrets.ErrSecretEmpty):
		return withDetail(secrets.ErrSecretEmpty, err)
	default:
		return err
	}
}

func withDetail(sentinel, err error) error {
	var apiErr *awssecrets.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", sentinel, apiErr)
	}
	return sentinel
}
