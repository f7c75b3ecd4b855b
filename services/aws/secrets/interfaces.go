package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ManagerAPI is the part of *secretsmanager.Client that Client calls.
// Tests substitute a hand-written fake.
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)

	// ListSecrets returns one page; ListSecretNames drives it through
	// secretsmanager.NewListSecretsPaginator.
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

var (
	_ ManagerAPI                          = (*secretsmanager.Client)(nil)
	_ secretsmanager.ListSecretsAPIClient = ManagerAPI(nil)
)
