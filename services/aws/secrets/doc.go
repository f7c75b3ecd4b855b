// Package secrets provides a small, testable client for AWS Secrets Manager
// covering the two read operations the injection pipeline needs: fetching a
// secret value together with its canonical name, and listing every secret name
// visible to the caller.
//
// The client wraps the AWS SDK v2 `secretsmanager` service to provide:
//   - GetSecret, returning name, ARN and value for a name or ARN
//   - ListSecretNames, walking every ListSecrets page
//   - Optional caching via the `Cache` interface and `InMemoryCache`
//   - A custom retryer wired into the SDK client
//   - Typed errors (`ErrSecretNotFound`, `ErrSecretEmpty`, `ErrAccessDenied`)
//
// # Security considerations
//
//   - The package never logs secret values; only secret names
//   - Required IAM permissions are `secretsmanager:GetSecretValue` and, when
//     wildcard references are used, `secretsmanager:ListSecrets`. Secrets
//     encrypted with a customer-managed key also need `kms:Decrypt`.
//
// # Thread safety
//
// Client methods are safe for concurrent use. The SDK client is thread-safe,
// `InMemoryCache` is guarded by a mutex, and the retryer is immutable.
package secrets
