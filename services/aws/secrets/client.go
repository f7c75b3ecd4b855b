package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// listCacheKey is the cache key for the account-wide listing. It cannot
// collide with a secret name because names never contain a NUL byte.
const listCacheKey = "\x00list"

// SecretValue is a secret as returned by GetSecretValue.
type SecretValue struct {
	// Name is the friendly name reported by the backend.
	Name string
	// ARN is the full ARN reported by the backend.
	ARN string
	// Value is SecretString, or SecretBinary when no string is set.
	Value string
}

// Client reads and lists secrets in AWS Secrets Manager.
//
// All Client methods are safe for concurrent use. The cache, when set, must be
// safe for concurrent use as well.
type Client struct {
	api    ManagerAPI
	logger *slog.Logger
	cache  Cache
}

// NewClient loads the default AWS configuration and returns a Client.
// WithRegion, WithEndpoint and WithCustomRetryer are applied to the SDK client.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	var loadOpts []func(*config.LoadOptions) error
	if options.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(options.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newClient(secretsmanager.NewFromConfig(cfg, sdkOptions(options)), options), nil
}

// NewClientWithConfig returns a Client built from an existing AWS configuration.
func NewClientWithConfig(ctx context.Context, cfg *aws.Config, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return newClient(secretsmanager.NewFromConfig(*cfg, sdkOptions(options)), options), nil
}

// NewClientWithLocalStack returns a Client pointed at a LocalStack endpoint
// with static test credentials in us-east-1.
func NewClientWithLocalStack(ctx context.Context, endpointURL string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if endpointURL == "" {
		return nil, fmt.Errorf("endpoint URL cannot be empty")
	}

	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.AnonymousCredentials{},
	}
	opts = append(opts, WithEndpoint(endpointURL))

	return NewClientWithConfig(ctx, &cfg, opts...)
}

// NewClientFromAPI wraps an existing ManagerAPI. Region, endpoint and retryer
// options have no effect here since the SDK client is already built.
func NewClientFromAPI(api ManagerAPI, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("api cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return newClient(api, options), nil
}

func newClient(api ManagerAPI, options *clientOptions) *Client {
	return &Client{
		api:    api,
		logger: options.logger,
		cache:  options.cache,
	}
}

func sdkOptions(options *clientOptions) func(*secretsmanager.Options) {
	return func(o *secretsmanager.Options) {
		if options.region != "" {
			o.Region = options.region
		}
		if options.endpoint != "" {
			o.BaseEndpoint = aws.String(options.endpoint)
		}
		if options.retryer != nil {
			o.Retryer = options.retryer
		}
	}
}

// handleError maps SDK errors to the package sentinels and wraps everything
// else with the failing operation.
func (c *Client) handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if isSentinel(err) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if sentinel := sentinelForCode(apiErr.ErrorCode()); sentinel != nil {
			return &APIError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage(), Err: sentinel}
		}
		return fmt.Errorf("%s operation failed: %s: %s",
			operation, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}

// GetSecret retrieves the current value of a secret by name or ARN.
// When a cache is configured, hits skip the API call.
func (c *Client) GetSecret(ctx context.Context, secretID string) (*SecretValue, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if secretID == "" {
		return nil, fmt.Errorf("secret name cannot be empty")
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(secretID); ok {
			if v, ok := cached.(*SecretValue); ok {
				c.debug(ctx, "cache hit for secret", "secret_name", secretID)
				copied := *v
				return &copied, nil
			}
		}
	}

	c.debug(ctx, "retrieving secret", "secret_name", secretID)

	output, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_name", secretID,
				"error", err)
		}
		return nil, c.handleError(err, "GetSecret")
	}

	value := &SecretValue{
		Name: aws.ToString(output.Name),
		ARN:  aws.ToString(output.ARN),
	}
	switch {
	case output.SecretString != nil:
		value.Value = *output.SecretString
	case output.SecretBinary != nil:
		value.Value = string(output.SecretBinary)
	default:
		return nil, c.handleError(ErrSecretEmpty, "GetSecret")
	}

	if c.cache != nil {
		copied := *value
		c.cache.Set(secretID, &copied, 0)
	}

	c.debug(ctx, "secret retrieved successfully", "secret_name", secretID)

	return value, nil
}

// ListSecretNames returns the names of every secret visible to the caller,
// following pagination to the end. The listing is cached as a whole.
func (c *Client) ListSecretNames(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(listCacheKey); ok {
			if names, ok := cached.([]string); ok {
				c.debug(ctx, "cache hit for secret listing", "count", len(names))
				return append([]string(nil), names...), nil
			}
		}
	}

	c.debug(ctx, "listing secrets")

	var names []string
	paginator := secretsmanager.NewListSecretsPaginator(c.api, &secretsmanager.ListSecretsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "failed to list secrets", "error", err)
			}
			return nil, c.handleError(err, "ListSecrets")
		}
		for _, entry := range page.SecretList {
			if entry.Name != nil {
				names = append(names, *entry.Name)
			}
		}
	}

	if c.cache != nil {
		c.cache.Set(listCacheKey, append([]string(nil), names...), 0)
	}

	c.debug(ctx, "listed secrets", "count", len(names))

	return names, nil
}

// Close drops every cached secret value. The client stays usable.
func (c *Client) Close() error {
	if clearer, ok := c.cache.(interface{ Clear() }); ok {
		clearer.Clear()
	}
	return nil
}

func (c *Client) debug(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.DebugContext(ctx, msg, args...)
	}
}
