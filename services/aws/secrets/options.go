package secrets

import (
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Cache stores values fetched from Secrets Manager.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key and whether it was found.
	Get(key string) (any, bool)

	// Set stores value under key for ttl. A zero ttl means the cache default.
	Set(key string, value any, ttl time.Duration)
}

// clientOptions holds configuration for Client.
type clientOptions struct {
	logger   *slog.Logger
	cache    Cache
	retryer  aws.Retryer
	region   string
	endpoint string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithCache enables caching of secret values and listings.
// A nil cache disables caching.
func WithCache(cache Cache) Option {
	return func(opts *clientOptions) {
		opts.cache = cache
	}
}

// WithCustomRetryer replaces the SDK retryer for every request the client makes.
// A nil retryer keeps the SDK default.
func WithCustomRetryer(retryer aws.Retryer) Option {
	return func(opts *clientOptions) {
		opts.retryer = retryer
	}
}

// WithRegion overrides the region resolved from the environment.
func WithRegion(region string) Option {
	return func(opts *clientOptions) {
		opts.region = region
	}
}

// WithEndpoint points the client at a custom endpoint such as LocalStack.
func WithEndpoint(endpoint string) Option {
	return func(opts *clientOptions) {
		opts.endpoint = endpoint
	}
}

func defaultOptions() *clientOptions {
	return &clientOptions{}
}

func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
