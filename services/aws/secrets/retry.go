package secrets

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 200 * time.Millisecond
	defaultMaxDelay    = 10 * time.Second
)

var retryableCodes = map[string]bool{
	"ThrottlingException":                    true,
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"TooManyRequestsException":               true,
	"InternalServiceError":                   true,
}

// CustomRetryer is an aws.Retryer with exponential backoff and jitter that only
// retries throttling and internal service errors.
//
// It holds immutable configuration and is safe for concurrent use.
type CustomRetryer struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

var _ aws.Retryer = (*CustomRetryer)(nil)

// NewCustomRetryer returns a retryer making at most maxAttempts attempts.
// Non-positive arguments fall back to the package defaults.
func NewCustomRetryer(maxAttempts int, baseDelay, maxDelay time.Duration) *CustomRetryer {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	return &CustomRetryer{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
	}
}

// DefaultRetryer returns a retryer with the package defaults.
func DefaultRetryer() *CustomRetryer {
	return NewCustomRetryer(0, 0, 0)
}

// MaxAttempts returns the maximum number of attempts, including the first one.
func (r *CustomRetryer) MaxAttempts() int {
	return r.maxAttempts
}

// RetryDelay returns baseDelay * 2^(attempt-1) with ±25% jitter, capped at maxDelay.
func (r *CustomRetryer) RetryDelay(attempt int, _ error) (time.Duration, error) {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * r.baseDelay

	if spread := int64(float64(delay) * 0.25); spread > 0 {
		delay += time.Duration(rand.Int63n(2*spread) - spread)
	}

	return min(max(delay, 0), r.maxDelay), nil
}

// IsErrorRetryable reports whether err is a throttling or internal service error.
// Context cancellation and deadline errors are never retried.
func (r *CustomRetryer) IsErrorRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.ErrorCode()]
	}
	return false
}

// GetRetryToken always grants a retry; there is no shared token bucket.
func (r *CustomRetryer) GetRetryToken(context.Context, error) (func(error) error, error) {
	return func(error) error { return nil }, nil
}

// GetInitialToken returns a no-op release function.
func (r *CustomRetryer) GetInitialToken() func(error) error {
	return func(error) error { return nil }
}
