package secrets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomRetryer(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		baseDelay   time.Duration
		maxDelay    time.Duration
		want        CustomRetryer
	}{
		{
			name:        "explicit values",
			maxAttempts: 3,
			baseDelay:   50 * time.Millisecond,
			maxDelay:    time.Second,
			want:        CustomRetryer{maxAttempts: 3, baseDelay: 50 * time.Millisecond, maxDelay: time.Second},
		},
		{
			name: "zero values use defaults",
			want: CustomRetryer{maxAttempts: defaultMaxAttempts, baseDelay: defaultBaseDelay, maxDelay: defaultMaxDelay},
		},
		{
			name:        "negative values use defaults",
			maxAttempts: -1,
			baseDelay:   -time.Second,
			maxDelay:    -time.Second,
			want:        CustomRetryer{maxAttempts: defaultMaxAttempts, baseDelay: defaultBaseDelay, maxDelay: defaultMaxDelay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCustomRetryer(tt.maxAttempts, tt.baseDelay, tt.maxDelay)
			assert.Equal(t, tt.want, *r)
			assert.Equal(t, tt.want.maxAttempts, r.MaxAttempts())
		})
	}

	assert.Equal(t, *NewCustomRetryer(0, 0, 0), *DefaultRetryer())
}

func TestCustomRetryer_RetryDelay(t *testing.T) {
	r := NewCustomRetryer(5, 100*time.Millisecond, time.Second)

	tests := []struct {
		attempt int
		nominal time.Duration
	}{
		{attempt: 0, nominal: 100 * time.Millisecond},
		{attempt: 1, nominal: 100 * time.Millisecond},
		{attempt: 2, nominal: 200 * time.Millisecond},
		{attempt: 3, nominal: 400 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				delay, err := r.RetryDelay(tt.attempt, nil)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, delay, tt.nominal*3/4)
				assert.LessOrEqual(t, delay, tt.nominal*5/4)
			}
		})
	}

	t.Run("capped at max delay", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			delay, err := r.RetryDelay(10, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, delay, time.Second)
		}
	})
}

func TestCustomRetryer_IsErrorRetryable(t *testing.T) {
	r := DefaultRetryer()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "throttling", err: &smithy.GenericAPIError{Code: "ThrottlingException"}, want: true},
		{name: "too many requests", err: &smithy.GenericAPIError{Code: "TooManyRequestsException"}, want: true},
		{name: "internal service error", err: &smithy.GenericAPIError{Code: "InternalServiceError"}, want: true},
		{name: "wrapped throttling", err: fmt.Errorf("call: %w", &smithy.GenericAPIError{Code: "RequestLimitExceeded"}), want: true},
		{name: "not found", err: &smithy.GenericAPIError{Code: ResourceNotFoundException}, want: false},
		{name: "access denied", err: &smithy.GenericAPIError{Code: AccessDeniedException}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("wrapped: %w", context.DeadlineExceeded), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsErrorRetryable(tt.err))
		})
	}
}

func TestCustomRetryer_Tokens(t *testing.T) {
	r := DefaultRetryer()

	release, err := r.GetRetryToken(context.Background(), errors.New("x"))
	require.NoError(t, err)
	assert.NoError(t, release(nil))

	assert.NoError(t, r.GetInitialToken()(nil))
}
