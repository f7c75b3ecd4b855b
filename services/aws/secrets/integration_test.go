//go:build integration

// Integration tests against LocalStack started through testcontainers.
//
//	go test -tags=integration ./services/aws/secrets/...
//
// Docker must be running.
package secrets_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	secrets "github.com/useparagon/aws-secretsmanager-get-secrets/services/aws/secrets"
)

type testContainer struct {
	container *localstack.LocalStackContainer
	uri       string
}

var (
	globalContainer *testContainer
	containerOnce   sync.Once
	containerMutex  sync.Mutex
)

// getTestContainer returns a LocalStack container shared by every test in the package.
func getTestContainer(ctx context.Context) (*testContainer, error) {
	containerMutex.Lock()
	defer containerMutex.Unlock()

	var err error
	containerOnce.Do(func() {
		container, startErr := localstack.Run(ctx, "localstack/localstack:latest")
		if startErr != nil {
			err = fmt.Errorf("failed to start LocalStack container: %w", startErr)
			return
		}

		port, _ := nat.NewPort("tcp", "4566")
		uri, uriErr := container.PortEndpoint(ctx, port, "")
		if uriErr != nil {
			_ = container.Terminate(ctx)
			err = fmt.Errorf("failed to get LocalStack endpoint: %w", uriErr)
			return
		}
		if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
			uri = "http://" + uri
		}

		globalContainer = &testContainer{container: container, uri: uri}
	})
	if err != nil {
		return nil, err
	}
	return globalContainer, nil
}

func terminateTestContainer(ctx context.Context) error {
	containerMutex.Lock()
	defer containerMutex.Unlock()

	if globalContainer != nil {
		err := globalContainer.container.Terminate(ctx)
		globalContainer = nil
		containerOnce = sync.Once{}
		return err
	}
	return nil
}

func newTestClient(ctx context.Context, t *testing.T, opts ...secrets.Option) *secrets.Client {
	t.Helper()
	tc, err := getTestContainer(ctx)
	require.NoError(t, err)

	client, err := secrets.NewClientWithLocalStack(ctx, tc.uri, opts...)
	require.NoError(t, err)
	return client
}

// seedSecret creates a secret through the raw SDK client and returns its ARN.
func seedSecret(ctx context.Context, t *testing.T, name, value string) string {
	t.Helper()
	tc, err := getTestContainer(ctx)
	require.NoError(t, err)

	api := secretsmanager.New(secretsmanager.Options{
		Region:       "us-east-1",
		Credentials:  aws.AnonymousCredentials{},
		BaseEndpoint: aws.String(tc.uri),
	})
	out, err := api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
	})
	require.NoError(t, err)
	return aws.ToString(out.ARN)
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	if _, err := getTestContainer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start LocalStack: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := terminateTestContainer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate LocalStack: %v\n", err)
	}
	os.Exit(code)
}

func TestGetSecret(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(ctx, t)

	name := fmt.Sprintf("it/get-%d", time.Now().UnixNano())
	value := `{"username":"admin","password":"secret123"}`
	arn := seedSecret(ctx, t, name, value)

	t.Run("by name", func(t *testing.T) {
		got, err := client.GetSecret(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, value, got.Value)
		assert.Equal(t, arn, got.ARN)
	})

	t.Run("by ARN", func(t *testing.T) {
		got, err := client.GetSecret(ctx, arn)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, value, got.Value)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := client.GetSecret(ctx, "it/does-not-exist")
		assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
	})
}

func TestListSecretNames(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(ctx, t)

	prefix := fmt.Sprintf("it/list-%d/", time.Now().UnixNano())
	for i := 0; i < 3; i++ {
		seedSecret(ctx, t, fmt.Sprintf("%s%d", prefix, i), "v")
	}

	names, err := client.ListSecretNames(ctx)
	require.NoError(t, err)

	var matched []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			matched = append(matched, n)
		}
	}
	assert.ElementsMatch(t, []string{prefix + "0", prefix + "1", prefix + "2"}, matched)
}

func TestCaching(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(ctx, t, secrets.WithCache(secrets.NewInMemoryCache(time.Minute, 10)))

	name := fmt.Sprintf("it/cache-%d", time.Now().UnixNano())
	seedSecret(ctx, t, name, "cached")

	first, err := client.GetSecret(ctx, name)
	require.NoError(t, err)
	second, err := client.GetSecret(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoggingNeverContainsValues(t *testing.T) {
	ctx := context.Background()

	var logBuffer strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := newTestClient(ctx, t, secrets.WithLogger(logger))

	name := fmt.Sprintf("it/log-%d", time.Now().UnixNano())
	seedSecret(ctx, t, name, `{"password":"super-secret-123"}`)

	_, err := client.GetSecret(ctx, name)
	require.NoError(t, err)

	logOutput := logBuffer.String()
	assert.Contains(t, logOutput, name)
	assert.NotContains(t, logOutput, "super-secret-123")
}
