package executor_test

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/useparagon/aws-secretsmanager-get-secrets/executor"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// run executes sh -c script with stdout and stderr captured.
func run(ctx context.Context, script string, opts ...executor.Option) (string, string, error) {
	var stdout, stderr bytes.Buffer
	opts = append([]executor.Option{executor.WithStdio(nil, &stdout, &stderr)}, opts...)
	err := executor.New("sh", "-c", script).Execute(ctx, opts...)
	return stdout.String(), stderr.String(), err
}

func TestBasicExecution(t *testing.T) {
	requireShell(t)

	stdout, stderr, err := run(context.Background(), "echo stdout && echo stderr >&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "stdout\n" {
		t.Errorf("expected stdout 'stdout', got: %q", stdout)
	}
	if stderr != "stderr\n" {
		t.Errorf("expected stderr 'stderr', got: %q", stderr)
	}
}

func TestEnvironment(t *testing.T) {
	requireShell(t)
	t.Setenv("EXECUTOR_INHERITED", "yes")

	stdout, _, err := run(context.Background(),
		`printf '%s|%s|%s' "$TEST_ONE_USER" "$DB_PASSWORD" "$EXECUTOR_INHERITED"`,
		executor.WithEnv("TEST_ONE_USER=admin", "DB_PASSWORD=old"),
		executor.WithEnv("DB_PASSWORD=new"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "admin|new|yes" {
		t.Errorf("expected appended and inherited variables, got: %q", stdout)
	}
}

func TestExitCode(t *testing.T) {
	requireShell(t)

	_, _, err := run(context.Background(), "exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if got := executor.ExitCode(err); got != 3 {
		t.Errorf("expected ExitCode(err) = 3, got: %d", got)
	}
}

func TestExitCodeHelper(t *testing.T) {
	if got := executor.ExitCode(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}

	err := executor.New("definitely-not-a-real-program-xyz").Execute(context.Background(),
		executor.WithStdio(nil, nil, nil))
	if err == nil {
		t.Fatal("expected error for missing program")
	}
	if got := executor.ExitCode(err); got != 1 {
		t.Errorf("expected 1 for a start failure, got %d", got)
	}
}

func TestEmptyProgram(t *testing.T) {
	if err := executor.New("").Execute(context.Background()); err == nil {
		t.Fatal("expected error for empty program")
	}
}

func TestContextCancellation(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name   string
		script string
	}{
		{name: "direct child", script: "exec sleep 10"},
		// sleep outlives sh and keeps the captured stdout pipe open.
		{name: "grandchild holds output", script: "sleep 10; true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			_, _, err := run(ctx, tt.script, executor.WithWaitDelay(500*time.Millisecond))
			if err == nil {
				t.Fatal("expected error after cancellation")
			}
			if elapsed := time.Since(start); elapsed > 5*time.Second {
				t.Errorf("Execute returned after %v, expected the wait to be bounded", elapsed)
			}
		})
	}
}

func TestCancellationSendsSIGTERM(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout bytes.Buffer
	ready := make(chan struct{})
	go func() {
		// Give sh time to install the trap.
		time.Sleep(300 * time.Millisecond)
		close(ready)
		cancel()
	}()

	err := executor.New("sh", "-c", `trap 'echo terminated; kill $! 2>/dev/null; exit 0' TERM; sleep 10 & wait`).
		Execute(ctx, executor.WithStdio(nil, &stdout, nil), executor.WithWaitDelay(2*time.Second))
	<-ready

	if !strings.Contains(stdout.String(), "terminated") {
		t.Errorf("expected the child to handle SIGTERM, got stdout %q (err %v)", stdout.String(), err)
	}
}

func TestWorkingDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	stdout, _, err := run(context.Background(), "pwd", executor.WithWorkingDir(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(stdout), dir) {
		t.Errorf("expected working dir %s, got: %s", dir, stdout)
	}
}
