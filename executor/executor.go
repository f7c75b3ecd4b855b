// Package executor runs a child process attached to the given streams with
// extra environment variables.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultWaitDelay bounds how long Execute waits after cancellation for the
// child to exit and release its output streams.
const DefaultWaitDelay = 10 * time.Second

// CommandExecutor runs one program and argument list.
type CommandExecutor struct {
	program string
	args    []string
	options *Options
}

// Options configures command execution.
type Options struct {
	// Stdin, Stdout and Stderr are attached to the child when set.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	WorkingDir string

	// Env holds KEY=VALUE entries appended to os.Environ().
	// A later entry overrides an earlier one with the same key.
	Env []string

	// WaitDelay is the grace period between SIGTERM on cancellation and a
	// forced kill. It also bounds waiting on streams held open by
	// grandchildren.
	WaitDelay time.Duration
}

// Option modifies Options.
type Option func(*Options)

// DefaultOptions attaches the child to the current process's standard streams.
func DefaultOptions() *Options {
	return &Options{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: DefaultWaitDelay,
	}
}

// New creates a CommandExecutor.
func New(program string, args ...string) *CommandExecutor {
	return &CommandExecutor{
		program: program,
		args:    args,
		options: DefaultOptions(),
	}
}

// Execute runs the command once. A non-zero exit status is returned as an
// error wrapping *exec.ExitError. Cancelling ctx sends SIGTERM to the child.
func (c *CommandExecutor) Execute(ctx context.Context, opts ...Option) error {
	if c.program == "" {
		return errors.New("no command given")
	}
	options := c.mergeOptions(opts...)

	cmd := exec.CommandContext(ctx, c.program, c.args...)
	cmd.Dir = options.WorkingDir
	cmd.Env = append(os.Environ(), options.Env...)
	cmd.Stdin = options.Stdin
	cmd.Stdout = options.Stdout
	cmd.Stderr = options.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = options.WaitDelay

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

func (c *CommandExecutor) mergeOptions(opts ...Option) *Options {
	merged := *c.options
	merged.Env = append([]string(nil), c.options.Env...)
	for _, opt := range opts {
		opt(&merged)
	}
	return &merged
}

// WithStdio attaches the child to the given streams. Nil detaches a stream.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(o *Options) {
		o.Stdin = stdin
		o.Stdout = stdout
		o.Stderr = stderr
	}
}

// WithWorkingDir sets the working directory. Empty means the current one.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv appends KEY=VALUE entries to the child's environment.
func WithEnv(env ...string) Option {
	return func(o *Options) {
		o.Env = append(o.Env, env...)
	}
}

// WithWaitDelay overrides DefaultWaitDelay.
func WithWaitDelay(d time.Duration) Option {
	return func(o *Options) {
		o.WaitDelay = d
	}
}

// ExitCode returns the exit status carried by err, 0 for nil and 1 for any
// error that is not an exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return 1
}
