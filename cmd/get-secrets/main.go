// Package main is the entry point for the get-secrets CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build information, set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newApp()).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode prints err unless it only carries a status, and returns the
// process exit code for it.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var status *exitError
	if errors.As(err, &status) {
		return status.code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

// exitError ends the process with code without printing anything more;
// whatever needed saying was already reported through the host.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
