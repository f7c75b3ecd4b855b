// Package actions implements host.Pipeline on a GitHub Actions runner.
package actions

import (
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
)

// Host writes workflow commands through go-githubactions and mirrors every
// export into the current process environment.
type Host struct {
	action *githubactions.Action
	setenv func(key, value string) error
	failed bool
}

var _ host.Pipeline = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithSetenv replaces os.Setenv, mainly for tests.
func WithSetenv(setenv func(key, value string) error) Option {
	return func(h *Host) {
		h.setenv = setenv
	}
}

// New returns a Host over action. A nil action uses githubactions.New().
func New(action *githubactions.Action, opts ...Option) *Host {
	if action == nil {
		action = githubactions.New()
	}
	h := &Host{action: action, setenv: os.Setenv}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Info implements host.Pipeline.
func (h *Host) Info(msg string) {
	h.action.Infof("%s", msg)
}

// Debug implements host.Pipeline.
func (h *Host) Debug(msg string) {
	h.action.Debugf("%s", msg)
}

// Warning implements host.Pipeline.
func (h *Host) Warning(msg string) {
	h.action.Warningf("%s", msg)
}

// Fail emits an error annotation. The process exit code is left to the caller.
func (h *Host) Fail(msg string) {
	h.failed = true
	h.action.Errorf("%s", msg)
}

// Failed reports whether Fail has been called.
func (h *Host) Failed() bool {
	return h.failed
}

// MarkSensitive implements host.Pipeline.
func (h *Host) MarkSensitive(value string) {
	h.action.AddMask(value)
}

// ExportVariable writes name to GITHUB_ENV and sets it in this process.
func (h *Host) ExportVariable(name, value string) error {
	h.action.SetEnv(name, value)
	return h.setenv(name, value)
}
