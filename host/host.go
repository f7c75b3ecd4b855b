// Package host defines the pipeline the secrets are injected into.
//
// Implementations live in subpackages: actions for GitHub Actions runners and
// local for terminals, dry runs and child processes.
package host

// Pipeline is the host capability. Messages are plain text; implementations
// decide how to render them.
type Pipeline interface {
	// Info prints a progress line.
	Info(msg string)
	// Debug prints a line only visible when debug output is enabled.
	Debug(msg string)
	// Warning reports a non-fatal problem.
	Warning(msg string)
	// Fail reports an error and marks the run as failed without stopping it.
	Fail(msg string)
	// MarkSensitive asks the host to redact value from all later output.
	MarkSensitive(value string)
	// ExportVariable makes name=value visible to later pipeline steps.
	ExportVariable(name, value string) error
}

// Assignment is one exported variable.
type Assignment struct {
	Name  string
	Value string
}

// CleanupKey is the variable holding the JSON list of exported names.
const CleanupKey = "SECRETS_LIST_CLEAN_UP"
