package run

import (
	"encoding/json"
	"os"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
)

// Environment is the process environment seen by Cleanup.
type Environment interface {
	Getenv(key string) string
	Unsetenv(key string) error
}

type osEnvironment struct{}

func (osEnvironment) Getenv(key string) string   { return os.Getenv(key) }
func (osEnvironment) Unsetenv(key string) error { return os.Unsetenv(key) }

// ProcessEnvironment is the environment of the current process.
var ProcessEnvironment Environment = osEnvironment{}

// Cleanup clears every variable listed in host.CleanupKey by exporting it
// empty and removing it from env, then clears host.CleanupKey itself. It
// returns the names it cleared.
func Cleanup(pipeline host.Pipeline, env Environment) ([]string, error) {
	var names []string
	if raw := env.Getenv(host.CleanupKey); raw != "" {
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, errs.Wrap(err, errs.CodeInvalidInput, "failed to parse "+host.CleanupKey)
		}
	}

	cleared := make([]string, 0, len(names))
	for _, name := range names {
		if err := clearVariable(pipeline, env, name); err != nil {
			return cleared, err
		}
		cleared = append(cleared, name)
	}

	if err := clearVariable(pipeline, env, host.CleanupKey); err != nil {
		return cleared, err
	}
	pipeline.Info("Cleanup complete.")
	return cleared, nil
}

func clearVariable(pipeline host.Pipeline, env Environment, name string) error {
	if err := pipeline.ExportVariable(name, ""); err != nil {
		return errs.Wrap(err, errs.CodeInternal, "failed to clear "+name)
	}
	if err := env.Unsetenv(name); err != nil {
		return errs.Wrap(err, errs.CodeInternal, "failed to unset "+name)
	}
	return nil
}
