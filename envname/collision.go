package envname

import (
	"fmt"
	"strings"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// Mode selects what happens when a name is exported twice in one run.
type Mode string

const (
	ModeDefault Mode = "default"
	ModeError   Mode = "error"
	ModeWarn    Mode = "warn"
	ModeSilent  Mode = "silent"
)

// ParseMode parses an overwrite mode. The empty string is ModeDefault.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case "":
		return ModeDefault, nil
	case ModeDefault, ModeError, ModeWarn, ModeSilent:
		return m, nil
	default:
		return "", errs.Newf(errs.CodeInvalidConfig,
			"Invalid overwrite mode '%s'. Valid values are: default, error, warn, silent.", s)
	}
}

// Decision is the outcome of a collision check.
type Decision int

const (
	// Proceed exports the name without any signal.
	Proceed Decision = iota
	// ProceedWithWarning exports the name after a warning.
	ProceedWithWarning
	// Fail rejects the secret that produced the name.
	Fail
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case ProceedWithWarning:
		return "proceed-with-warning"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Decide returns what to do with a name given whether it is already in use.
func Decide(mode Mode, inUse bool) Decision {
	if !inUse {
		return Proceed
	}
	switch mode {
	case ModeWarn:
		return ProceedWithWarning
	case ModeSilent:
		return Proceed
	default:
		return Fail
	}
}

// CollisionError reports a name already exported in this run.
func CollisionError(name string) error {
	return errs.Newf(errs.CodeConflict,
		"The environment name '%s' is already in use. Please use an alias to ensure that each secret has a unique environment name.",
		name)
}

// CollisionWarning is the warning emitted in ModeWarn.
func CollisionWarning(name string) string {
	return fmt.Sprintf("The environment name '%s' is already in use. The value will be overwritten.", name)
}

// Registry is the set of names exported during one run. It is not safe for
// concurrent use.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Contains reports whether name has been recorded.
func (r *Registry) Contains(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Record marks name as exported.
func (r *Registry) Record(name string) {
	r.names[name] = struct{}{}
}
