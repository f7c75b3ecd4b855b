// Package inject turns fetched secrets into exported environment variables,
// applying the collision, masking and persistence policy of a run.
package inject

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/useparagon/aws-secretsmanager-get-secrets/envname"
	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
	"github.com/useparagon/aws-secretsmanager-get-secrets/output"
)

// Options is the injection policy of a run.
type Options struct {
	Mode      envname.Mode
	ParseJSON bool
	Masking   MaskPolicy
}

// Secret is the input to Inject.
type Secret struct {
	// Name is the canonical secret name.
	Name     string
	Value    string
	Alias    string
	HasAlias bool
}

// Assignment is one planned export.
type Assignment struct {
	Name      string
	Value     string
	Sensitive bool
}

// Injector exports secrets into a host pipeline. It shares the run's
// registry and is not safe for concurrent use.
type Injector struct {
	host     host.Pipeline
	sink     output.Sink
	registry *envname.Registry
	opts     Options
	logger   *slog.Logger
}

// Option configures an Injector.
type Option func(*Injector)

// WithSink appends every export to sink.
func WithSink(sink output.Sink) Option {
	return func(i *Injector) {
		if sink != nil {
			i.sink = sink
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Injector) {
		i.logger = logger
	}
}

// New returns an Injector writing to pipeline and recording names in registry.
func New(pipeline host.Pipeline, registry *envname.Registry, opts Options, options ...Option) *Injector {
	i := &Injector{
		host:     pipeline,
		sink:     output.Discard,
		registry: registry,
		opts:     opts,
	}
	for _, o := range options {
		o(i)
	}
	return i
}

// Plan computes the assignments for s without side effects.
func (i *Injector) Plan(s Secret) []Assignment {
	var out []Assignment
	switch v := Classify(s.Value, i.opts.ParseJSON).(type) {
	case Object:
		for _, f := range v.Fields {
			name := envname.ForKey(s.Name, s.Alias, s.HasAlias, f.Key)
			out = append(out, i.assignment(name, f.Value))
		}
	case Scalar:
		out = append(out, i.assignment(envname.ForSecret(s.Name, s.Alias), v.Text))
	}
	return out
}

func (i *Injector) assignment(name, value string) Assignment {
	return Assignment{Name: name, Value: value, Sensitive: i.opts.Masking.Sensitive(name, value)}
}

// Inject exports every assignment of s and returns the exported names.
//
// Collisions are checked for the whole secret before anything is exported, so
// a collision in error or default mode exports nothing and returns a
// CodeConflict error naming the variable. A key that yields no name fails the
// secret the same way with CodeInvalidInput. Host and file errors stop the
// secret midway; the names exported so far are returned with the error.
func (i *Injector) Inject(ctx context.Context, s Secret) ([]string, error) {
	plan := i.Plan(s)

	decisions := make([]envname.Decision, len(plan))
	staged := make(map[string]struct{}, len(plan))
	for n, a := range plan {
		if a.Name == "" {
			return nil, envname.EmptyNameError(s.Name)
		}
		_, dup := staged[a.Name]
		decisions[n] = envname.Decide(i.opts.Mode, dup || i.registry.Contains(a.Name))
		if decisions[n] == envname.Fail {
			return nil, envname.CollisionError(a.Name)
		}
		staged[a.Name] = struct{}{}
	}

	exported := make([]string, 0, len(plan))
	for n, a := range plan {
		if decisions[n] == envname.ProceedWithWarning {
			i.host.Warning(envname.CollisionWarning(a.Name))
		}
		if a.Sensitive && a.Value != "" {
			i.host.MarkSensitive(a.Value)
		}

		i.host.Debug(fmt.Sprintf("Injecting secret %s as environment variable '%s'.", s.Name, a.Name))
		if err := i.host.ExportVariable(a.Name, a.Value); err != nil {
			return exported, errs.Wrap(err, errs.CodeInternal, fmt.Sprintf("export %s", a.Name))
		}
		i.registry.Record(a.Name)
		exported = append(exported, a.Name)

		if err := i.sink.Append(a.Name, a.Value); err != nil {
			return exported, err
		}
	}

	if i.logger != nil {
		i.logger.DebugContext(ctx, "injected secret",
			"secret_name", s.Name,
			"variables", len(exported))
	}
	return exported, nil
}
