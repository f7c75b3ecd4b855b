// Package run sequences one secrets run: resolve the configured references,
// fetch every identifier, inject it into the host pipeline and publish the
// list of exported names for the cleanup step.
package run

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/useparagon/aws-secretsmanager-get-secrets/config"
	"github.com/useparagon/aws-secretsmanager-get-secrets/envname"
	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
	"github.com/useparagon/aws-secretsmanager-get-secrets/inject"
	"github.com/useparagon/aws-secretsmanager-get-secrets/output"
	"github.com/useparagon/aws-secretsmanager-get-secrets/resolver"
	"github.com/useparagon/aws-secretsmanager-get-secrets/secrets"
)

const (
	msgBuilding  = "Building secrets list..."
	msgTransform = "Your secret names may be transformed in order to be valid environment variables (see README). Enable Debug logging in order to view the new environment names."
	msgCompleted = "Completed adding secrets."
)

// Failure is an identifier that could not be fetched or injected.
type Failure struct {
	// Source is the identifier as resolved: a secret name or ARN.
	Source string
	Err    error
}

// Message is the text reported to the host for f.
func (f Failure) Message() string {
	return fmt.Sprintf("Failed to fetch secret: '%s'. Reason: %v", f.Source, f.Err)
}

// Report is the outcome of a run.
type Report struct {
	RunID string
	// Exported lists every exported name once, in first-export order.
	Exported []string
	Failures []Failure
}

// Failed reports whether any identifier failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Runner executes runs against one provider and host.
type Runner struct {
	cfg      *config.Config
	provider secrets.Provider
	host     host.Pipeline
	sink     output.Sink
	audit    secrets.AuditLogger
	logger   *slog.Logger
	newRunID func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink writes every export to sink. The sink is truncated at run start.
func WithSink(sink output.Sink) Option {
	return func(r *Runner) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithAuditLogger records every fetch through audit.
func WithAuditLogger(audit secrets.AuditLogger) Option {
	return func(r *Runner) {
		r.audit = audit
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New returns a Runner for cfg.
func New(cfg *config.Config, provider secrets.Provider, pipeline host.Pipeline, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		provider: provider,
		host:     pipeline,
		sink:     output.Discard,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one run.
//
// Per-identifier problems are collected in the report and passed to
// host.Fail; they never stop the loop. A returned error means the run could
// not proceed: invalid configuration, a listing failure, an output file that
// cannot be truncated, or a failed cleanup export. The cleanup list is
// exported exactly once in every case.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: r.newRunID()}
	ctx = secrets.WithRunID(ctx, report.RunID)

	err := r.run(ctx, report)
	if err != nil {
		r.host.Fail(err.Error())
	}

	if cerr := PublishCleanup(r.host, report.Exported); cerr != nil {
		r.host.Fail(cerr.Error())
		if err == nil {
			err = cerr
		}
	}
	r.host.Info(msgCompleted)

	if r.logger != nil {
		r.logger.InfoContext(ctx, "run finished",
			"run_id", report.RunID,
			"exported", len(report.Exported),
			"failures", len(report.Failures))
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	opts, err := r.cfg.InjectOptions()
	if err != nil {
		return err
	}

	r.host.Info(msgBuilding)
	ids, err := resolver.New(r.provider, resolver.WithLogger(r.logger)).Resolve(ctx, r.cfg.References())
	if err != nil {
		return err
	}
	r.host.Info(msgTransform)

	if err := r.sink.Truncate(); err != nil {
		return err
	}

	fetcher := secrets.NewFetcher(r.provider,
		secrets.WithAuditLogger(r.audit),
		secrets.WithLogger(r.logger))
	injector := inject.New(r.host, envname.NewRegistry(), opts,
		inject.WithSink(r.sink),
		inject.WithLogger(r.logger))

	seen := make(map[string]struct{})
	for _, id := range ids {
		names, err := r.process(ctx, fetcher, injector, id)
		// An overwritten name is listed once; cleanup clears it either way.
		for _, name := range names {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				report.Exported = append(report.Exported, name)
			}
		}
		if err != nil {
			f := Failure{Source: id.ID, Err: err}
			report.Failures = append(report.Failures, f)
			r.host.Fail(f.Message())
		}
	}
	return nil
}

// process fetches and injects one identifier.
func (r *Runner) process(ctx context.Context, fetcher *secrets.Fetcher, injector *inject.Injector, id resolver.Identifier) ([]string, error) {
	secret, err := fetcher.Fetch(ctx, id.ID, id.IsARN)
	if err != nil {
		return nil, err
	}
	defer secret.Clear()

	return injector.Inject(ctx, inject.Secret{
		Name:     secret.Name,
		Value:    secret.String(),
		Alias:    id.Alias,
		HasAlias: id.HasAlias,
	})
}

// PublishCleanup exports names as a JSON array under host.CleanupKey. A nil
// list is published as "[]".
func PublishCleanup(pipeline host.Pipeline, names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return errs.Wrap(err, errs.CodeInternal, "failed to encode cleanup list")
	}
	if err := pipeline.ExportVariable(host.CleanupKey, string(data)); err != nil {
		return errs.Wrap(err, errs.CodeInternal, "failed to export "+host.CleanupKey)
	}
	return nil
}
