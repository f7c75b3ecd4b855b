package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
	"github.com/useparagon/aws-secretsmanager-get-secrets/output"
	"github.com/useparagon/aws-secretsmanager-get-secrets/run"
	"github.com/useparagon/aws-secretsmanager-get-secrets/secrets"
	awsprovider "github.com/useparagon/aws-secretsmanager-get-secrets/secrets/providers/aws"
	"github.com/useparagon/aws-secretsmanager-get-secrets/secrets/providers/memory"
	awssecrets "github.com/useparagon/aws-secretsmanager-get-secrets/services/aws/secrets"
)

// A run reads each secret once; the cache only absorbs repeats of one secret
// under several aliases.
const (
	cacheTTL  = 5 * time.Minute
	cacheSize = 1024
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Export the configured secrets (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSecrets(cmd)
		},
	}
}

func (a *app) runSecrets(cmd *cobra.Command) error {
	h, err := a.newHost()
	if err != nil {
		return err
	}
	report, err := a.execute(cmd, h)
	if err != nil || report.Failed() {
		return &exitError{code: 1}
	}
	return nil
}

// execute loads the configuration and runs it into h. Errors before the run
// starts are reported through h, which still receives an empty cleanup list.
func (a *app) execute(cmd *cobra.Command, h host.Pipeline) (*run.Report, error) {
	ctx := cmd.Context()
	fail := func(err error) (*run.Report, error) {
		h.Fail(err.Error())
		if cerr := run.PublishCleanup(h, nil); cerr != nil {
			h.Fail(cerr.Error())
		}
		return nil, err
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return fail(err)
	}
	provider, err := a.newProvider(ctx)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := provider.Close(); cerr != nil && a.logger != nil {
			a.logger.Warn("failed to close secrets provider", "error", cerr)
		}
	}()

	opts := []run.Option{
		run.WithAuditLogger(secrets.NewSlogAuditLogger(a.logger)),
		run.WithLogger(a.logger),
	}
	if cfg.OutputFile != "" {
		sink, err := output.NewOSFileSink(cfg.OutputFile)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, run.WithSink(sink))
	}

	return run.New(cfg, provider, h, opts...).Run(ctx)
}

// newProvider returns the memory provider for --secrets-file, or Secrets Manager.
func (a *app) newProvider(ctx context.Context) (secrets.Provider, error) {
	if a.secretsFile != "" {
		f, err := os.Open(a.secretsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return memory.NewFromYAML(f)
	}

	opts := []awssecrets.Option{
		awssecrets.WithLogger(a.logger),
		awssecrets.WithCache(awssecrets.NewInMemoryCache(cacheTTL, cacheSize)),
		awssecrets.WithCustomRetryer(awssecrets.DefaultRetryer()),
	}
	if a.region != "" {
		opts = append(opts, awssecrets.WithRegion(a.region))
	}
	if a.endpointURL != "" {
		opts = append(opts, awssecrets.WithEndpoint(a.endpointURL))
	}
	return awsprovider.New(ctx, opts...)
}
