package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/useparagon/aws-secretsmanager-get-secrets/config"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host/actions"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host/local"
	"github.com/useparagon/aws-secretsmanager-get-secrets/run"
)

const (
	hostActions = "actions"
	hostLocal   = "local"
)

// app carries the process environment and the parsed global flags.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	env    run.Environment
	setenv func(key, value string) error

	logger *slog.Logger

	configFile  string
	logLevel    string
	hostKind    string
	mask        bool
	secretsFile string
	endpointURL string
	region      string

	// Run configuration flags, applied only when set on the command line.
	secretIDs      []string
	overwriteMode  string
	parseJSON      bool
	publicEnvVars  []string
	publicNumerics bool
	publicValues   []string
	outputFile     string
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		env:    run.ProcessEnvironment,
		setenv: os.Setenv,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "get-secrets",
		Short: "Export AWS Secrets Manager secrets as environment variables",
		Long: `get-secrets resolves secret references against AWS Secrets Manager and
exports each secret as an environment variable of the current pipeline.

A reference is one line of the form [ALIAS,]LOCATOR where LOCATOR is a secret
name, a secret ARN, or a name prefix ending in '*'. JSON secrets can be
exported one variable per top-level key with --parse-json-secrets.

Configuration sources, highest precedence first:
  command-line flags
  --config YAML file
  GitHub Action inputs (INPUT_SECRET-IDS, INPUT_OVERWRITE-MODE, ...)

Environment variables:
  GITHUB_ACTIONS   selects the actions host when set to "true"
  RUNNER_DEBUG     enables debug logging when set to "1"`,
		Example: `  # Inside a GitHub Actions step
  get-secrets

  # Print dotenv lines for a local dry run
  get-secrets --host local --mask --secret-id 'DB,prod/db' --parse-json-secrets

  # Run a command with the secrets in its environment
  get-secrets exec --secret-id 'prod/*' -- ./deploy.sh`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSecrets(cmd)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&a.hostKind, "host", "", "pipeline host: actions or local (default: actions when GITHUB_ACTIONS=true)")
	pf.BoolVar(&a.mask, "mask", false, "print masked previews of sensitive values (local host)")
	pf.StringVar(&a.secretsFile, "secrets-file", "", "read secrets from a YAML file instead of AWS")
	pf.StringVar(&a.endpointURL, "endpoint-url", "", "Secrets Manager endpoint override, e.g. LocalStack")
	pf.StringVar(&a.region, "region", "", "AWS region override")

	pf.StringArrayVar(&a.secretIDs, "secret-id", nil, "secret reference [ALIAS,]LOCATOR (repeatable)")
	pf.StringVar(&a.overwriteMode, "overwrite-mode", "", "collision handling: default, error, warn, silent")
	pf.BoolVar(&a.parseJSON, "parse-json-secrets", false, "export JSON secrets one variable per top-level key")
	pf.StringArrayVar(&a.publicEnvVars, "public-env-var", nil, "variable name never masked (repeatable)")
	pf.BoolVar(&a.publicNumerics, "public-numerics", false, "do not mask all-digit values")
	pf.StringArrayVar(&a.publicValues, "public-value", nil, "value never masked (repeatable)")
	pf.StringVar(&a.outputFile, "output-file", "", "also write NAME=VALUE lines to this file")

	root.AddCommand(
		newRunCmd(a),
		newCleanupCmd(a),
		newExecCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setupLogger(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.getenv("RUNNER_DEBUG") == "1" && !cmd.Flags().Changed("log-level") {
		a.logLevel = "debug"
	}
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// action returns a go-githubactions client over the app's streams.
func (a *app) action() *githubactions.Action {
	return githubactions.New(
		githubactions.WithWriter(a.stdout),
		githubactions.WithGetenv(a.getenv),
	)
}

// newHost returns the pipeline selected by --host.
func (a *app) newHost() (host.Pipeline, error) {
	kind := strings.ToLower(a.hostKind)
	if kind == "" {
		kind = hostLocal
		if a.getenv("GITHUB_ACTIONS") == "true" {
			kind = hostActions
		}
	}

	switch kind {
	case hostActions:
		return actions.New(a.action(), actions.WithSetenv(a.setenv)), nil
	case hostLocal:
		return local.New(
			local.WithOutput(a.stdout),
			local.WithLogger(a.logger),
			local.WithMasking(a.mask),
		), nil
	default:
		return nil, fmt.Errorf("unknown host %q: expected %s or %s", a.hostKind, hostActions, hostLocal)
	}
}

// loadConfig merges Action inputs, the --config file and command-line flags.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromInputs(a.action())
	if err != nil {
		return nil, err
	}
	if a.configFile != "" {
		if cfg, err = config.LoadOSFile(a.configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("secret-id") {
		cfg.SecretIDs = config.SplitLines(strings.Join(a.secretIDs, "\n"))
	}
	if flags.Changed("overwrite-mode") {
		cfg.OverwriteMode = a.overwriteMode
	}
	if flags.Changed("parse-json-secrets") {
		cfg.ParseJSON = a.parseJSON
	}
	if flags.Changed("public-env-var") {
		cfg.PublicEnvVars = a.publicEnvVars
	}
	if flags.Changed("public-numerics") {
		cfg.PublicNumerics = a.publicNumerics
	}
	if flags.Changed("public-value") {
		cfg.PublicValues = a.publicValues
	}
	if flags.Changed("output-file") {
		cfg.OutputFile = a.outputFile
	}
	return cfg, nil
}
