package main

import (
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/useparagon/aws-secretsmanager-get-secrets/executor"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host"
	"github.com/useparagon/aws-secretsmanager-get-secrets/host/local"
)

func newExecCmd(a *app) *cobra.Command {
	var (
		workdir string
		grace   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "exec [flags] -- COMMAND [ARGS...]",
		Short: "Run a command with the secrets in its environment",
		Long: `exec resolves the configured secrets without touching the pipeline and starts
COMMAND with every resulting variable added to its environment. The command's
exit status becomes the exit status of get-secrets. Nothing is started when
any secret fails. On SIGINT or SIGTERM the command receives SIGTERM and is
killed if it has not exited within --grace-period.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := local.New(local.WithLogger(a.logger))
			report, err := a.execute(cmd, h)
			if err != nil || report.Failed() {
				return &exitError{code: 1}
			}

			env := make([]string, 0, len(h.Exports()))
			for _, kv := range h.Environ() {
				if !strings.HasPrefix(kv, host.CleanupKey+"=") {
					env = append(env, kv)
				}
			}

			err = executor.New(args[0], args[1:]...).Execute(cmd.Context(),
				executor.WithStdio(a.stdin, a.stdout, a.stderr),
				executor.WithEnv(env...),
				executor.WithWorkingDir(workdir),
				executor.WithWaitDelay(grace),
			)
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return &exitError{code: executor.ExitCode(err)}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&workdir, "workdir", "", "working directory for COMMAND (default: current directory)")
	cmd.Flags().DurationVar(&grace, "grace-period", executor.DefaultWaitDelay, "time COMMAND has to exit after SIGTERM before it is killed")
	return cmd
}
