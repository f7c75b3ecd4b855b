package main

import (
	"github.com/spf13/cobra"

	"github.com/useparagon/aws-secretsmanager-get-secrets/run"
)

func newCleanupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Clear every variable exported by an earlier run",
		Long: `cleanup reads the JSON list in SECRETS_LIST_CLEAN_UP, exports each listed
variable as empty and finally clears SECRETS_LIST_CLEAN_UP itself. Run it as
the post step of the action.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.newHost()
			if err != nil {
				return err
			}
			cleared, err := run.Cleanup(h, a.env)
			if err != nil {
				h.Fail(err.Error())
				return &exitError{code: 1}
			}
			a.logger.Debug("cleared variables", "count", len(cleared))
			return nil
		},
	}
}
