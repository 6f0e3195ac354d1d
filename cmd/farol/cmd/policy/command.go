// Package policy implements the policy command.
package policy

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/internal/cmd/output"
	"github.com/agentstation/farol/pkg/policy"
)

// NewCommand creates the policy command.
func NewCommand(app application.Application) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "policy",
		GroupID: "management",
		Short:   "Show the site to group and country policy",
		Long: `Policy lists the site codes that produce directives, with the group
and country written for each. Identities from other sites are skipped.

With --file, the given YAML file is validated and listed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				table policy.Table
				err   error
			)
			if file != "" {
				table, err = policy.Load(file)
			} else {
				table, err = app.Policy()
			}
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, table, output.PolicyTable(table))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "policy YAML file to validate and show")

	return cmd
}
