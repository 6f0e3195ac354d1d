// Package history implements the history command.
package history

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/internal/cmd/output"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/ledger"
)

// NewCommand creates the history command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		action string
		limit  int
		path   string
	)

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "core",
		Short:   "Show the ledger of past directives",
		Example: `  farol history                        # Every ledger row
  farol history --action exclude       # Only exclusions
  farol history --limit 20 -o json     # Last 20 rows as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter changeset.Action
			if action != "" {
				parsed, err := changeset.ParseAction(action)
				if err != nil {
					return err
				}
				filter = parsed
			}
			if path == "" {
				path = app.Files().Ledger
			}

			entries, err := ledger.Read(path)
			if err != nil {
				return err
			}
			entries = ledger.Filter(entries, filter, limit)
			if entries == nil {
				entries = []ledger.Entry{}
			}

			app.Logger().Debug().Str("path", path).Int("rows", len(entries)).Msg("Ledger read")
			format := output.DetectFormat(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, entries, output.HistoryTable(entries))
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "only show INCLUSAO (include) or EXCLUSAO (exclude) rows")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent rows")
	cmd.Flags().StringVar(&path, "ledger", "", "ledger path")

	return cmd
}
