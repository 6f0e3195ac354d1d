// Package run implements the run command.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/internal/cmd/output"
	"github.com/agentstation/farol/internal/sources/local"
	"github.com/agentstation/farol/internal/sources/warehouse"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/policy"
)

// Flags holds the run command flags.
type Flags struct {
	DryRun     bool
	Deliver    bool
	Yes        bool
	SourceFile string
	TargetFile string
	IncludeOut string
	ExcludeOut string
	Ledger     string
	PolicyFile string
	Timeout    time.Duration
}

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Reconcile the rosters and write the batch files",
		Long: `Run fetches the authoritative roster and the target-system roster,
classifies every identity, and writes the include and exclude batches
together with their ledger rows.

Nothing is written when either roster cannot be fetched or is missing a
required column. Empty batches produce no file.

With --deliver, each written batch is imported into the target system
after confirmation. Use --yes to skip the confirmation.`,
		Example: `  farol run --dry-run                       # Classify and report only
  farol run                                 # Write batches and ledger rows
  farol run --deliver                       # Write, then confirm each import
  farol run --deliver --yes                 # Write and import without asking
  farol run --source-file base_bq.csv --target-file base_places.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "classify and report without writing any file")
	cmd.Flags().BoolVar(&flags.Deliver, "deliver", false, "import the written batches into the target system")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "deliver without asking for confirmation")
	cmd.Flags().StringVar(&flags.SourceFile, "source-file", "", "read the source roster from a CSV file instead of the warehouse")
	cmd.Flags().StringVar(&flags.TargetFile, "target-file", "", "read the target roster from a CSV file instead of downloading it")
	cmd.Flags().StringVar(&flags.IncludeOut, "include-out", "", "include batch path")
	cmd.Flags().StringVar(&flags.ExcludeOut, "exclude-out", "", "exclude batch path")
	cmd.Flags().StringVar(&flags.Ledger, "ledger", "", "ledger path")
	cmd.Flags().StringVar(&flags.PolicyFile, "policy", "", "site policy YAML file")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.CommandTimeout, "abort the run after this long, delivery included (0 disables)")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "deliver")

	return cmd
}

func execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	opts, err := Options(app, flags)
	if err != nil {
		return err
	}
	if flags.Deliver && !flags.Yes {
		opts = append(opts, farol.WithConfirmer(NewPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())))
	}

	f, err := app.Farol(opts...)
	if err != nil {
		return err
	}

	var runOpts []farol.RunOption
	if flags.DryRun {
		runOpts = append(runOpts, farol.WithDryRun(true))
	}
	if flags.Deliver {
		runOpts = append(runOpts, farol.WithDelivery(flags.Yes))
	}

	ctx, cancel := runContext(cmd.Context(), flags.Timeout)
	defer cancel()

	result, err := f.Run(ctx, runOpts...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format := output.DetectFormat(app.OutputFormat())
	if format.IsTable() {
		result.Changeset.Print(w)
		_, _ = fmt.Fprintln(w)
	}
	if err := output.Write(w, format, result, output.ResultTables(result, format == output.FormatWide)...); err != nil {
		return err
	}

	if result.DeliveryFailed() {
		return errors.New("one or more batches were written but not delivered")
	}
	return nil
}

// runContext bounds the run by timeout. Zero leaves ctx unbounded.
func runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Options converts flags into overrides of the configured collaborators and paths.
func Options(app application.Application, flags *Flags) ([]farol.Option, error) {
	files := app.Files()
	include, exclude, ledger := files.Include, files.Exclude, files.Ledger
	if flags.IncludeOut != "" {
		include = flags.IncludeOut
	}
	if flags.ExcludeOut != "" {
		exclude = flags.ExcludeOut
	}
	if flags.Ledger != "" {
		ledger = flags.Ledger
	}

	opts := []farol.Option{
		farol.WithBatchPaths(include, exclude),
		farol.WithLedgerPath(ledger),
	}
	if flags.SourceFile != "" {
		opts = append(opts, farol.WithSource(local.New(flags.SourceFile, local.WithRenames(warehouse.OverrideRenames))))
	}
	if flags.TargetFile != "" {
		opts = append(opts, farol.WithTarget(local.New(flags.TargetFile)))
	}
	if flags.PolicyFile != "" {
		table, err := policy.Load(flags.PolicyFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, farol.WithPolicy(table))
	}
	return opts, nil
}
