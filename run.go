package farol

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/farol/pkg/batch"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/ledger"
	"github.com/agentstation/farol/pkg/logging"
	"github.com/agentstation/farol/pkg/roster"
	"github.com/agentstation/farol/pkg/sources"
)

// RunOptions configures a single run.
type RunOptions struct {
	// DryRun classifies and reports without writing any file.
	DryRun bool
	// AutoDeliver delivers every committed batch without asking.
	AutoDeliver bool
	// Deliver enables the delivery step. Without it, batches are only written.
	Deliver bool
}

// RunOption is a function that configures a run.
type RunOption func(*RunOptions)

// WithDryRun enables dry run mode.
func WithDryRun(enabled bool) RunOption {
	return func(o *RunOptions) {
		o.DryRun = enabled
	}
}

// WithDelivery enables delivery of committed batches. With auto set, no
// confirmation is asked.
func WithDelivery(auto bool) RunOption {
	return func(o *RunOptions) {
		o.Deliver = true
		o.AutoDeliver = auto
	}
}

// NewRunOptions applies opts to the defaults.
func NewRunOptions(opts ...RunOption) *RunOptions {
	o := &RunOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run performs one reconciliation.
//
// Both rosters are fetched concurrently and normalized; a failure in either
// step aborts the run before anything is written. Batches are staged next to
// their destinations, the ledger is appended, and only then are the batches
// moved into place. A failed ledger append discards the staged batches.
// Delivery happens after commit and its failures are reported in the
// result, not returned.
func (f *farol) Run(ctx context.Context, opts ...RunOption) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := NewRunOptions(opts...)

	runID := uuid.NewString()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.FromContext(ctx)

	result := &Result{
		RunID:        runID,
		RunTimestamp: f.config.clock(),
		DryRun:       options.DryRun,
	}
	logger.Info().Bool("dry_run", options.DryRun).Msg("Run started")

	// Step 1: acquire
	sourceTable, targetTable, err := f.acquire(ctx)
	if err != nil {
		return nil, err
	}

	// Step 2: normalize
	source, err := roster.NormalizeIdentities(sourceTable, f.config.identityColumns)
	if err != nil {
		return nil, err
	}
	target, err := roster.NormalizeMembers(targetTable, f.config.memberColumns)
	if err != nil {
		return nil, err
	}
	result.SourceRows, result.TargetRows = source.Len(), target.Len()
	result.SourceDropped, result.TargetDuplicates = source.Dropped+source.Duplicates, target.Duplicates
	logging.FromContext(logging.WithStage(ctx, "normalize")).Info().
		Int("source", source.Len()).
		Int("source_dropped", source.Dropped).
		Int("source_duplicates", source.Duplicates).
		Int("target", target.Len()).
		Int("target_dropped", target.Dropped).
		Int("target_duplicates", target.Duplicates).
		Msg("Rosters normalized")

	// Step 3: classify
	classified := f.reconciler.Classify(source, target, f.config.policy)
	result.Changeset = classified.Changeset
	result.Stats = classified.Stats
	result.Diagnostics = classified.Diagnostics
	logging.FromContext(logging.WithStage(ctx, "classify")).Info().
		Int("included", classified.Stats.Included).
		Int("excluded", classified.Stats.Excluded).
		Int("policy_gap", classified.Stats.PolicyGap).
		Int("already_inactive", classified.Stats.AlreadyInactive).
		Int("unknown_status", classified.Stats.UnknownStatus).
		Int("protected", classified.Stats.Protected).
		Msg(classified.Summary())
	if classified.Stats.UnknownStatus > 0 {
		logger.Warn().Int("count", classified.Stats.UnknownStatus).
			Msg("Members with unrecognized target status were not excluded and need review")
	}

	if options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no files written")
		return result, nil
	}

	// Step 4: commit
	if err := f.commit(logging.WithStage(ctx, "commit"), result); err != nil {
		return nil, err
	}
	f.hooks.triggerCommitted(result.Changeset)

	// Step 5: deliver
	if options.Deliver {
		f.deliver(logging.WithStage(ctx, "deliver"), result, options)
	}

	logger.Info().Msg("Run completed")
	return result, nil
}

// acquire fetches both rosters concurrently.
func (f *farol) acquire(ctx context.Context) (*roster.Table, *roster.Table, error) {
	defer func() {
		for _, src := range []sources.Fetcher{f.config.source, f.config.target} {
			if err := src.Cleanup(); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Str("collaborator", src.ID().String()).Msg("Cleanup failed")
			}
		}
	}()

	var sourceTable, targetTable *roster.Table
	g, gctx := errgroup.WithContext(logging.WithStage(ctx, "acquire"))
	g.Go(func() error {
		t, err := fetch(logging.WithRoster(gctx, "source"), f.config.source)
		sourceTable = t
		return err
	})
	g.Go(func() error {
		t, err := fetch(logging.WithRoster(gctx, "target"), f.config.target)
		targetTable = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sourceTable, targetTable, nil
}

// fetch runs one fetcher and guarantees failures surface as ExternalFetchError.
func fetch(ctx context.Context, src sources.Fetcher) (*roster.Table, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Str("collaborator", src.ID().String()).Msg("Fetching")

	table, err := src.Fetch(ctx)
	if err != nil {
		if !errors.IsExternalFetch(err) {
			err = errors.NewExternalFetchError(src.ID().String(), 1, err)
		}
		logger.Error().Err(err).Msg("Fetch failed")
		return nil, err
	}
	if table == nil {
		return nil, errors.NewExternalFetchError(src.ID().String(), 1, errors.New("no table returned"))
	}
	logger.Info().Int("rows", table.Len()).Msg("Fetched")
	return table, nil
}

// commit stages both batches, appends the ledger, then moves the batches into place.
func (f *farol) commit(ctx context.Context, result *Result) error {
	logger := logging.FromContext(ctx)
	c := result.Changeset

	include, err := batch.Stage(c, changeset.KindInclude, f.config.includePath)
	if err != nil {
		return err
	}
	exclude, err := batch.Stage(c, changeset.KindExclude, f.config.excludePath)
	if err != nil {
		include.Discard()
		return err
	}

	appended, err := ledger.Append(result.RunTimestamp, c, f.config.ledgerPath)
	if err != nil {
		include.Discard()
		exclude.Discard()
		return err
	}
	result.Ledger = appended
	if appended.Logged {
		logger.Info().Str("path", appended.Path).Int("rows", appended.Rows).Msg("Ledger updated")
	} else {
		logger.Info().Msg("Nothing to log")
	}

	for _, staged := range []*batch.Staged{include, exclude} {
		written, err := staged.Commit()
		if err != nil {
			exclude.Discard()
			return err
		}
		result.Files = append(result.Files, written)
		if written.Written {
			logger.Info().Str("batch", written.Kind.String()).Str("path", written.Path).Int("rows", written.Rows).Msg("Batch written")
		} else {
			logger.Info().Str("batch", written.Kind.String()).Msg("Nothing to write")
		}
	}
	return nil
}

// deliver imports each written batch, gated on AutoDeliver or the confirmer.
func (f *farol) deliver(ctx context.Context, result *Result, options *RunOptions) {
	logger := logging.FromContext(ctx)

	for _, file := range result.Files {
		if !file.Written {
			continue
		}
		d := Delivery{Kind: file.Kind, Path: file.Path}

		switch {
		case f.config.deliverer == nil:
			d.Skipped = "no deliverer configured"
		case !options.AutoDeliver && f.config.confirmer == nil:
			d.Skipped = "not confirmed"
		case !options.AutoDeliver:
			ok, err := f.config.confirmer.Confirm(ctx, file.Kind, file.Rows)
			if err != nil {
				d.Error = err.Error()
			} else if !ok {
				d.Skipped = "declined"
			}
		}

		if d.Skipped == "" && d.Error == "" {
			if err := f.config.deliverer.Deliver(ctx, file.Kind, file.Path); err != nil {
				d.Error = err.Error()
				logger.Error().Err(err).Str("batch", file.Kind.String()).Msg("Delivery failed")
			} else {
				d.Delivered = true
				f.hooks.triggerDelivered(file.Kind, file.Path)
			}
		} else if d.Skipped != "" {
			logger.Info().Str("batch", file.Kind.String()).Str("reason", d.Skipped).Msg("Delivery skipped")
		}
		result.Deliveries = append(result.Deliveries, d)
	}
}
