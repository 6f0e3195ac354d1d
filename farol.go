package farol

import (
	"context"
	"fmt"

	"github.com/agentstation/farol/pkg/policy"
	"github.com/agentstation/farol/pkg/reconciler"
)

// Farol runs reconciliations against a fixed set of collaborators.
//
// Example usage:
//
//	f, err := farol.New(
//	    farol.WithSource(warehouse.New(warehouse.DefaultConfig())),
//	    farol.WithTarget(places.New(placesConfig)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := f.Run(ctx, farol.WithDryRun(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Changeset.Print(os.Stdout)
type Farol interface {
	// Run acquires both rosters, classifies them and commits the batches
	// and ledger rows. See Run for the failure rules.
	Run(ctx context.Context, opts ...RunOption) (*Result, error)

	// Policy returns the site policy in use.
	Policy() policy.Table

	// OnIncluded registers a callback for every committed include directive.
	OnIncluded(IncludedHook)

	// OnExcluded registers a callback for every committed exclude directive.
	OnExcluded(ExcludedHook)

	// OnDelivered registers a callback for every delivered batch.
	OnDelivered(DeliveredHook)
}

// farol is the internal implementation of the Farol interface.
type farol struct {
	config     *config
	reconciler reconciler.Reconciler
	hooks      *hooks
}

// New creates a Farol with the given options. Source and target fetchers are required.
func New(opts ...Option) (Farol, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r, err := reconciler.New(cfg.reconcilerOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating reconciler: %w", err)
	}

	return &farol{
		config:     cfg,
		reconciler: r,
		hooks:      newHooks(),
	}, nil
}

// Policy returns the site policy in use.
func (f *farol) Policy() policy.Table {
	return f.config.policy
}
