package farol

import (
	"path/filepath"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/policy"
	"github.com/agentstation/farol/pkg/reconciler"
	"github.com/agentstation/farol/pkg/roster"
	"github.com/agentstation/farol/pkg/sources"
)

// config holds everything a run needs. It is fixed at construction.
type config struct {
	source    sources.Fetcher
	target    sources.Fetcher
	deliverer sources.Deliverer
	confirmer Confirmer

	policy          policy.Table
	identityColumns roster.IdentityColumns
	memberColumns   roster.MemberColumns

	includePath string
	excludePath string
	ledgerPath  string

	reconcilerOptions []reconciler.Option
	clock             func() time.Time
}

func defaultConfig() *config {
	return &config{
		policy:          policy.Default(),
		identityColumns: roster.DefaultIdentityColumns(),
		memberColumns:   roster.DefaultMemberColumns(),
		includePath:     constants.DefaultIncludePath,
		excludePath:     constants.DefaultExcludePath,
		ledgerPath:      constants.DefaultLedgerPath,
		clock:           localClock,
	}
}

// localClock reads the current instant on the host's wall clock, the zone
// existing ledgers were written in.
func localClock() time.Time {
	return utc.Now().Time.Local()
}

func (c *config) validate() error {
	include, exclude, ledger := filepath.Clean(c.includePath), filepath.Clean(c.excludePath), filepath.Clean(c.ledgerPath)
	switch {
	case c.source == nil:
		return errors.NewConfigError("farol", "a source fetcher is required", nil)
	case c.target == nil:
		return errors.NewConfigError("farol", "a target fetcher is required", nil)
	case c.includePath == "" || c.excludePath == "":
		return errors.NewConfigError("farol", "batch paths are required", nil)
	case include == exclude:
		return errors.NewConfigError("farol", "include and exclude batches need distinct paths", nil)
	case c.ledgerPath == "":
		return errors.NewConfigError("farol", "a ledger path is required", nil)
	case ledger == include || ledger == exclude:
		return errors.NewConfigError("farol", "the ledger path must differ from the batch paths", nil)
	}
	return nil
}

// Option is a function that configures a Farol instance.
type Option func(*config) error

// WithSource sets the fetcher for the authoritative roster.
func WithSource(f sources.Fetcher) Option {
	return func(c *config) error {
		c.source = f
		return nil
	}
}

// WithTarget sets the fetcher for the target-system roster.
func WithTarget(f sources.Fetcher) Option {
	return func(c *config) error {
		c.target = f
		return nil
	}
}

// WithDeliverer sets the collaborator that imports committed batches.
// Without one, runs never deliver.
func WithDeliverer(d sources.Deliverer) Option {
	return func(c *config) error {
		c.deliverer = d
		return nil
	}
}

// WithConfirmer sets the confirmation asked before each delivery when the
// run does not auto-deliver.
func WithConfirmer(confirmer Confirmer) Option {
	return func(c *config) error {
		c.confirmer = confirmer
		return nil
	}
}

// WithPolicy replaces the built-in site policy.
func WithPolicy(table policy.Table) Option {
	return func(c *config) error {
		if len(table) == 0 {
			return &errors.ValidationError{Field: "policy", Message: "cannot be empty"}
		}
		if err := table.Validate(); err != nil {
			return err
		}
		c.policy = table
		return nil
	}
}

// WithIdentityColumns sets the source roster column names.
func WithIdentityColumns(cols roster.IdentityColumns) Option {
	return func(c *config) error {
		c.identityColumns = cols
		return nil
	}
}

// WithMemberColumns sets the target roster column names.
func WithMemberColumns(cols roster.MemberColumns) Option {
	return func(c *config) error {
		c.memberColumns = cols
		return nil
	}
}

// WithBatchPaths sets where the include and exclude batches are written.
func WithBatchPaths(include, exclude string) Option {
	return func(c *config) error {
		c.includePath = include
		c.excludePath = exclude
		return nil
	}
}

// WithLedgerPath sets the ledger file.
func WithLedgerPath(path string) Option {
	return func(c *config) error {
		c.ledgerPath = path
		return nil
	}
}

// WithReconcilerOptions passes options to the classifier.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconcilerOptions = append(c.reconcilerOptions, opts...)
		return nil
	}
}

// WithClock sets the clock used for run timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		if clock == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		c.clock = clock
		return nil
	}
}
