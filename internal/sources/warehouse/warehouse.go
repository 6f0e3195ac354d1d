// Package warehouse fetches the source roster from the analytical warehouse.
//
// A local override file, when present, wins over the warehouse and is read
// with the raw column names renamed. Otherwise the agencies query runs under
// the bounded retry policy.
package warehouse

import (
	"context"
	"os"
	"sync"

	"github.com/agentstation/farol/internal/retry"
	"github.com/agentstation/farol/internal/sources/local"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
	"github.com/agentstation/farol/pkg/roster"
	"github.com/agentstation/farol/pkg/sources"
)

// Source fetches the source roster.
type Source struct {
	config Config

	mu      sync.Mutex
	querier Querier
	owned   bool // querier was opened by the source and must be closed
}

// Option configures a warehouse source.
type Option func(*Source)

// WithQuerier injects the query backend.
func WithQuerier(q Querier) Option {
	return func(s *Source) {
		s.querier = q
	}
}

// New creates a new warehouse source.
func New(config Config, opts ...Option) *Source {
	s := &Source{config: config}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the collaborator id.
func (s *Source) ID() sources.ID {
	return sources.WarehouseID
}

// Fetch returns the source roster.
func (s *Source) Fetch(ctx context.Context) (*roster.Table, error) {
	logger := logging.FromContext(ctx)

	if s.config.OverridePath != "" {
		if _, err := os.Stat(s.config.OverridePath); err == nil {
			logger.Info().Str("path", s.config.OverridePath).Msg("Local override found, skipping warehouse")
			return local.New(s.config.OverridePath, local.WithRenames(OverrideRenames)).Fetch(ctx)
		}
	}

	if err := s.config.Validate(); err != nil {
		return nil, errors.NewExternalFetchError(string(sources.WarehouseID), 0, err)
	}
	sql := s.config.Query()

	table, err := retry.Do(ctx, s.config.Retry, string(sources.WarehouseID), func(ctx context.Context) (*roster.Table, error) {
		q, err := s.open(ctx)
		if err != nil {
			return nil, err
		}
		return q.Query(ctx, sql)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int("rows", table.Len()).Msg("Warehouse roster fetched")
	return table, nil
}

// open returns the querier, opening a BigQuery client on first use.
func (s *Source) open(ctx context.Context) (Querier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.querier != nil {
		return s.querier, nil
	}
	q, err := newBigQuerier(ctx, s.config)
	if err != nil {
		return nil, err
	}
	s.querier = q
	s.owned = true
	return q, nil
}

// Cleanup closes a client opened by Fetch.
func (s *Source) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.querier == nil || !s.owned {
		return nil
	}
	err := s.querier.Close()
	s.querier = nil
	s.owned = false
	return err
}
