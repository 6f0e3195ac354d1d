// Package local reads a roster from a CSV file on disk.
package local

import (
	"context"

	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
	"github.com/agentstation/farol/pkg/roster"
	"github.com/agentstation/farol/pkg/sources"
)

// Source loads a roster from a file path.
type Source struct {
	path    string
	renames map[string]string
}

// New creates a new local source reading path.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a local source.
type Option func(*Source)

// WithRenames renames header columns after reading.
func WithRenames(renames map[string]string) Option {
	return func(s *Source) {
		s.renames = renames
	}
}

// ID returns the collaborator id.
func (s *Source) ID() sources.ID {
	return sources.FileID
}

// Path returns the file the source reads.
func (s *Source) Path() string {
	return s.path
}

// Fetch reads the file.
func (s *Source) Fetch(ctx context.Context) (*roster.Table, error) {
	if s.path == "" {
		return nil, errors.NewExternalFetchError(string(sources.FileID), 1,
			errors.NewConfigError("file", "path is required", nil))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewExternalFetchError(string(sources.FileID), 1, err)
	}
	table, err := roster.ReadTableFile(s.path)
	if err != nil {
		return nil, errors.NewExternalFetchError(string(sources.FileID), 1, err)
	}
	if len(s.renames) > 0 {
		table.Rename(s.renames)
	}
	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("rows", table.Len()).
		Msg("Roster read from file")
	return table, nil
}

// Cleanup releases any resources.
func (s *Source) Cleanup() error {
	return nil
}
