// Package sources defines the collaborators a run talks to: fetchers that
// materialize a roster as a table, and deliverers that push a batch file
// back into the target system.
//
// Collaborators own their retries and waits. A run only ever sees a fully
// materialized table or a terminal error.
package sources

import (
	"context"
	"slices"

	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/roster"
)

// ID represents the identifier of a collaborator.
type ID string

// String returns the string representation of a collaborator id.
func (id ID) String() string {
	return string(id)
}

// Known collaborators.
const (
	WarehouseID ID = "warehouse"
	PlacesID    ID = "places"
	FileID      ID = "file"
)

// IDs returns all known collaborator ids.
func IDs() []ID {
	return []ID{WarehouseID, PlacesID, FileID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Fetcher acquires one roster.
type Fetcher interface {
	// ID names the collaborator for logs and errors.
	ID() ID

	// Fetch returns the roster as a table. Implementations retry internally
	// and return *errors.ExternalFetchError once they give up.
	Fetch(ctx context.Context) (*roster.Table, error)

	// Cleanup releases any resources held by the fetcher.
	Cleanup() error
}

// Deliverer uploads a committed batch file to the target system.
type Deliverer interface {
	ID() ID
	Deliver(ctx context.Context, kind changeset.Kind, path string) error
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) (*roster.Table, error)

// ID implements Fetcher.
func (f FetcherFunc) ID() ID { return FileID }

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context) (*roster.Table, error) { return f(ctx) }

// Cleanup implements Fetcher.
func (f FetcherFunc) Cleanup() error { return nil }
