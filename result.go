package farol

import (
	"time"

	"github.com/agentstation/farol/pkg/batch"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/ledger"
	"github.com/agentstation/farol/pkg/reconciler"
)

// Result represents the outcome of a run.
type Result struct {
	RunID        string    `json:"run_id" yaml:"run_id"`
	RunTimestamp time.Time `json:"run_timestamp" yaml:"run_timestamp"`
	DryRun       bool      `json:"dry_run" yaml:"dry_run"`

	Changeset   *changeset.Changeset    `json:"changeset" yaml:"changeset"`
	Stats       reconciler.Stats        `json:"stats" yaml:"stats"`
	Diagnostics []reconciler.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	// Roster sizes after normalization, and rows dropped for empty or repeated keys.
	SourceRows       int `json:"source_rows" yaml:"source_rows"`
	TargetRows       int `json:"target_rows" yaml:"target_rows"`
	SourceDropped    int `json:"source_dropped" yaml:"source_dropped"`
	TargetDuplicates int `json:"target_duplicates" yaml:"target_duplicates"`

	Files      []batch.WriteResult `json:"files,omitempty" yaml:"files,omitempty"`
	Ledger     ledger.AppendResult `json:"ledger" yaml:"ledger"`
	Deliveries []Delivery          `json:"deliveries,omitempty" yaml:"deliveries,omitempty"`
}

// Delivery records what happened to one committed batch after the run.
type Delivery struct {
	Kind      changeset.Kind `json:"kind" yaml:"kind"`
	Path      string         `json:"path" yaml:"path"`
	Delivered bool           `json:"delivered" yaml:"delivered"`
	Skipped   string         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasChanges returns true if the run produced any directive.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// DeliveryFailed returns true if any attempted delivery failed.
func (r *Result) DeliveryFailed() bool {
	for _, d := range r.Deliveries {
		if d.Error != "" {
			return true
		}
	}
	return false
}
