package warehouse

import (
	"regexp"

	"github.com/agentstation/farol/internal/retry"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// Defaults for the agencies table.
const (
	DefaultProjectID = "meli-bi-data"
	DefaultTable     = "meli-bi-data.WHOWNER.LK_SHP_AGENCIES_API"
)

// DefaultCarrierIDs are the carriers whose agencies are places.
var DefaultCarrierIDs = []int64{849817033, 1703373469, 1313953487, 17243954, 3377270}

// DefaultExcludedPrefixes are agency id prefixes that never denote a place.
var DefaultExcludedPrefixes = []string{"T", "t", "0", "N"}

// OverrideRenames maps the raw warehouse column names found in a local
// override file to the roster column names.
var OverrideRenames = map[string]string{
	"SHP_AGENCY_ID":          "ID",
	"SHP_AGEN_BUSINESS_NAME": "Nome",
	"SHP_AGEN_STATUS":        "SBO",
	"SHP_SITE_ID":            "Pais_Code",
}

var tablePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+){1,2}$`)

// Config configures the warehouse source.
type Config struct {
	ProjectID        string
	Table            string
	CarrierIDs       []int64
	ExcludedPrefixes []string
	CredentialsFile  string

	// OverridePath, when the file exists, is read instead of querying.
	OverridePath string

	Retry retry.Policy
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		ProjectID:        DefaultProjectID,
		Table:            DefaultTable,
		CarrierIDs:       append([]int64(nil), DefaultCarrierIDs...),
		ExcludedPrefixes: append([]string(nil), DefaultExcludedPrefixes...),
		OverridePath:     constants.DefaultOverridePath,
		Retry:            retry.DefaultPolicy(),
	}
}

// Validate checks the fields needed to build and run the query.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return errors.NewConfigError("warehouse", "project id is required", nil)
	}
	if !tablePattern.MatchString(c.Table) {
		return errors.NewConfigError("warehouse", "table must be dataset.table or project.dataset.table, got "+c.Table, nil)
	}
	if len(c.CarrierIDs) == 0 {
		return errors.NewConfigError("warehouse", "at least one carrier id is required", nil)
	}
	return nil
}
