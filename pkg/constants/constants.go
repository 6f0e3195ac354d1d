// Package constants provides shared constants used throughout the farol codebase.
// This includes timeouts, retry bounds, file permissions, and the fixed values
// the target system expects in every batch file.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// CommandTimeout is the default bound of farol run, delivery included
	CommandTimeout = 30 * time.Minute

	// NavigationTimeout bounds each wait for a target-system screen to become ready
	NavigationTimeout = 15 * time.Second

	// SelectAllTimeout bounds the wait for the optional "select all" control
	SelectAllTimeout = 5 * time.Second

	// ImportConfirmationTimeout bounds the wait for the import confirmation control
	ImportConfirmationTimeout = 60 * time.Second

	// SettleDelay is the pause after a table loads before interacting with it
	SettleDelay = 3 * time.Second
)

// Retry constants for the warehouse collaborator
const (
	// MaxFetchAttempts is the number of warehouse query attempts before giving up
	MaxFetchAttempts = 5

	// FetchRetryDelay is the fixed pause between warehouse query attempts
	FetchRetryDelay = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Batch constants are the fixed values the target system expects.
const (
	// Marker is written as last_name on every directive
	Marker = "PLACE"

	// InactiveStatus is the status written on every exclude directive
	InactiveStatus = "inactive"

	// LedgerTimeFormat is the layout of the Data_Execucao ledger column
	LedgerTimeFormat = "2006-01-02 15:04:05"
)

// ProtectedDomains are email substrings that mark internal accounts.
// Members carrying one of them are never excluded automatically.
var ProtectedDomains = []string{"@mercadolivre", "@mercadolibre"}

// Default file names, relative to the working directory.
const (
	DefaultIncludePath  = "upload_inclusao.csv"
	DefaultExcludePath  = "upload_exclusao.csv"
	DefaultLedgerPath   = "historico_geral.csv"
	DefaultTargetPath   = "base_places.csv"
	DefaultOverridePath = "base_bq.csv"
)
