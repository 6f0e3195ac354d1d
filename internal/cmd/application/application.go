// Package application defines what farol commands need from the CLI app.
//
// Commands accept the Application interface rather than the concrete app,
// so they can be tested with Mock:
//
//	mock := &application.Mock{
//	    FarolFunc: func(opts ...farol.Option) (farol.Farol, error) {
//	        return farol.New(append(testOptions, opts...)...)
//	    },
//	}
//	cmd := run.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/pkg/policy"
)

// Files are the configured output locations.
type Files struct {
	Include string
	Exclude string
	Ledger  string
}

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Farol builds a Farol from the configured collaborators, then applies
	// opts on top so commands can override sources and paths.
	Farol(opts ...farol.Option) (farol.Farol, error)

	// Policy returns the configured site policy.
	Policy() (policy.Table, error)

	// Files returns the configured batch and ledger paths.
	Files() Files

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
