// Package app wires the farol CLI: configuration, logging, collaborators
// and commands.
package app

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/farol"
	"github.com/agentstation/farol/internal/cmd/application"
	"github.com/agentstation/farol/internal/sources/places"
	"github.com/agentstation/farol/internal/sources/warehouse"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/policy"
	"github.com/agentstation/farol/pkg/reconciler"
)

// App represents the farol application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Files returns the configured batch and ledger paths.
func (a *App) Files() application.Files {
	return application.Files{
		Include: a.config.IncludePath,
		Exclude: a.config.ExcludePath,
		Ledger:  a.config.LedgerPath,
	}
}

// Policy returns the policy file's table, or the built-in one.
func (a *App) Policy() (policy.Table, error) {
	if a.config.PolicyPath == "" {
		return policy.Default(), nil
	}
	return policy.Load(a.config.PolicyPath)
}

// Farol builds a Farol reading the source roster from the warehouse and the
// target roster from Places+, which also receives deliveries. opts are
// applied last.
func (a *App) Farol(opts ...farol.Option) (farol.Farol, error) {
	table, err := a.Policy()
	if err != nil {
		return nil, err
	}

	target := places.New(a.config.PlacesClient())
	base := []farol.Option{
		farol.WithSource(warehouse.New(a.config.WarehouseSource())),
		farol.WithTarget(target),
		farol.WithDeliverer(target),
		farol.WithPolicy(table),
		farol.WithBatchPaths(a.config.IncludePath, a.config.ExcludePath),
		farol.WithLedgerPath(a.config.LedgerPath),
	}
	if domains := splitList(a.config.ProtectedDomains); len(domains) > 0 {
		base = append(base, farol.WithReconcilerOptions(reconciler.WithProtectedDomains(domains...)))
	}
	return farol.New(append(base, opts...)...)
}

// splitList flattens comma separated entries, as environment variables carry lists.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
