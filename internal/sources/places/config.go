package places

import (
	"time"

	"github.com/agentstation/farol/internal/retry"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// DefaultURL is the admin panel home.
const DefaultURL = "https://beneficiosplaces.gointegro.com/adminpanel/home"

// Config configures the Places+ collaborator.
type Config struct {
	URL      string
	Email    string
	Password string
	Headless bool

	// BrowserBin overrides the browser binary; empty lets the launcher find or fetch one.
	BrowserBin string

	// DownloadPath is where the exported roster is saved.
	DownloadPath string

	NavigationTimeout   time.Duration
	SelectAllTimeout    time.Duration
	ConfirmationTimeout time.Duration
	SettleDelay         time.Duration

	// Retry applies to the roster download only; uploads run once.
	Retry retry.Policy
}

// DefaultConfig returns the production timeouts.
func DefaultConfig() Config {
	return Config{
		URL:                 DefaultURL,
		Headless:            true,
		DownloadPath:        constants.DefaultTargetPath,
		NavigationTimeout:   constants.NavigationTimeout,
		SelectAllTimeout:    constants.SelectAllTimeout,
		ConfirmationTimeout: constants.ImportConfirmationTimeout,
		SettleDelay:         constants.SettleDelay,
		Retry:               retry.Policy{MaxAttempts: 1},
	}
}

// Validate checks that credentials are present.
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.NewConfigError("places", "url is required", nil)
	case c.Email == "":
		return errors.NewConfigError("places", "email is required", nil)
	case c.Password == "":
		return errors.NewConfigError("places", "password is required", nil)
	}
	return nil
}
