// Package places drives the Places+ admin panel: it exports the current
// member roster and imports batch files.
//
// Each call opens its own browser session, logs in and walks the same menu
// path an operator would. UI waits use fixed timeouts.
package places

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/farol/internal/retry"
	"github.com/agentstation/farol/pkg/changeset"
	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/logging"
	"github.com/agentstation/farol/pkg/roster"
	"github.com/agentstation/farol/pkg/sources"
)

// Screen elements.
var (
	emailInput      = `input[type="text"]`
	passwordInput   = `input[type="password"]`
	loginButton     = Target{Selector: "button", Text: "Iniciar sessão"}
	peopleMenu      = Target{Text: "Pessoas"}
	manageMenu      = Target{Text: "Gerenciar"}
	peopleTable     = Target{Selector: "table.table"}
	selectPage      = Target{Selector: "table thead th label", Force: true}
	selectAll       = Target{Text: "Selecionar todas"}
	downloadButton  = Target{Selector: ".btndownload"}
	importButton    = Target{Text: "Importar com CSV"}
	fileInput       = `.addfile input[type="file"]`
	validateButton  = Target{Text: "Validar"}
	modeSwitchDelay = time.Second
)

// importMode returns the import mode button and the confirmation control for kind.
// New members are added; exclusions update existing members to inactive.
func importMode(kind changeset.Kind) (mode, confirm Target) {
	if kind == changeset.KindExclude {
		return Target{Selector: "button", Text: "Atualizar"}, Target{Text: "Atualizar"}
	}
	return Target{Selector: "button", Text: "Adicionar"}, Target{Text: "Importação"}
}

// Client is the Places+ collaborator. It fetches the target roster and
// delivers batches.
type Client struct {
	config Config
	open   func(ctx context.Context) (Browser, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBrowser replaces the browser launcher.
func WithBrowser(open func(ctx context.Context) (Browser, error)) Option {
	return func(c *Client) {
		c.open = open
	}
}

// New creates a Places+ client.
func New(config Config, opts ...Option) *Client {
	c := &Client{config: config}
	c.open = func(ctx context.Context) (Browser, error) {
		return launch(ctx, c.config)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the collaborator id.
func (c *Client) ID() sources.ID {
	return sources.PlacesID
}

// Fetch exports the member roster to the download path and reads it.
func (c *Client) Fetch(ctx context.Context) (*roster.Table, error) {
	if err := c.config.Validate(); err != nil {
		return nil, errors.NewExternalFetchError(string(sources.PlacesID), 0, err)
	}
	logger := logging.FromContext(ctx)

	table, err := retry.Do(ctx, c.config.Retry, string(sources.PlacesID), func(ctx context.Context) (*roster.Table, error) {
		if err := c.download(ctx); err != nil {
			return nil, err
		}
		table, err := roster.ReadTableFile(c.config.DownloadPath)
		if err != nil {
			return nil, retry.Permanent(err)
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", c.config.DownloadPath).Int("rows", table.Len()).Msg("Places+ roster downloaded")
	return table, nil
}

func (c *Client) download(ctx context.Context) error {
	return c.session(ctx, func(page Page) error {
		logger := logging.FromContext(ctx)
		if err := page.WaitVisible(ctx, peopleTable, c.config.NavigationTimeout); err != nil {
			return err
		}
		if err := sleep(ctx, c.config.SettleDelay); err != nil {
			return err
		}
		if err := page.Click(ctx, selectPage, c.config.NavigationTimeout); err != nil {
			return err
		}
		if err := page.Click(ctx, selectAll, c.config.SelectAllTimeout); err != nil {
			logger.Debug().Err(err).Msg("Select-all control not offered, exporting current page selection")
		}

		dest, err := filepath.Abs(c.config.DownloadPath)
		if err != nil {
			return errors.WrapIO("resolve", c.config.DownloadPath, err)
		}
		if err := os.MkdirAll(filepath.Dir(dest), constants.DirPermissions); err != nil {
			return errors.WrapIO("create", filepath.Dir(dest), err)
		}
		return page.Download(ctx, downloadButton, dest, c.config.ConfirmationTimeout)
	})
}

// Deliver imports the batch file at path. A missing file means the batch
// was empty; it is skipped.
func (c *Client) Deliver(ctx context.Context, kind changeset.Kind, path string) error {
	logger := logging.FromContext(ctx).With().Str("batch", kind.String()).Str("path", path).Logger()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info().Msg("Batch file not found, skipping delivery")
		return nil
	}
	if err := c.config.Validate(); err != nil {
		return errors.NewDeliveryError(kind.String(), "configure", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.NewDeliveryError(kind.String(), "resolve", err)
	}

	mode, confirm := importMode(kind)
	step := "login"
	err = c.session(ctx, func(page Page) error {
		step = "open import"
		if err := page.Click(ctx, importButton, c.config.NavigationTimeout); err != nil {
			return err
		}
		step = "select mode"
		if err := page.Click(ctx, mode, c.config.NavigationTimeout); err != nil {
			return err
		}
		if err := sleep(ctx, modeSwitchDelay); err != nil {
			return err
		}
		step = "upload"
		if err := page.SetFiles(ctx, fileInput, abs); err != nil {
			return err
		}
		step = "validate"
		if err := page.Click(ctx, validateButton, c.config.NavigationTimeout); err != nil {
			return err
		}
		step = "confirm"
		return page.Click(ctx, confirm, c.config.ConfirmationTimeout)
	})
	if err != nil {
		return errors.NewDeliveryError(kind.String(), step, err)
	}

	logger.Info().Msg("Batch imported")
	return nil
}

// session opens a browser, logs in, opens People > Manage and runs fn.
func (c *Client) session(ctx context.Context, fn func(Page) error) error {
	browser, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.NewPage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = page.Close() }()

	if err := c.login(ctx, page); err != nil {
		return err
	}
	if err := c.openPeople(ctx, page); err != nil {
		return err
	}
	return fn(page)
}

func (c *Client) login(ctx context.Context, page Page) error {
	logging.FromContext(ctx).Debug().Str("url", c.config.URL).Msg("Logging in to Places+")
	if err := page.Navigate(ctx, c.config.URL); err != nil {
		return err
	}
	if err := page.Fill(ctx, emailInput, c.config.Email); err != nil {
		return err
	}
	if err := page.Fill(ctx, passwordInput, c.config.Password); err != nil {
		return err
	}
	return page.Click(ctx, loginButton, c.config.NavigationTimeout)
}

func (c *Client) openPeople(ctx context.Context, page Page) error {
	for _, menu := range []Target{peopleMenu, manageMenu} {
		if err := page.WaitVisible(ctx, menu, c.config.NavigationTimeout); err != nil {
			return err
		}
		if err := page.Click(ctx, menu, c.config.NavigationTimeout); err != nil {
			return err
		}
	}
	return sleep(ctx, c.config.SettleDelay)
}

// Cleanup releases any resources. Sessions are closed per call.
func (c *Client) Cleanup() error {
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
