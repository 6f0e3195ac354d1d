package places

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/agentstation/farol/pkg/constants"
	"github.com/agentstation/farol/pkg/errors"
)

// Target locates an element by CSS selector, visible text, or both.
type Target struct {
	Selector string
	Text     string
	// Force clicks through script, skipping visibility and overlay checks.
	Force bool
}

// String describes the target for logs and errors.
func (t Target) String() string {
	switch {
	case t.Text != "" && t.Selector != "":
		return t.Selector + ` "` + t.Text + `"`
	case t.Text != "":
		return `"` + t.Text + `"`
	}
	return t.Selector
}

// Page is the browser surface the Places+ flows drive.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	WaitVisible(ctx context.Context, target Target, timeout time.Duration) error
	Click(ctx context.Context, target Target, timeout time.Duration) error
	SetFiles(ctx context.Context, selector string, paths ...string) error
	// Download clicks trigger and saves the resulting file to dest.
	Download(ctx context.Context, trigger Target, dest string, timeout time.Duration) error
	Close() error
}

// Browser opens pages.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// rodBrowser drives a local Chromium through the DevTools protocol.
type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	once     sync.Once
}

// launch starts a browser and connects to it.
func launch(ctx context.Context, cfg Config) (*rodBrowser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, errors.WrapIO("launch", "browser", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, errors.WrapIO("connect", controlURL, err)
	}
	return &rodBrowser{launcher: l, browser: browser}, nil
}

// NewPage implements Browser.
func (b *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &rodPage{browser: b.browser, page: page}, nil
}

// Close implements Browser.
func (b *rodBrowser) Close() error {
	var err error
	b.once.Do(func() {
		err = b.browser.Close()
		b.launcher.Cleanup()
	})
	return err
}

type rodPage struct {
	browser *rod.Browser
	page    *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p *rodPage) Fill(ctx context.Context, selector, value string) error {
	el, err := p.page.Context(ctx).Timeout(constants.NavigationTimeout).Element(selector)
	if err != nil {
		return err
	}
	return el.Input(value)
}

// element waits up to timeout for target to appear.
func (p *rodPage) element(ctx context.Context, target Target, timeout time.Duration) (*rod.Element, error) {
	page := p.page.Context(ctx).Timeout(timeout)
	if target.Text == "" {
		return page.Element(target.Selector)
	}
	selector := target.Selector
	if selector == "" {
		selector = "*"
	}
	return page.ElementR(selector, `^\s*`+regexp.QuoteMeta(target.Text)+`\s*$`)
}

func (p *rodPage) WaitVisible(ctx context.Context, target Target, timeout time.Duration) error {
	el, err := p.element(ctx, target, timeout)
	if err != nil {
		return err
	}
	return el.Context(ctx).Timeout(timeout).WaitVisible()
}

func (p *rodPage) Click(ctx context.Context, target Target, timeout time.Duration) error {
	el, err := p.element(ctx, target, timeout)
	if err != nil {
		return err
	}
	if target.Force {
		_, err = el.Context(ctx).Eval(`() => this.click()`)
		return err
	}
	return el.Context(ctx).Timeout(timeout).Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) SetFiles(ctx context.Context, selector string, paths ...string) error {
	el, err := p.page.Context(ctx).Timeout(constants.NavigationTimeout).Element(selector)
	if err != nil {
		return err
	}
	return el.SetFiles(paths)
}

func (p *rodPage) Download(ctx context.Context, trigger Target, dest string, timeout time.Duration) error {
	dir, err := os.MkdirTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return errors.WrapIO("create", "download dir", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	wait := p.browser.Context(ctx).Timeout(timeout).WaitDownload(dir)
	if err := p.Click(ctx, trigger, timeout); err != nil {
		return err
	}
	info := wait()
	if info == nil {
		return errors.New("download did not start")
	}
	if err := os.Rename(filepath.Join(dir, info.GUID), dest); err != nil {
		return errors.WrapIO("rename", dest, err)
	}
	return nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
