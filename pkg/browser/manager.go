// Package browser implements the interaction collaborator on top of
// Playwright: it opens the game page, reads the live element list, and
// submits combinations by simulating the HTML5 drag sequence the game
// responds to.
package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright lifecycle and the single browser used for a
// session.
type Manager struct {
	playwright  *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	page        playwright.Page
	initialized bool
}

// NewManager creates an uninitialized manager. Call Initialize before Launch.
func NewManager() *Manager {
	return &Manager{}
}

// Initialize installs and starts the Playwright driver. Output is discarded
// so driver installation noise never reaches the terminal UI.
func (m *Manager) Initialize() error {
	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Launch starts a Chromium instance and returns the page to drive the game
// on. Defaults are applied for any unset option.
func (m *Manager) Launch(opts Options) (playwright.Page, error) {
	if !m.initialized {
		return nil, fmt.Errorf("manager not initialized")
	}
	if m.page != nil {
		return nil, fmt.Errorf("browser already launched")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.PageTimeout == 0 {
		opts.PageTimeout = DefaultPageTimeout
	}

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(millis(opts.PageTimeout))

	m.browser = browser
	m.context = context
	m.page = page
	return page, nil
}

// Shutdown closes the browser and stops Playwright. Safe to call after a
// failed Launch.
func (m *Manager) Shutdown() error {
	if m.page != nil {
		_ = m.page.Close() // Ignore errors, continue cleanup
		m.page = nil
	}
	if m.context != nil {
		_ = m.context.Close()
		m.context = nil
	}
	if m.browser != nil {
		_ = m.browser.Close()
		m.browser = nil
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}
