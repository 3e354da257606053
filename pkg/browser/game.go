package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/crucible/pkg/config"
	"github.com/entrhq/crucible/pkg/engine"
	"github.com/entrhq/crucible/pkg/logging"
	"github.com/entrhq/crucible/pkg/session"
)

// Game drives one combination game page and implements
// session.Collaborator.
type Game struct {
	page               playwright.Page
	url                string
	itemSelector       string
	itemClass          string
	discoverySelectors []string
	pageTimeout        time.Duration
	settleTimeout      time.Duration
	log                *logging.Logger
}

// NewGame wraps a launched page for the configured game.
func NewGame(page playwright.Page, cfg config.GameConfig, log *logging.Logger) (*Game, error) {
	itemClass, err := classFromSelector(cfg.ItemSelector)
	if err != nil {
		return nil, err
	}

	pageTimeout := cfg.PageTimeout
	if pageTimeout == 0 {
		pageTimeout = DefaultPageTimeout
	}
	settleTimeout := cfg.SettleTimeout
	if settleTimeout == 0 {
		settleTimeout = DefaultSettleTimeout
	}

	return &Game{
		page:               page,
		url:                cfg.URL,
		itemSelector:       cfg.ItemSelector,
		itemClass:          itemClass,
		discoverySelectors: cfg.DiscoverySelectors,
		pageTimeout:        pageTimeout,
		settleTimeout:      settleTimeout,
		log:                log,
	}, nil
}

// Open navigates to the game and waits until the element list is present.
func (g *Game) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitUntil := playwright.WaitUntilStateDomcontentloaded
	if _, err := g.page.Goto(g.url, playwright.PageGotoOptions{
		WaitUntil: waitUntil,
		Timeout:   playwright.Float(millis(g.pageTimeout)),
	}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	state := playwright.WaitForSelectorStateVisible
	if _, err := g.page.WaitForSelector(g.itemSelector, playwright.PageWaitForSelectorOptions{
		State:   state,
		Timeout: playwright.Float(millis(g.pageTimeout)),
	}); err != nil {
		return fmt.Errorf("game elements did not appear: %w", err)
	}

	g.log.Infof("game page ready at %s", g.page.URL())
	return nil
}

// Elements returns the names of all elements currently shown by the game,
// in display order.
func (g *Game) Elements(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := g.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return ParseElements(content, g.itemClass)
}

// Combine drags one element onto another and reports the outcome. A
// combination the game ignores yields an empty Outcome, not an error;
// errors are reserved for interaction failures the driver may retry.
func (g *Game) Combine(ctx context.Context, a, b string) (session.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return session.Outcome{}, err
	}

	before, err := g.Elements(ctx)
	if err != nil {
		return session.Outcome{}, err
	}

	result, err := g.page.Evaluate(combineScript(g.itemSelector, a, b))
	if err != nil {
		return session.Outcome{}, fmt.Errorf("drag simulation failed: %w", err)
	}
	if dispatched, ok := result.(bool); !ok || !dispatched {
		// One of the nodes is gone; the driver treats this as transient and
		// re-reads the inventory before retrying.
		return session.Outcome{}, fmt.Errorf("elements %q and %q not found on page", a, b)
	}

	g.log.Debugf("drag dispatched for %q + %q", a, b)
	return g.observeOutcome(ctx, before)
}

// observeOutcome waits, bounded by the settle timeout, for the game to show
// a new element, then diffs the element list. Finding nothing is a
// legitimate no-effect outcome.
func (g *Game) observeOutcome(ctx context.Context, before []string) (session.Outcome, error) {
	expr := fmt.Sprintf("() => document.querySelectorAll(%s).length > %d",
		jsString(g.itemSelector), len(before))
	_, waitErr := g.page.WaitForFunction(expr, nil, playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(millis(g.settleTimeout)),
	})

	if err := ctx.Err(); err != nil {
		return session.Outcome{}, err
	}

	after, err := g.Elements(ctx)
	if err != nil {
		return session.Outcome{}, err
	}

	known := make(map[string]bool, len(before))
	for _, name := range before {
		known[engine.Key(name)] = true
	}
	for _, name := range after {
		if !known[engine.Key(name)] {
			g.log.Infof("new element appeared: %q", name)
			return session.Outcome{Result: name}, nil
		}
	}

	// The element count never grew; check the discovery notification
	// selectors before concluding the combination had no effect.
	if name := g.discoveryNotification(known); name != "" {
		g.log.Infof("new element via discovery notification: %q", name)
		return session.Outcome{Result: name}, nil
	}

	if waitErr != nil {
		g.log.Debugf("no new element within %s", g.settleTimeout)
	}
	return session.Outcome{}, nil
}

// discoveryNotification scans the configured fallback selectors for a
// new-element popup.
func (g *Game) discoveryNotification(known map[string]bool) string {
	for _, selector := range g.discoverySelectors {
		element, err := g.page.QuerySelector(selector)
		if err != nil || element == nil {
			continue
		}
		text, err := element.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" && !known[engine.Key(text)] {
			return text
		}
	}
	return ""
}

// combineScript builds the JavaScript that locates both elements by their
// text and dispatches the HTML5 drag sequence the game listens for.
func combineScript(selector, a, b string) string {
	return fmt.Sprintf(`(() => {
	const find = (name) => {
		for (const el of document.querySelectorAll(%s)) {
			if (el.textContent.trim() === name) return el;
		}
		return null;
	};
	const source = find(%s);
	const target = find(%s);
	if (!source || !target) return false;
	const dataTransfer = new DataTransfer();
	const fire = (node, type) => {
		node.dispatchEvent(new DragEvent(type, {
			bubbles: true,
			cancelable: true,
			dataTransfer: dataTransfer,
		}));
	};
	fire(source, 'dragstart');
	fire(target, 'dragenter');
	fire(target, 'dragover');
	fire(target, 'drop');
	fire(source, 'dragend');
	return true;
})()`, jsString(selector), jsString(a), jsString(b))
}

// jsString renders a Go string as a JavaScript string literal.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
