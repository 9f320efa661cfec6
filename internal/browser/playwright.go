package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Playwright drives a headless Chromium via playwright-go. One Playwright
// value is shared by the whole process; each booking invocation gets its own
// page and never shares it.
type Playwright struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

var _ Browser = (*Playwright)(nil)

// Launch starts the playwright driver and a Chromium instance.
func Launch(headless bool) (*Playwright, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Playwright{pw: pw, browser: b}, nil
}

func (p *Playwright) NewPage(_ context.Context, stepTimeout time.Duration) (Page, error) {
	page, err := p.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &pwPage{page: page, timeout: stepTimeout}, nil
}

func (p *Playwright) Close() error {
	var errs []string
	if err := p.browser.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := p.pw.Stop(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("close browser: %s", strings.Join(errs, "; "))
	}
	return nil
}

type pwPage struct {
	page    playwright.Page
	timeout time.Duration
}

func (p *pwPage) ms() *float64 {
	return playwright.Float(float64(p.timeout.Milliseconds()))
}

func (p *pwPage) Navigate(_ context.Context, url string) error {
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) WaitFor(_ context.Context, selector string) error {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.ms(),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrWaitTimeout, selector)
	}
	return nil
}

func (p *pwPage) Exists(_ context.Context, selector string) (bool, error) {
	n, err := p.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("count %s: %w", selector, err)
	}
	return n > 0, nil
}

func (p *pwPage) Elements(_ context.Context, selector string) ([]Element, error) {
	locs, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", selector, err)
	}
	out := make([]Element, 0, len(locs))
	for _, l := range locs {
		out = append(out, &pwElement{loc: l, timeout: p.timeout})
	}
	return out, nil
}

func (p *pwPage) Click(_ context.Context, selector string) error {
	err := p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: p.ms()})
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *pwPage) Type(_ context.Context, selector, text string) error {
	err := p.page.Locator(selector).Fill(text, playwright.LocatorFillOptions{Timeout: p.ms()})
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (p *pwPage) InnerHTML(_ context.Context, selector string) (string, error) {
	html, err := p.page.Locator(selector).First().InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: p.ms()})
	if err != nil {
		return "", fmt.Errorf("inner html %s: %w", selector, err)
	}
	return html, nil
}

func (p *pwPage) Close() error {
	return p.page.Close()
}

type pwElement struct {
	loc     playwright.Locator
	timeout time.Duration
}

func (e *pwElement) Text(_ context.Context) (string, error) {
	t, err := e.loc.TextContent()
	if err != nil {
		return "", fmt.Errorf("text content: %w", err)
	}
	return t, nil
}

func (e *pwElement) Click(_ context.Context) error {
	return e.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(e.timeout.Milliseconds())),
	})
}
