// Package browsertest provides a scripted in-memory Browser for tests. The
// fake is selector-driven like the real engine: tests declare which
// selectors are present, which elements a selector enumerates, and what a
// click changes.
package browsertest

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wod-booker/internal/browser"
)

type Browser struct {
	// Script builds the page an invocation gets. Required.
	Script func() *Page

	// Pages records every page handed out, in order.
	Pages []*Page

	NewPageErr error
	Closed     bool
}

var _ browser.Browser = (*Browser)(nil)

func (b *Browser) NewPage(_ context.Context, _ time.Duration) (browser.Page, error) {
	if b.NewPageErr != nil {
		return nil, b.NewPageErr
	}
	p := b.Script()
	b.Pages = append(b.Pages, p)
	return p, nil
}

func (b *Browser) Close() error {
	b.Closed = true
	return nil
}

// Page is one scripted tab.
type Page struct {
	// Present marks selectors that WaitFor and Exists find.
	Present map[string]bool

	// ElementSets maps a selector to the elements it enumerates.
	ElementSets map[string][]*Element

	// HTML maps a selector to its InnerHTML.
	HTML map[string]string

	// ClickHooks run when Click(selector) fires, after recording.
	ClickHooks map[string]func()

	Navigated  []string
	Typed      map[string]string
	Clicked    []string
	CloseCalls int
}

var _ browser.Page = (*Page)(nil)

func NewPage() *Page {
	return &Page{
		Present:     map[string]bool{},
		ElementSets: map[string][]*Element{},
		HTML:        map[string]string{},
		ClickHooks:  map[string]func(){},
		Typed:       map[string]string{},
	}
}

func (p *Page) Navigate(_ context.Context, url string) error {
	p.Navigated = append(p.Navigated, url)
	return nil
}

func (p *Page) WaitFor(_ context.Context, selector string) error {
	if p.Present[selector] {
		return nil
	}
	return fmt.Errorf("%w: %s", browser.ErrWaitTimeout, selector)
}

func (p *Page) Exists(_ context.Context, selector string) (bool, error) {
	return p.Present[selector], nil
}

func (p *Page) Elements(_ context.Context, selector string) ([]browser.Element, error) {
	els := p.ElementSets[selector]
	out := make([]browser.Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out, nil
}

func (p *Page) Click(_ context.Context, selector string) error {
	p.Clicked = append(p.Clicked, selector)
	if hook := p.ClickHooks[selector]; hook != nil {
		hook()
	}
	return nil
}

func (p *Page) Type(_ context.Context, selector, text string) error {
	p.Typed[selector] = text
	return nil
}

func (p *Page) InnerHTML(_ context.Context, selector string) (string, error) {
	if html, ok := p.HTML[selector]; ok {
		return html, nil
	}
	return "", fmt.Errorf("no html scripted for %s", selector)
}

func (p *Page) Close() error {
	p.CloseCalls++
	return nil
}

// Element is a scripted DOM node handle.
type Element struct {
	TextValue string
	OnClick   func()
	Clicks    int
}

var _ browser.Element = (*Element)(nil)

func (e *Element) Text(_ context.Context) (string, error) {
	return e.TextValue, nil
}

func (e *Element) Click(_ context.Context) error {
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}
