package base

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodSession drives Chrome through go-rod with the stealth evasions applied
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	loadTimeout time.Duration
}

// NewRodSession launches a browser and opens a stealth page
func NewRodSession(ctx context.Context, opts SessionOptions) (*RodSession, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}
	if opts.Profile != "" {
		l = l.UserDataDir(opts.Profile)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("rod launch error: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("rod connect error: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("rod page error: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("rod user agent error: %w", err)
	}

	return &RodSession{launcher: l, browser: browser, page: page, loadTimeout: opts.PageLoadTimeout}, nil
}

func (s *RodSession) Navigate(ctx context.Context, url string) error {
	loadCtx, cancel := WithPageLoadTimeout(ctx, s.loadTimeout)
	defer cancel()

	if err := s.page.Context(loadCtx).Navigate(url); err != nil {
		return fmt.Errorf("rod navigation error: %w", err)
	}
	return nil
}

func (s *RodSession) FindElement(ctx context.Context, xpath string) (Element, error) {
	els, err := s.page.Context(ctx).ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("rod query error: %w", err)
	}
	if els.Empty() {
		return nil, ErrNoSuchElement
	}
	return &rodElement{el: els.First(), timeout: s.loadTimeout}, nil
}

func (s *RodSession) Execute(ctx context.Context, script string, out any) error {
	js := "() => (" + strings.TrimRight(strings.TrimSpace(script), ";") + ")"
	res, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return fmt.Errorf("rod eval error: %w", err)
	}
	if out == nil {
		return nil
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *RodSession) PageSource(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("rod page source error: %w", err)
	}
	return html, nil
}

func (s *RodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

type rodElement struct {
	el      *rod.Element
	timeout time.Duration
}

// Click waits for the element to become interactable, bounded by the page load timeout
func (e *rodElement) Click(ctx context.Context) error {
	clickCtx, cancel := WithPageLoadTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.el.Context(clickCtx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("rod click error: %w", err)
	}
	return nil
}

func (e *rodElement) Enabled(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(`() => !this.disabled`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}
