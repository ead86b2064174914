package base

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeDPSession drives a local Chrome over the DevTools protocol
type ChromeDPSession struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	loadTimeout time.Duration
}

// NewChromeDPSession starts Chrome and opens the tab every URL is loaded in
func NewChromeDPSession(ctx context.Context, opts SessionOptions) (*ChromeDPSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(opts.UserAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.BrowserBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.BrowserBin))
	}
	if opts.Profile != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.Profile))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	headers := map[string]interface{}{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}

	// The first Run launches the browser
	if err := chromedp.Run(tabCtx, network.Enable(), network.SetExtraHTTPHeaders(network.Headers(headers))); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("chromedp start error: %w", err)
	}

	return &ChromeDPSession{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		loadTimeout: opts.PageLoadTimeout,
	}, nil
}

// run executes actions on the tab, aborting when ctx is done
func (s *ChromeDPSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate waits for the load event, bounded by the page load timeout
func (s *ChromeDPSession) Navigate(ctx context.Context, url string) error {
	loadCtx, cancel := WithPageLoadTimeout(ctx, s.loadTimeout)
	defer cancel()

	if err := s.run(loadCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chromedp navigation error: %w", err)
	}
	return nil
}

func (s *ChromeDPSession) FindElement(ctx context.Context, xpath string) (Element, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("chromedp query error: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoSuchElement
	}
	return &chromeDPElement{session: s, xpath: xpath, node: nodes[0]}, nil
}

func (s *ChromeDPSession) Execute(ctx context.Context, script string, out any) error {
	if err := s.run(ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("chromedp evaluate error: %w", err)
	}
	return nil
}

func (s *ChromeDPSession) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("chromedp page source error: %w", err)
	}
	return html, nil
}

func (s *ChromeDPSession) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}

type chromeDPElement struct {
	session *ChromeDPSession
	xpath   string
	node    *cdp.Node
}

func (e *chromeDPElement) Click(ctx context.Context) error {
	if err := e.session.run(ctx, chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("chromedp click error: %w", err)
	}
	return nil
}

// Enabled re-reads the live DOM; the cached node does not track the disabled property
func (e *chromeDPElement) Enabled(ctx context.Context) (bool, error) {
	locator, err := json.Marshal(e.xpath)
	if err != nil {
		return false, err
	}
	script := fmt.Sprintf(`(() => {
		const el = document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		return !!el && !el.disabled;
	})()`, locator)

	var enabled bool
	if err := e.session.run(ctx, chromedp.Evaluate(script, &enabled)); err != nil {
		return false, fmt.Errorf("chromedp evaluate error: %w", err)
	}
	return enabled, nil
}
