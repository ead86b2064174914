package base

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Supported browser drivers
const (
	DriverChromeDP        = "chromedp"
	DriverRod             = "rod"
	DriverSeleniumChrome  = "selenium-chrome"
	DriverSeleniumFirefox = "selenium-firefox"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// SessionOptions controls how the browser session is launched
type SessionOptions struct {
	Driver     string
	Headless   bool
	BrowserBin string // empty uses the driver's default lookup
	Profile    string // browser profile directory, reused so cookies/consent survive runs
	UserAgent  string

	// WebDriver settings, selenium drivers only
	WebDriverPath   string
	BasePort        int
	PortRange       int
	PageLoadTimeout time.Duration
}

// NewSession launches a browser with the configured driver
func NewSession(ctx context.Context, opts SessionOptions) (Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = 60 * time.Second
	}

	var (
		session Session
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverChromeDP:
		session, err = NewChromeDPSession(ctx, opts)
	case DriverRod:
		session, err = NewRodSession(ctx, opts)
	case DriverSeleniumChrome:
		session, err = NewSeleniumSession(opts, false)
	case DriverSeleniumFirefox:
		session, err = NewSeleniumSession(opts, true)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}
