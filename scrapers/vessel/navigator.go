package vessel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/raushankrgupta/vessel-registry-scraper/logger"
	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
)

// Page locators
const (
	TermsButtonXPath   = "//button[contains(., 'Accept terms and conditions')]"
	AssetDetailsXPath  = "//a[contains(., 'Asset details')]"
	RegistryInfoXPath  = "//h3[contains(., 'Registry information')]"
	consoleErrorsQuery = "window._capturedErrors || []"
)

// consoleListenerScript records console.error calls and uncaught errors on
// window._capturedErrors so they can be reported when a page fails.
const consoleListenerScript = `(() => {
	if (window._capturedErrors) { return; }
	window._capturedErrors = [];
	const originalConsoleError = console.error;
	console.error = function() {
		window._capturedErrors.push(Array.from(arguments).join(' '));
		originalConsoleError.apply(console, arguments);
	};
	window.onerror = function(message, source, lineno, colno) {
		window._capturedErrors.push(message + " at " + source + ":" + lineno + ":" + colno);
	};
})()`

// Options controls the navigation waits
type Options struct {
	TermsTimeout    time.Duration // terms button present
	EnableTimeout   time.Duration // terms button enabled after scrolling
	DetailsTimeout  time.Duration // "Asset details" link present
	RegistryTimeout time.Duration // "Registry information" heading present
	PollInterval    time.Duration

	// SettleXPath, when set, names a loading indicator that must disappear
	// before the details link is clicked. SettleDelay bounds that wait, or is
	// slept outright when no indicator is configured.
	SettleXPath string
	SettleDelay time.Duration

	// AllowedHosts restricts which URLs CanScrape accepts; empty allows any host
	AllowedHosts []string
}

// DefaultOptions returns the timings the registry site needs
func DefaultOptions() Options {
	return Options{
		TermsTimeout:    8 * time.Second,
		EnableTimeout:   5 * time.Second,
		DetailsTimeout:  20 * time.Second,
		RegistryTimeout: 20 * time.Second,
		PollInterval:    250 * time.Millisecond,
		SettleDelay:     time.Second,
	}
}

// VesselScraper walks a registry record page and extracts its fields
type VesselScraper struct {
	opts Options
	log  *logger.Logger
}

// NewVesselScraper creates a scraper for registry record pages
func NewVesselScraper(opts Options, log *logger.Logger) *VesselScraper {
	if log == nil {
		log = logger.Nop()
	}
	return &VesselScraper{opts: opts, log: log}
}

// CanScrape accepts absolute http(s) URLs on an allowed host
func (s *VesselScraper) CanScrape(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if len(s.opts.AllowedHosts) == 0 {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range s.opts.AllowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// ScrapeVessel loads the record at rawURL and extracts its registry fields
func (s *VesselScraper) ScrapeVessel(ctx context.Context, session base.Session, rawURL string) models.Outcome {
	start := time.Now()
	outcome := models.Outcome{URL: rawURL}

	markup, err := s.Navigate(ctx, session, rawURL)
	if err != nil {
		outcome.Kind = Classify(err)
		outcome.Err = err
		if outcome.Kind != models.OutcomeNotFound && ctx.Err() == nil {
			outcome.ConsoleErrors = s.consoleErrors(ctx, session)
		}
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	fields, err := ExtractFields(markup)
	if err != nil {
		outcome.Kind = models.OutcomeFailed
		outcome.Err = fmt.Errorf("parse registry page: %w", err)
		outcome.Elapsed = time.Since(start)
		return outcome
	}

	outcome.Kind = models.OutcomeScraped
	outcome.Fields = fields
	outcome.Elapsed = time.Since(start)
	s.log.Debug().Str("url", rawURL).Int("fields", fields.Len()).Msg("extracted registry fields")
	return outcome
}

// Navigate drives session from the record URL to the rendered registry
// details and returns the page markup.
func (s *VesselScraper) Navigate(ctx context.Context, session base.Session, rawURL string) (string, error) {
	o := s.opts

	if err := session.Navigate(ctx, rawURL); err != nil {
		return "", err
	}
	if err := session.Execute(ctx, consoleListenerScript, nil); err != nil {
		s.log.Warn().Err(err).Str("url", rawURL).Msg("console listener not installed")
	}

	acceptBtn, err := base.WaitForElement(ctx, session, TermsButtonXPath, o.TermsTimeout, o.PollInterval)
	if err != nil {
		return "", fmt.Errorf("terms button: %w", err)
	}

	// The button stays disabled until the terms have been scrolled through
	if err := base.ScrollToBottom(ctx, session); err != nil {
		return "", fmt.Errorf("scroll terms: %w", err)
	}
	err = base.WaitUntil(ctx, o.EnableTimeout, o.PollInterval, func(ctx context.Context) (bool, error) {
		return acceptBtn.Enabled(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("terms button never enabled: %w", err)
	}
	if err := acceptBtn.Click(ctx); err != nil {
		return "", fmt.Errorf("accept terms: %w", err)
	}

	detailsLink, err := base.WaitForElement(ctx, session, AssetDetailsXPath, o.DetailsTimeout, o.PollInterval)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.log.Info().Str("url", rawURL).Msg("Ship Not Found")
		return "", fmt.Errorf("%w: %v", ErrShipNotFound, err)
	}
	if err := s.settle(ctx, session); err != nil {
		return "", err
	}
	if err := detailsLink.Click(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.log.Info().Str("url", rawURL).Err(err).Msg("Ship Not Found")
		return "", fmt.Errorf("%w: open asset details: %v", ErrShipNotFound, err)
	}

	if _, err := base.WaitForElement(ctx, session, RegistryInfoXPath, o.RegistryTimeout, o.PollInterval); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.log.Info().Str("url", rawURL).Msg("Ship found but details failed to load")
		return "", fmt.Errorf("%w: %v", ErrShipDetailsFailedToLoad, err)
	}

	return session.PageSource(ctx)
}

// settle waits for the transition after the terms dialog closes
func (s *VesselScraper) settle(ctx context.Context, session base.Session) error {
	if s.opts.SettleXPath != "" {
		err := base.WaitForAbsence(ctx, session, s.opts.SettleXPath, s.opts.SettleDelay, s.opts.PollInterval)
		if err == nil || errors.Is(err, base.ErrWaitTimeout) {
			return nil
		}
		return err
	}
	if s.opts.SettleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *VesselScraper) consoleErrors(ctx context.Context, session base.Session) []string {
	var errs []string
	if err := session.Execute(ctx, consoleErrorsQuery, &errs); err != nil {
		s.log.Debug().Err(err).Msg("could not read console errors")
		return nil
	}
	return errs
}
