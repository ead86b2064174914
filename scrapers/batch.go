package scrapers

import (
	"context"
	"time"

	"github.com/raushankrgupta/vessel-registry-scraper/logger"
	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
)

// Report collects the results of a batch run
type Report struct {
	Vessels  []models.FieldMap // one per scraped URL, input order
	Failed   []string          // URLs that errored or whose details never loaded
	NotFound []string          // URLs skipped because the record does not exist
	Outcomes []models.Outcome
}

// BatchOptions configures RunBatch
type BatchOptions struct {
	Log *logger.Logger
	// OnOutcome is called after every URL, in order
	OnOutcome func(ctx context.Context, index int, outcome models.Outcome)
}

// RunBatch scrapes urls one at a time on the shared session. A failing URL
// never stops the run; only ctx cancellation does.
func RunBatch(ctx context.Context, registry *Registry, session base.Session, urls []string, opts BatchOptions) Report {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	var report Report
	for i, rawURL := range urls {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", len(urls)-i).Msg("run cancelled")
			break
		}
		index := i + 1
		log.Info().Msgf("%d. Scraping data for %s", index, rawURL)

		outcome := scrapeOne(ctx, registry, session, rawURL)
		if ctx.Err() != nil && outcome.Kind != models.OutcomeScraped {
			log.Warn().Int("remaining", len(urls)-i).Msg("run cancelled")
			break
		}

		switch outcome.Kind {
		case models.OutcomeScraped:
			report.Vessels = append(report.Vessels, outcome.Fields)
			log.Info().Int("fields", outcome.Fields.Len()).Msgf("Done in %s", logger.Elapsed(outcome.Elapsed))
		case models.OutcomeNotFound:
			report.NotFound = append(report.NotFound, outcome.URL)
		case models.OutcomeLoadFailed, models.OutcomeFailed:
			report.Failed = append(report.Failed, outcome.URL)
			ev := log.Warn().Str("url", outcome.URL).Str("kind", outcome.Kind.String()).Err(outcome.Err)
			if len(outcome.ConsoleErrors) > 0 {
				ev = ev.Strs("console_errors", outcome.ConsoleErrors)
			}
			ev.Msg("failed")
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if opts.OnOutcome != nil {
			opts.OnOutcome(ctx, index, outcome)
		}
	}

	return report
}

func scrapeOne(ctx context.Context, registry *Registry, session base.Session, rawURL string) models.Outcome {
	scraper, resolved, err := registry.GetScraper(rawURL)
	if err != nil {
		return models.Outcome{URL: rawURL, Kind: models.OutcomeFailed, Err: err}
	}
	start := time.Now()
	outcome := scraper.ScrapeVessel(ctx, session, resolved)
	// Failures are reported under the URL exactly as it was given
	outcome.URL = rawURL
	if outcome.Elapsed == 0 {
		outcome.Elapsed = time.Since(start)
	}
	return outcome
}
