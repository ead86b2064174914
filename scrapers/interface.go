package scrapers

import (
	"context"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
)

// Scraper defines the interface for registry page scrapers
type Scraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ScrapeVessel drives session to the record at url and extracts its fields
	ScrapeVessel(ctx context.Context, session base.Session, url string) models.Outcome
}
