package scrapers

import (
	"fmt"
	"strings"

	"github.com/raushankrgupta/vessel-registry-scraper/logger"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel"
)

// Registry picks the scraper responsible for a URL
type Registry struct {
	scrapers []Scraper
}

// NewRegistry registers the known scrapers
func NewRegistry(opts vessel.Options, log *logger.Logger) *Registry {
	return &Registry{
		scrapers: []Scraper{
			vessel.NewVesselScraper(opts, log),
		},
	}
}

// NewRegistryWith builds a registry from explicit scrapers
func NewRegistryWith(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

// GetScraper returns the scraper for url and the trimmed URL
func (r *Registry) GetScraper(url string) (Scraper, string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, url, fmt.Errorf("empty url")
	}

	for _, s := range r.scrapers {
		if s.CanScrape(url) {
			return s, url, nil
		}
	}

	return nil, url, fmt.Errorf("no scraper found for url: %s", url)
}
