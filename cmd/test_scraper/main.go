package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/raushankrgupta/vessel-registry-scraper/config"
	"github.com/raushankrgupta/vessel-registry-scraper/logger"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
)

// Scrapes the registry URLs given as arguments and prints each result as JSON
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: test_scraper <registry url>...")
		os.Exit(2)
	}

	config.LoadConfig()
	ctx := context.Background()
	lg := logger.New("test_scraper")

	session, err := base.NewSession(ctx, config.SessionOptions())
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer session.Close()

	registry := scrapers.NewRegistry(config.NavigatorOptions(), lg)

	for _, u := range os.Args[1:] {
		fmt.Printf("Testing URL: %s\n", u)
		scraper, resolved, err := registry.GetScraper(u)
		if err != nil {
			log.Printf("Failed to get scraper for %s: %v\n", u, err)
			continue
		}

		outcome := scraper.ScrapeVessel(ctx, session, resolved)
		fmt.Printf("Outcome: %s in %s\n", outcome.Kind, logger.Elapsed(outcome.Elapsed))
		if outcome.Err != nil {
			log.Printf("Failed to scrape vessel: %v\n", outcome.Err)
			for _, e := range outcome.ConsoleErrors {
				fmt.Printf("  console: %s\n", e)
			}
			continue
		}

		b, _ := json.MarshalIndent(outcome.Fields, "", "  ")
		fmt.Printf("Vessel: %s\n", string(b))
		fmt.Println("--------------------------------------------------")
	}
}
