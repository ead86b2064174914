package scrapers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel/vesseltest"
)

const (
	okURL         = "https://registry.example.com/vessel/1"
	missingURL    = "https://registry.example.com/vessel/2"
	brokenURL     = "https://registry.example.com/vessel/3"
	noTermsURL    = "https://registry.example.com/vessel/4"
	secondOKURL   = "https://registry.example.com/vessel/5"
	unresolvedURL = "https://registry.example.com/vessel/6"
)

func page(name, flag string) *vesseltest.Page {
	return &vesseltest.Page{Markup: `<md-ink-ripple class="asset-name" title="` + name + `"></md-ink-ripple>
		<h3>Registry information</h3>
		<div class="detail"><span class="label">Flag:</span><strong>` + flag + `</strong></div>`}
}

func newRegistry() *scrapers.Registry {
	return scrapers.NewRegistry(vessel.Options{
		TermsTimeout:    30 * time.Millisecond,
		EnableTimeout:   30 * time.Millisecond,
		DetailsTimeout:  30 * time.Millisecond,
		RegistryTimeout: 30 * time.Millisecond,
		PollInterval:    2 * time.Millisecond,
	}, nil)
}

func TestRunBatch_ClassifiesEveryURL(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		okURL:       page("MV Example", "Panama"),
		missingURL:  {NoDetailsLink: true},
		brokenURL:   {RegistryNeverLoads: true},
		noTermsURL:  {NoTerms: true},
		secondOKURL: page("Ocean Star", "Malta"),
	})

	urls := []string{okURL, missingURL, brokenURL, noTermsURL, "not a url", unresolvedURL, secondOKURL}

	var seen []int
	report := scrapers.RunBatch(context.Background(), newRegistry(), session, urls, scrapers.BatchOptions{
		OnOutcome: func(ctx context.Context, index int, outcome models.Outcome) {
			seen = append(seen, index)
		},
	})

	require.Len(t, report.Vessels, 2)
	name, _ := report.Vessels[0].Get("Ship Name")
	assert.Equal(t, "MV Example", name)
	flag, _ := report.Vessels[1].Get("Flag")
	assert.Equal(t, "Malta", flag)

	assert.Equal(t, []string{brokenURL, noTermsURL, "not a url", unresolvedURL}, report.Failed)
	assert.Equal(t, []string{missingURL}, report.NotFound)
	assert.Len(t, report.Outcomes, len(urls))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, seen)

	// the invalid URL never reaches the browser
	assert.NotContains(t, session.Visited, "not a url")
	assert.False(t, session.Closed)
}

func TestRunBatch_NotFoundIsSkippedSilently(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		missingURL: {NoDetailsLink: true},
		okURL:      page("MV Example", "Panama"),
	})

	report := scrapers.RunBatch(context.Background(), newRegistry(), session, []string{missingURL, okURL}, scrapers.BatchOptions{})

	assert.Empty(t, report.Failed)
	assert.Len(t, report.Vessels, 1)
	assert.Equal(t, models.OutcomeNotFound, report.Outcomes[0].Kind)
	assert.ErrorIs(t, report.Outcomes[0].Err, vessel.ErrShipNotFound)
}

func TestRunBatch_DetailsFailureIsRecorded(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		brokenURL: {RegistryNeverLoads: true},
		okURL:     page("MV Example", "Panama"),
	})

	report := scrapers.RunBatch(context.Background(), newRegistry(), session, []string{brokenURL, okURL}, scrapers.BatchOptions{})

	assert.Equal(t, []string{brokenURL}, report.Failed)
	assert.Len(t, report.Vessels, 1)
	assert.ErrorIs(t, report.Outcomes[0].Err, vessel.ErrShipDetailsFailedToLoad)
}

func TestRunBatch_StopsOnCancel(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{okURL: page("MV Example", "Panama")})
	ctx, cancel := context.WithCancel(context.Background())

	report := scrapers.RunBatch(ctx, newRegistry(), session, []string{okURL, okURL, okURL}, scrapers.BatchOptions{
		OnOutcome: func(ctx context.Context, index int, outcome models.Outcome) {
			cancel()
		},
	})

	assert.Len(t, report.Vessels, 1)
	assert.Empty(t, report.Failed)
	assert.Len(t, session.Visited, 1)
}

type stubScraper struct {
	accept bool
	kind   models.OutcomeKind
}

func (s stubScraper) CanScrape(url string) bool { return s.accept }

func (s stubScraper) ScrapeVessel(ctx context.Context, session base.Session, url string) models.Outcome {
	return models.Outcome{URL: url, Kind: s.kind, Fields: models.NewFieldMap()}
}

func TestGetScraper(t *testing.T) {
	r := scrapers.NewRegistryWith(stubScraper{accept: false}, stubScraper{accept: true, kind: models.OutcomeScraped})

	s, resolved, err := r.GetScraper("  https://a.example/x ")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/x", resolved)
	assert.Equal(t, stubScraper{accept: true, kind: models.OutcomeScraped}, s)

	_, _, err = r.GetScraper("   ")
	assert.Error(t, err)

	_, _, err = scrapers.NewRegistryWith(stubScraper{}).GetScraper("https://a.example/x")
	assert.Error(t, err)
}

func TestRunBatch_ReportsOriginalURL(t *testing.T) {
	r := scrapers.NewRegistryWith(stubScraper{accept: true, kind: models.OutcomeLoadFailed})

	report := scrapers.RunBatch(context.Background(), r, vesseltest.NewSession(nil), []string{" https://a.example/x "}, scrapers.BatchOptions{})

	assert.Equal(t, []string{" https://a.example/x "}, report.Failed)
}
