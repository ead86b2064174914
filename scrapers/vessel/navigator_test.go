package vessel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel/vesseltest"
)

const recordURL = "https://registry.example.com/vessel/9074729"

const registryMarkup = `<html><body>
	<md-ink-ripple class="asset-name" title="MV Example"></md-ink-ripple>
	<h3>Registry information</h3>
	<div class="detail"><span class="label">Flag:</span><strong>Panama</strong></div>
	<div class="detail"><div class="title">Call sign</div><div class="content">3FXY7</div></div>
</body></html>`

func fastOptions() vessel.Options {
	return vessel.Options{
		TermsTimeout:    40 * time.Millisecond,
		EnableTimeout:   40 * time.Millisecond,
		DetailsTimeout:  40 * time.Millisecond,
		RegistryTimeout: 40 * time.Millisecond,
		PollInterval:    2 * time.Millisecond,
		SettleDelay:     time.Millisecond,
	}
}

func TestScrapeVessel_Success(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		recordURL: {Markup: registryMarkup},
	})
	s := vessel.NewVesselScraper(fastOptions(), nil)

	outcome := s.ScrapeVessel(context.Background(), session, recordURL)

	require.NoError(t, outcome.Err)
	assert.Equal(t, models.OutcomeScraped, outcome.Kind)
	assert.Equal(t, []string{"Ship Name", "Flag", "Call sign"}, outcome.Fields.Keys())
	flag, _ := outcome.Fields.Get("Flag")
	assert.Equal(t, "Panama", flag)
	assert.Equal(t, []string{
		"navigate " + recordURL,
		"install listener",
		"scroll",
		"accept terms",
		"open details",
	}, session.Actions)
}

func TestScrapeVessel_Failures(t *testing.T) {
	tests := []struct {
		name        string
		page        *vesseltest.Page
		wantKind    models.OutcomeKind
		wantErr     error
		wantConsole []string
	}{
		{
			name:     "terms button never appears",
			page:     &vesseltest.Page{NoTerms: true},
			wantKind: models.OutcomeFailed,
			wantErr:  base.ErrWaitTimeout,
		},
		{
			name:     "terms button never enabled",
			page:     &vesseltest.Page{TermsStayDisabled: true},
			wantKind: models.OutcomeFailed,
			wantErr:  base.ErrWaitTimeout,
		},
		{
			name:     "details link missing",
			page:     &vesseltest.Page{NoDetailsLink: true, ConsoleErrors: []string{"boom"}},
			wantKind: models.OutcomeNotFound,
			wantErr:  vessel.ErrShipNotFound,
		},
		{
			name:     "details link click fails",
			page:     &vesseltest.Page{DetailsClickErr: errors.New("element not interactable")},
			wantKind: models.OutcomeNotFound,
			wantErr:  vessel.ErrShipNotFound,
		},
		{
			name:        "registry information never renders",
			page:        &vesseltest.Page{RegistryNeverLoads: true, ConsoleErrors: []string{"TypeError: x is undefined"}},
			wantKind:    models.OutcomeLoadFailed,
			wantErr:     vessel.ErrShipDetailsFailedToLoad,
			wantConsole: []string{"TypeError: x is undefined"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := vesseltest.NewSession(map[string]*vesseltest.Page{recordURL: tt.page})
			s := vessel.NewVesselScraper(fastOptions(), nil)

			outcome := s.ScrapeVessel(context.Background(), session, recordURL)

			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.ErrorIs(t, outcome.Err, tt.wantErr)
			assert.Equal(t, 0, outcome.Fields.Len())
			assert.Equal(t, tt.wantConsole, outcome.ConsoleErrors)
		})
	}
}

func TestScrapeVessel_NavigationError(t *testing.T) {
	session := vesseltest.NewSession(nil)
	s := vessel.NewVesselScraper(fastOptions(), nil)

	outcome := s.ScrapeVessel(context.Background(), session, recordURL)

	assert.Equal(t, models.OutcomeFailed, outcome.Kind)
	assert.Error(t, outcome.Err)
}

func TestScrapeVessel_WaitsForLoadingIndicator(t *testing.T) {
	opts := fastOptions()
	opts.SettleXPath = "//div[contains(@class, 'loading')]"
	opts.SettleDelay = 200 * time.Millisecond

	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		recordURL: {Markup: registryMarkup, LoadingPolls: 3},
	})
	s := vessel.NewVesselScraper(opts, nil)

	outcome := s.ScrapeVessel(context.Background(), session, recordURL)

	require.NoError(t, outcome.Err)
	assert.Equal(t, models.OutcomeScraped, outcome.Kind)
}

func TestScrapeVessel_LoadingIndicatorTimeoutStillClicks(t *testing.T) {
	opts := fastOptions()
	opts.SettleXPath = "//div[contains(@class, 'loading')]"
	opts.SettleDelay = 10 * time.Millisecond

	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		recordURL: {Markup: registryMarkup, LoadingPolls: 1000},
	})
	s := vessel.NewVesselScraper(opts, nil)

	outcome := s.ScrapeVessel(context.Background(), session, recordURL)

	require.NoError(t, outcome.Err)
	assert.Contains(t, session.Actions, "open details")
}

func TestScrapeVessel_Cancelled(t *testing.T) {
	session := vesseltest.NewSession(map[string]*vesseltest.Page{
		recordURL: {NoDetailsLink: true},
	})
	opts := fastOptions()
	opts.DetailsTimeout = time.Minute
	s := vessel.NewVesselScraper(opts, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	outcome := s.ScrapeVessel(ctx, session, recordURL)

	assert.Equal(t, models.OutcomeFailed, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
}

func TestCanScrape(t *testing.T) {
	open := vessel.NewVesselScraper(vessel.DefaultOptions(), nil)
	assert.True(t, open.CanScrape(recordURL))
	assert.True(t, open.CanScrape("  http://other.example.org/x  "))
	assert.False(t, open.CanScrape("registry.example.com/vessel/1"))
	assert.False(t, open.CanScrape("ftp://registry.example.com/file"))
	assert.False(t, open.CanScrape(""))

	opts := vessel.DefaultOptions()
	opts.AllowedHosts = []string{"example.com"}
	restricted := vessel.NewVesselScraper(opts, nil)
	assert.True(t, restricted.CanScrape(recordURL))
	assert.True(t, restricted.CanScrape("https://EXAMPLE.com/a"))
	assert.False(t, restricted.CanScrape("https://notexample.com/a"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, models.OutcomeScraped, vessel.Classify(nil))
	assert.Equal(t, models.OutcomeNotFound, vessel.Classify(vessel.ErrShipNotFound))
	assert.Equal(t, models.OutcomeLoadFailed, vessel.Classify(errors.Join(errors.New("x"), vessel.ErrShipDetailsFailedToLoad)))
	assert.Equal(t, models.OutcomeFailed, vessel.Classify(errors.New("boom")))
}
