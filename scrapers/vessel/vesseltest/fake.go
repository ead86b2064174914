// Package vesseltest provides an in-memory registry site for tests
package vesseltest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel"
)

// Page describes how one fake registry record behaves
type Page struct {
	NoTerms            bool // terms button never appears
	TermsStayDisabled  bool // scrolling never enables the terms button
	NoDetailsLink      bool // record has no "Asset details" link
	DetailsClickErr    error
	RegistryNeverLoads bool // details panel never renders
	LoadingPolls       int  // polls before the loading indicator goes away
	ConsoleErrors      []string
	Markup             string
}

// Session is a base.Session backed by scripted pages
type Session struct {
	mu    sync.Mutex
	pages map[string]*Page

	current        *Page
	loadingLeft    int
	scrolled       bool
	termsAccepted  bool
	detailsOpened  bool
	listenerLoaded bool

	Visited []string
	Actions []string
	Closed  bool
}

// NewSession returns a fake session serving pages by URL
func NewSession(pages map[string]*Page) *Session {
	return &Session{pages: pages}
}

func (s *Session) record(action string) {
	s.Actions = append(s.Actions, action)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Visited = append(s.Visited, url)
	s.record("navigate " + url)
	p, ok := s.pages[url]
	if !ok {
		s.current = nil
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED %s", url)
	}
	s.current = p
	s.loadingLeft = p.LoadingPolls
	s.scrolled = false
	s.termsAccepted = false
	s.detailsOpened = false
	s.listenerLoaded = false
	return nil
}

func (s *Session) FindElement(ctx context.Context, xpath string) (base.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.current
	if p == nil {
		return nil, base.ErrNoSuchElement
	}

	switch xpath {
	case vessel.TermsButtonXPath:
		if p.NoTerms {
			return nil, base.ErrNoSuchElement
		}
	case vessel.AssetDetailsXPath:
		if !s.termsAccepted || p.NoDetailsLink {
			return nil, base.ErrNoSuchElement
		}
	case vessel.RegistryInfoXPath:
		if !s.detailsOpened || p.RegistryNeverLoads {
			return nil, base.ErrNoSuchElement
		}
	default:
		// anything else is the loading indicator
		if s.loadingLeft <= 0 {
			return nil, base.ErrNoSuchElement
		}
		s.loadingLeft--
	}
	return &element{session: s, xpath: xpath}, nil
}

func (s *Session) Execute(ctx context.Context, script string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.Contains(script, "scrollTo"):
		s.record("scroll")
		s.scrolled = true
	case strings.Contains(script, "_capturedErrors = []"):
		s.record("install listener")
		s.listenerLoaded = true
	case strings.Contains(script, "_capturedErrors"):
		var errs []string
		if s.current != nil && s.listenerLoaded {
			errs = s.current.ConsoleErrors
		}
		if out == nil {
			return nil
		}
		raw, err := json.Marshal(errs)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (s *Session) PageSource(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return "", fmt.Errorf("no page loaded")
	}
	return s.current.Markup, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

type element struct {
	session *Session
	xpath   string
}

func (e *element) Click(ctx context.Context) error {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.xpath {
	case vessel.TermsButtonXPath:
		s.record("accept terms")
		s.termsAccepted = true
	case vessel.AssetDetailsXPath:
		s.record("open details")
		if s.current != nil && s.current.DetailsClickErr != nil {
			return s.current.DetailsClickErr
		}
		s.detailsOpened = true
	default:
		s.record("click " + e.xpath)
	}
	return nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.xpath == vessel.TermsButtonXPath {
		return s.scrolled && s.current != nil && !s.current.TermsStayDisabled, nil
	}
	return true, nil
}
