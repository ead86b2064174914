package base

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

const (
	chromeDriverPath = "/usr/local/bin/chromedriver"
	geckoDriverPath  = "/usr/local/bin/geckodriver"
)

// SeleniumSession drives Chrome or Firefox through a local WebDriver service
type SeleniumSession struct {
	service *selenium.Service
	driver  selenium.WebDriver
	ports   *PortManager
	port    int
}

// NewSeleniumSession starts chromedriver or geckodriver and opens a remote session on it
func NewSeleniumSession(opts SessionOptions, useFirefox bool) (*SeleniumSession, error) {
	ports := DriverPorts(opts.BasePort, opts.PortRange)
	port, err := ports.GetPort()
	if err != nil {
		return nil, fmt.Errorf("port error: %w", err)
	}

	driverPath := opts.WebDriverPath
	var service *selenium.Service
	var urlPrefix string
	if useFirefox {
		if driverPath == "" {
			driverPath = geckoDriverPath
		}
		service, err = selenium.NewGeckoDriverService(driverPath, port)
		urlPrefix = fmt.Sprintf("http://localhost:%d", port)
	} else {
		if driverPath == "" {
			driverPath = chromeDriverPath
		}
		service, err = selenium.NewChromeDriverService(driverPath, port)
		urlPrefix = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}
	if err != nil {
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error starting WebDriver service: %v", err)
	}

	caps := selenium.Capabilities{"pageLoadStrategy": "eager"}
	if useFirefox {
		caps["browserName"] = "firefox"
		ffCaps, err := firefoxCapabilities(opts)
		if err != nil {
			service.Stop()
			ports.ReleasePort(port)
			return nil, err
		}
		caps.AddFirefox(ffCaps)
	} else {
		caps["browserName"] = "chrome"
		caps.AddChrome(chromeCapabilities(opts))
	}

	driver, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		service.Stop()
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error creating WebDriver: %v", err)
	}

	if err := driver.SetPageLoadTimeout(opts.PageLoadTimeout); err != nil {
		driver.Quit()
		service.Stop()
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error setting page load timeout: %w", err)
	}

	return &SeleniumSession{service: service, driver: driver, ports: ports, port: port}, nil
}

func chromeCapabilities(opts SessionOptions) chrome.Capabilities {
	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"--disable-extensions",
		"--window-size=1920,1080",
		fmt.Sprintf("--user-agent=%s", opts.UserAgent),
	}
	if opts.Headless {
		args = append(args, "--headless=new", "--disable-gpu")
	}
	if opts.Profile != "" {
		args = append(args, fmt.Sprintf("--user-data-dir=%s", opts.Profile))
	}

	return chrome.Capabilities{
		Path:            opts.BrowserBin,
		Args:            args,
		ExcludeSwitches: []string{"enable-automation"},
		Prefs: map[string]interface{}{
			"profile.default_content_setting_values.notifications": 2,
		},
	}
}

func firefoxCapabilities(opts SessionOptions) (firefox.Capabilities, error) {
	ffCaps := firefox.Capabilities{Binary: opts.BrowserBin}
	if opts.Headless {
		ffCaps.Args = append(ffCaps.Args, "-headless")
	}
	if opts.Profile != "" {
		if err := ffCaps.SetProfile(opts.Profile); err != nil {
			return ffCaps, fmt.Errorf("error loading firefox profile %s: %w", opts.Profile, err)
		}
	}
	return ffCaps, nil
}

// WebDriver calls are synchronous; ctx is only checked before each call
func (s *SeleniumSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.driver.Get(url); err != nil {
		return fmt.Errorf("navigation error: %w", err)
	}
	return nil
}

func (s *SeleniumSession) FindElement(ctx context.Context, xpath string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	el, err := s.driver.FindElement(selenium.ByXPATH, xpath)
	if err != nil {
		if isNoSuchElement(err) {
			return nil, ErrNoSuchElement
		}
		return nil, fmt.Errorf("find element error: %w", err)
	}
	return &seleniumElement{el: el}, nil
}

func (s *SeleniumSession) Execute(ctx context.Context, script string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := "return " + strings.TrimRight(strings.TrimSpace(script), ";") + ";"
	res, err := s.driver.ExecuteScript(body, nil)
	if err != nil {
		return fmt.Errorf("execute script error: %w", err)
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *SeleniumSession) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := s.driver.PageSource()
	if err != nil {
		return "", fmt.Errorf("page source error: %w", err)
	}
	return html, nil
}

func (s *SeleniumSession) Close() error {
	defer s.ports.ReleasePort(s.port)
	quitErr := s.driver.Quit()
	stopErr := s.service.Stop()
	return errors.Join(quitErr, stopErr)
}

func isNoSuchElement(err error) bool {
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		return wdErr.Err == "no such element"
	}
	return strings.Contains(err.Error(), "no such element")
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.el.Click()
}

func (e *seleniumElement) Enabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.el.IsEnabled()
}
