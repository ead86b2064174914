package config

import (
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/vessel"
)

// SessionOptions returns the browser launch settings
func SessionOptions() base.SessionOptions {
	return base.SessionOptions{
		Driver:        BrowserDriver,
		Headless:      Headless,
		BrowserBin:    BrowserBin,
		Profile:       BrowserProfile,
		WebDriverPath: WebDriverPath,
		BasePort:      SeleniumPort,
		PortRange:     SeleniumPorts,
	}
}

// NavigatorOptions returns the registry page timings
func NavigatorOptions() vessel.Options {
	return vessel.Options{
		TermsTimeout:    TermsTimeout,
		EnableTimeout:   EnableTimeout,
		DetailsTimeout:  DetailsTimeout,
		RegistryTimeout: RegistryTimeout,
		PollInterval:    PollInterval,
		SettleXPath:     SettleXPath,
		SettleDelay:     SettleDelay,
		AllowedHosts:    RegistryHosts,
	}
}
