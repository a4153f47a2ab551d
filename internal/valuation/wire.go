package valuation

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/marketval/internal/config"
	"github.com/sells-group/marketval/internal/resilience"
	"github.com/sells-group/marketval/internal/scrape"
	"github.com/sells-group/marketval/internal/stats"
	"github.com/sells-group/marketval/pkg/scrapeproxy"
)

// NewFromConfig builds a ready-to-use Service from application configuration:
// proxy client, scraper, and orchestrator wired together.
func NewFromConfig(cfg *config.Config) (*Service, error) {
	if cfg.Scrape.APIKey == "" {
		return nil, eris.New("valuation: scraping proxy API key is required")
	}

	var proxyOpts []scrapeproxy.Option
	if cfg.Scrape.BaseURL != "" {
		proxyOpts = append(proxyOpts, scrapeproxy.WithBaseURL(cfg.Scrape.BaseURL))
	}
	proxy := scrapeproxy.NewClient(cfg.Scrape.APIKey, proxyOpts...)

	phrases := scrape.DefaultPhrases()
	if cfg.Scrape.BlocklistPath != "" {
		loaded, err := scrape.LoadPhrases(cfg.Scrape.BlocklistPath)
		if err != nil {
			return nil, eris.Wrap(err, "valuation: load blocking phrases")
		}
		phrases = loaded
	}

	backoff := resilience.DefaultPolicy()
	if cfg.Scrape.BaseDelayMs > 0 {
		backoff.BaseDelay = time.Duration(cfg.Scrape.BaseDelayMs) * time.Millisecond
	}
	if cfg.Scrape.MaxDelayMs > 0 {
		backoff.MaxDelay = time.Duration(cfg.Scrape.MaxDelayMs) * time.Millisecond
	}

	scraper := scrape.NewScraper(proxy, scrape.Options{
		MaxRetries:        cfg.Scrape.MaxRetries,
		Timeout:           time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
		MinBodyBytes:      cfg.Scrape.MinBodyBytes,
		Backoff:           backoff,
		Phrases:           phrases,
		Render:            cfg.Scrape.Render,
		CountryCode:       cfg.Scrape.CountryCode,
		Premium:           cfg.Scrape.Premium,
		DeviceType:        cfg.Scrape.DeviceType,
		KeepHeaders:       cfg.Scrape.KeepHeaders,
	})

	return NewService(scraper, Config{
		Marketplace: Marketplace{
			ActiveSearchTemplate: cfg.Marketplace.ActiveSearchTemplate,
			SoldSearchTemplate:   cfg.Marketplace.SoldSearchTemplate,
		},
		Filter: stats.FilterConfig{
			IQRMultiplier:      cfg.Stats.IQRMultiplier,
			MaxRemovalFraction: cfg.Stats.MaxRemovalFraction,
		},
		Value: stats.ValueConfig{
			MedianWeight: cfg.Stats.MedianWeight,
			MeanWeight:   cfg.Stats.MeanWeight,
			ModeWeight:   cfg.Stats.ModeWeight,
			RecentWeight: cfg.Stats.RecentWeight,
			CVThreshold:  cfg.Stats.CVThreshold,
			RecentWindow: time.Duration(cfg.Stats.RecentWindowDays) * 24 * time.Hour,
		},
		SoldWindowDays: cfg.Parse.WindowDays,
		MinPrice:       cfg.Parse.MinPrice,
		MaxPrice:       cfg.Parse.MaxPrice,
	})
}
