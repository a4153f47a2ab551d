// Package valuation composes the query generator, scraper client, listing
// parser, and statistics engine into per-item market valuations.
package valuation

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/marketval/internal/model"
	"github.com/sells-group/marketval/internal/parse"
	"github.com/sells-group/marketval/internal/query"
	"github.com/sells-group/marketval/internal/stats"
)

// Stage labels the progression of one valuation request. Every stage
// degrades to an empty value rather than failing the request.
type Stage string

const (
	StageInit               Stage = "init"
	StageQueriesGenerated   Stage = "queries_generated"
	StageFetching           Stage = "fetching"
	StageParsed             Stage = "parsed"
	StageStatisticsComputed Stage = "statistics_computed"
	StageResultReady        Stage = "result_ready"
)

// Scraper is the fetch dependency. The production implementation is
// *scrape.Scraper; tests substitute stubs.
type Scraper interface {
	Scrape(ctx context.Context, targetURL string) *model.ScrapeResult
}

// Marketplace holds the deep-link search URL templates. Each template takes
// one %s verb for the URL-encoded query.
type Marketplace struct {
	ActiveSearchTemplate string
	SoldSearchTemplate   string
}

// DefaultMarketplace returns the standard search URL templates.
func DefaultMarketplace() Marketplace {
	return Marketplace{
		ActiveSearchTemplate: "https://www.ebay.com/sch/i.html?_nkw=%s",
		SoldSearchTemplate:   "https://www.ebay.com/sch/i.html?_nkw=%s&LH_Sold=1&LH_Complete=1",
	}
}

// Config tunes the orchestrator.
type Config struct {
	Marketplace    Marketplace
	Filter         stats.FilterConfig
	Value          stats.ValueConfig
	SoldWindowDays int
	MinPrice       float64
	MaxPrice       float64
}

// Options are per-request knobs.
type Options struct {
	// SoldWindowDays overrides the configured sold-listing window.
	SoldWindowDays int

	// CategoryHint refines query generation.
	CategoryHint string
}

// Service computes market valuations. Safe for concurrent use; all shared
// state lives inside the injected scraper.
type Service struct {
	scraper Scraper
	cfg     Config
}

// NewService creates a valuation service. The scraper is the one required
// dependency; construction is the only place an error is surfaced.
func NewService(scraper Scraper, cfg Config) (*Service, error) {
	if scraper == nil {
		return nil, eris.New("valuation: scraper is required")
	}
	if cfg.Marketplace.ActiveSearchTemplate == "" {
		cfg.Marketplace = DefaultMarketplace()
	}
	if cfg.SoldWindowDays <= 0 {
		cfg.SoldWindowDays = 30
	}
	return &Service{scraper: scraper, cfg: cfg}, nil
}

// GetMarketValue estimates the fair market value of the named item. Data
// quality problems never return an error: the worst case is a zero value
// with zero confidence. The returned error covers only context cancellation
// before any work happened.
func (s *Service) GetMarketValue(ctx context.Context, itemName string, opts Options) (*model.MarketValueResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "valuation: context finished")
	}

	windowDays := opts.SoldWindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.SoldWindowDays
	}

	log := zap.L().With(zap.String("item", itemName))
	log.Debug("valuation: stage", zap.String("stage", string(StageInit)))

	queries := query.Generate(itemName, query.Options{CategoryHint: opts.CategoryHint})
	top := queries[0].Text
	log.Debug("valuation: stage",
		zap.String("stage", string(StageQueriesGenerated)),
		zap.Int("variants", len(queries)),
		zap.String("query", top),
	)

	activeURL := s.searchURL(s.cfg.Marketplace.ActiveSearchTemplate, top)
	soldURL := s.searchURL(s.cfg.Marketplace.SoldSearchTemplate, top)

	parseOpts := parse.Options{
		WindowDays: windowDays,
		MinPrice:   s.cfg.MinPrice,
		MaxPrice:   s.cfg.MaxPrice,
	}

	log.Debug("valuation: stage", zap.String("stage", string(StageFetching)))

	var active, soldListings parse.Result
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		active = s.fetchAndParse(gCtx, activeURL, parseOpts, false, log)
		return nil
	})
	g.Go(func() error {
		soldListings = s.fetchAndParse(gCtx, soldURL, parseOpts, true, log)
		return nil
	})
	_ = g.Wait()

	log.Debug("valuation: stage",
		zap.String("stage", string(StageParsed)),
		zap.Int("active", active.Count),
		zap.Int("sold", soldListings.Count),
	)

	samples := poolSamples(active.Listings, soldListings.Listings)

	result := &model.MarketValueResult{
		ItemName:        itemName,
		SoldWindowDays:  windowDays,
		ActiveSearchURL: activeURL,
		SoldSearchURL:   soldURL,
		QueryUsed:       top,
		ActiveCount:     active.Count,
		SoldCount:       soldListings.Count,
		Timestamp:       time.Now(),
	}

	if len(samples) == 0 {
		result.Methodology = stats.MethodNoData
		log.Info("valuation: no usable prices", zap.String("query", top))
		return result, nil
	}

	prices := make([]float64, len(samples))
	for i, smp := range samples {
		prices[i] = smp.Price
	}
	filtered := stats.FilterOutliersSmart(prices, s.cfg.Filter)
	kept := dropOutlierSamples(samples, filtered.Outliers)

	value := stats.CalculateWeightedMarketValue(kept, s.cfg.Value)
	st := value.Statistics
	st.OutlierCount = len(filtered.Outliers)

	log.Debug("valuation: stage",
		zap.String("stage", string(StageStatisticsComputed)),
		zap.Int("samples", st.SampleSize),
		zap.Int("outliers", st.OutlierCount),
		zap.String("method", value.Methodology),
	)

	result.Value = value.Amount
	result.Confidence = value.Confidence
	result.Methodology = value.Methodology
	result.Statistics = st
	result.OutliersRemoved = filtered.Method == "iqr" && len(filtered.Outliers) > 0

	log.Info("valuation: stage",
		zap.String("stage", string(StageResultReady)),
		zap.Float64("value", result.Value),
		zap.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// fetchAndParse runs one sub-fetch. Any failure yields an empty listing set
// rather than aborting the valuation.
func (s *Service) fetchAndParse(ctx context.Context, targetURL string, opts parse.Options, sold bool, log *zap.Logger) parse.Result {
	res := s.scraper.Scrape(ctx, targetURL)
	if !res.Success {
		log.Warn("valuation: sub-fetch failed",
			zap.String("url", targetURL),
			zap.Bool("blocked", res.Blocked),
			zap.Int("attempts", res.Attempts),
			zap.String("error", res.Error),
		)
		return parse.Result{}
	}

	var parsed parse.Result
	if sold {
		parsed = parse.ParseSold(res.HTML, opts)
	} else {
		parsed = parse.ParseActive(res.HTML, opts)
	}

	if report := parse.Validate(parsed, sold); !report.OK() {
		log.Warn("valuation: degraded parse",
			zap.String("url", targetURL),
			zap.Bool("sold", sold),
			zap.Strings("warnings", report.Warnings),
		)
	}
	return parsed
}

func (s *Service) searchURL(template, q string) string {
	return fmt.Sprintf(template, url.QueryEscape(q))
}

// poolSamples merges the positive prices from both listing sets, keeping
// sold dates for the recency term.
func poolSamples(active, sold []model.Listing) []stats.Sample {
	samples := make([]stats.Sample, 0, len(active)+len(sold))
	for _, l := range active {
		if l.Price > 0 {
			samples = append(samples, stats.Sample{Price: l.Price})
		}
	}
	for _, l := range sold {
		if l.Price > 0 {
			samples = append(samples, stats.Sample{Price: l.Price, SoldAt: l.SoldAt})
		}
	}
	return samples
}

// dropOutlierSamples removes one sample per outlier value, respecting
// duplicates, so the sample set mirrors the filtered price pool.
func dropOutlierSamples(samples []stats.Sample, outliers []float64) []stats.Sample {
	if len(outliers) == 0 {
		return samples
	}
	budget := make(map[float64]int, len(outliers))
	for _, v := range outliers {
		budget[v]++
	}
	kept := make([]stats.Sample, 0, len(samples)-len(outliers))
	for _, smp := range samples {
		if budget[smp.Price] > 0 {
			budget[smp.Price]--
			continue
		}
		kept = append(kept, smp)
	}
	return kept
}
