// Package scrape implements the resilient scraper client: proxied fetches
// with retries, exponential backoff, a shared rate limiter, user-agent
// rotation, and anti-bot blocking detection. Scrape never returns an error;
// every failure mode is represented in the returned ScrapeResult.
package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/marketval/internal/model"
	"github.com/sells-group/marketval/internal/resilience"
	"github.com/sells-group/marketval/pkg/scrapeproxy"
)

// Options configures a Scraper.
type Options struct {
	// MaxRetries is the total attempts per logical fetch. Default: 3.
	MaxRetries int

	// Timeout bounds each attempt. Default: 20s.
	Timeout time.Duration

	// RequestsPerSecond spaces requests across all callers sharing this
	// scraper: the minimum inter-request interval is 1/RequestsPerSecond.
	// Default: 1.
	RequestsPerSecond float64

	// MinBodyBytes rejects shorter bodies as suspect block/error pages.
	// Default: 1000.
	MinBodyBytes int

	// Backoff is the retry-delay policy.
	Backoff resilience.Policy

	// Phrases are the blocking-indicator lists.
	Phrases Phrases

	// UserAgents overrides the rotation pool (tests).
	UserAgents []string

	// Proxy fetch parameters.
	Render      bool
	CountryCode string
	Premium     bool
	DeviceType  string
	KeepHeaders bool
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 1
	}
	if o.MinBodyBytes <= 0 {
		o.MinBodyBytes = 1000
	}
	if len(o.Phrases.Errors) == 0 && len(o.Phrases.Content) == 0 {
		o.Phrases = DefaultPhrases()
	}
	return o
}

// Scraper fetches pages through the scraping proxy. One instance owns the
// rate limiter and metrics shared by all of its callers.
type Scraper struct {
	proxy   scrapeproxy.Client
	opts    Options
	limiter *rate.Limiter
	ua      *uaRotator
	metrics *metrics

	// sleep is the backoff suspension, injectable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScraper creates a Scraper over the given proxy client.
func NewScraper(proxy scrapeproxy.Client, opts Options) *Scraper {
	opts = opts.withDefaults()
	return &Scraper{
		proxy:   proxy,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		ua:      newUARotator(opts.UserAgents),
		metrics: &metrics{},
		sleep:   sleepCtx,
	}
}

// Scrape performs one logical fetch of targetURL, retrying transient and
// blocked attempts with backoff. The returned result is always non-nil.
func (s *Scraper) Scrape(ctx context.Context, targetURL string) *model.ScrapeResult {
	start := time.Now()
	result := &model.ScrapeResult{
		URL:       targetURL,
		Timestamp: start,
	}

	blockedCount := 0
	lastErr := ""
	lastStatus := 0
	lastTimeout := false

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.opts.Backoff.Delay(attempt-1, blockedCount, lastTimeout)
			zap.L().Debug("scrape: backing off before retry",
				zap.String("url", targetURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Int("blocked_count", blockedCount),
			)
			if err := s.sleep(ctx, delay); err != nil {
				lastErr = err.Error()
				break
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			lastErr = err.Error()
			break
		}

		attemptStart := time.Now()
		body, status, err := s.attempt(ctx, targetURL)
		duration := time.Since(attemptStart)
		result.Attempts = attempt + 1

		record := model.ScrapeAttempt{
			URL:        targetURL,
			Attempt:    attempt + 1,
			Outcome:    model.AttemptSuccess,
			StatusCode: status,
			Duration:   duration,
			Timestamp:  attemptStart,
		}

		if err == nil {
			result.AttemptLog = append(result.AttemptLog, record)
			s.metrics.record(classSuccess, duration)

			result.Success = true
			result.HTML = body
			result.StatusCode = status
			result.Duration = time.Since(start)
			return result
		}

		lastErr = err.Error()
		lastStatus = status
		lastTimeout = resilience.IsTimeout(err)

		if resilience.IsBlocked(err) {
			blockedCount++
			record.Outcome = model.AttemptBlocked
			s.metrics.record(classBlocked, duration)
		} else {
			record.Outcome = model.AttemptFailure
			s.metrics.record(classFailure, duration)
		}
		result.AttemptLog = append(result.AttemptLog, record)

		zap.L().Warn("scrape: attempt failed",
			zap.String("url", targetURL),
			zap.Int("attempt", attempt+1),
			zap.Int("status", status),
			zap.Bool("blocked", resilience.IsBlocked(err)),
			zap.Bool("timeout", lastTimeout),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	result.Success = false
	result.Error = lastErr
	result.StatusCode = lastStatus
	result.Blocked = blockedCount > 0
	result.Duration = time.Since(start)
	return result
}

// attempt performs a single proxied fetch and classifies the outcome.
func (s *Scraper) attempt(ctx context.Context, targetURL string) (string, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	resp, err := s.proxy.Fetch(attemptCtx, scrapeproxy.Request{
		URL:         targetURL,
		Render:      s.opts.Render,
		CountryCode: s.opts.CountryCode,
		Premium:     s.opts.Premium,
		SessionID:   uuid.NewString(),
		UserAgent:   s.ua.Next(),
		KeepHeaders: s.opts.KeepHeaders,
		DeviceType:  s.opts.DeviceType,
	})
	if err != nil {
		status := 0
		if apiErr, ok := asAPIError(err); ok {
			status = apiErr.StatusCode
		}
		if phrase, ok := s.opts.Phrases.MatchError(err.Error()); ok {
			return "", status, resilience.NewBlockedError(err, phrase)
		}
		return "", status, err
	}

	if len(resp.Body) < s.opts.MinBodyBytes {
		return "", resp.StatusCode, &resilience.ShortResponseError{
			Size: len(resp.Body),
			Min:  s.opts.MinBodyBytes,
		}
	}

	if phrase, ok := s.opts.Phrases.MatchContent(resp.Body); ok {
		return "", resp.StatusCode, resilience.NewBlockedError(nil, phrase)
	}

	return resp.Body, resp.StatusCode, nil
}

// Metrics returns a snapshot of the cumulative counters, including the rate
// limiter's remaining token budget.
func (s *Scraper) Metrics() MetricsSnapshot {
	snap := s.metrics.snapshot()
	snap.RateLimitRemaining = s.limiter.Tokens()
	return snap
}

// ResetMetrics zeroes the cumulative counters.
func (s *Scraper) ResetMetrics() {
	s.metrics.reset()
}

func asAPIError(err error) (*scrapeproxy.APIError, bool) {
	var apiErr *scrapeproxy.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
