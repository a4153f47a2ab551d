// Package resilience provides retry-delay arithmetic and the error taxonomy
// shared by the scraper client. Delay computation is pure so backoff
// behavior is unit-testable without sleeping.
package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// Policy controls backoff behavior between scrape attempts.
type Policy struct {
	// BaseDelay is the delay before the first retry. Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps the exponential term before multipliers. Default: 30s.
	MaxDelay time.Duration

	// JitterLow and JitterHigh bound the random jitter factor applied to
	// every delay. Defaults: 0.85 and 1.15.
	JitterLow  float64
	JitterHigh float64

	// BlockedScale grows the delay per blocked attempt seen so far:
	// the delay is multiplied by (1 + BlockedScale*blockedCount).
	// Default: 0.5.
	BlockedScale float64

	// TimeoutMultiplier scales the delay after a timeout failure, since
	// timeouts usually indicate transient overload rather than active
	// blocking. Default: 3.
	TimeoutMultiplier float64

	// rand overrides the jitter source in tests.
	rand func() float64
}

// DefaultPolicy returns the backoff policy used by the scraper client.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		JitterLow:         0.85,
		JitterHigh:        1.15,
		BlockedScale:      0.5,
		TimeoutMultiplier: 3,
	}
}

// Delay computes the wait before retrying attempt (zero-based). blockedCount
// is the number of blocked attempts observed so far in this fetch; isTimeout
// marks the previous failure as a timeout.
func (p Policy) Delay(attempt, blockedCount int, isTimeout bool) time.Duration {
	p = p.withDefaults()

	if attempt < 0 {
		attempt = 0
	}

	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}

	d *= p.jitter()

	if isTimeout {
		d *= p.TimeoutMultiplier
	} else if blockedCount > 0 {
		d *= 1 + p.BlockedScale*float64(blockedCount)
	}

	return time.Duration(d)
}

func (p Policy) jitter() float64 {
	src := p.rand
	if src == nil {
		src = rand.Float64
	}
	return p.JitterLow + src()*(p.JitterHigh-p.JitterLow)
}

func (p Policy) withDefaults() Policy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.JitterLow <= 0 {
		p.JitterLow = 0.85
	}
	if p.JitterHigh < p.JitterLow {
		p.JitterHigh = p.JitterLow + 0.3
	}
	if p.BlockedScale <= 0 {
		p.BlockedScale = 0.5
	}
	if p.TimeoutMultiplier <= 0 {
		p.TimeoutMultiplier = 3
	}
	return p
}
