package scrape

import (
	"sync"
	"time"
)

// MetricsSnapshot is a point-in-time view of the scraper's counters.
type MetricsSnapshot struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	BlockedRequests    int64         `json:"blocked_requests"`
	AvgResponseTime    time.Duration `json:"avg_response_time"`
	RateLimitRemaining float64       `json:"rate_limit_remaining"`
}

// metrics accumulates counters across every terminal attempt made by one
// scraper instance. Guarded by a mutex: concurrent valuations share the
// instance.
type metrics struct {
	mu      sync.Mutex
	total   int64
	success int64
	failed  int64
	blocked int64
	avgTime time.Duration
}

// record updates the counters for one terminal attempt. The rolling average
// response time folds in the new duration.
func (m *metrics) record(outcome attemptClass, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	switch outcome {
	case classSuccess:
		m.success++
	case classBlocked:
		m.blocked++
	default:
		m.failed++
	}

	m.avgTime += (d - m.avgTime) / time.Duration(m.total)
}

func (m *metrics) snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		TotalRequests:      m.total,
		SuccessfulRequests: m.success,
		FailedRequests:     m.failed,
		BlockedRequests:    m.blocked,
		AvgResponseTime:    m.avgTime,
	}
}

func (m *metrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total, m.success, m.failed, m.blocked = 0, 0, 0, 0
	m.avgTime = 0
}

// attemptClass classifies a terminal attempt for metrics purposes.
type attemptClass int

const (
	classSuccess attemptClass = iota
	classFailure
	classBlocked
)
