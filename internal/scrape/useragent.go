package scrape

import "sync/atomic"

// userAgents is the rotation pool of realistic browser signatures. One is
// used per attempt, round-robin, so retries do not repeat a fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
}

// uaRotator hands out user agents round-robin. Safe for concurrent use.
type uaRotator struct {
	pool []string
	next atomic.Uint64
}

func newUARotator(pool []string) *uaRotator {
	if len(pool) == 0 {
		pool = userAgents
	}
	return &uaRotator{pool: pool}
}

// Next returns the next user agent in rotation.
func (r *uaRotator) Next() string {
	n := r.next.Add(1) - 1
	return r.pool[n%uint64(len(r.pool))]
}
