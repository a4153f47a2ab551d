package model

import "time"

// AttemptOutcome classifies how a single scrape attempt ended.
type AttemptOutcome string

const (
	AttemptSuccess AttemptOutcome = "success"
	AttemptFailure AttemptOutcome = "failure"
	AttemptBlocked AttemptOutcome = "blocked"
)

// ScrapeAttempt records one attempt within a logical fetch. Attempts are
// append-only: once recorded they are never rewritten.
type ScrapeAttempt struct {
	URL        string         `json:"url"`
	Attempt    int            `json:"attempt"`
	Outcome    AttemptOutcome `json:"outcome"`
	StatusCode int            `json:"status_code"`
	Duration   time.Duration  `json:"duration"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ScrapeResult is the terminal output of one logical fetch, which may span
// multiple attempts. All failure modes are represented here rather than as
// returned errors.
type ScrapeResult struct {
	Success    bool            `json:"success"`
	HTML       string          `json:"html,omitempty"`
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error,omitempty"`
	Blocked    bool            `json:"blocked"`
	Attempts   int             `json:"attempts"`
	Duration   time.Duration   `json:"duration"`
	Timestamp  time.Time       `json:"timestamp"`
	URL        string          `json:"url"`
	AttemptLog []ScrapeAttempt `json:"attempt_log,omitempty"`
}
