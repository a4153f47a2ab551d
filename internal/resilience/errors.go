package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// BlockedError marks an attempt rejected by anti-bot countermeasures,
// detected either from the transport error or from page content.
type BlockedError struct {
	Err    error
	Phrase string
}

func (e *BlockedError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("blocked: matched %q", e.Phrase)
}

func (e *BlockedError) Unwrap() error { return e.Err }

// NewBlockedError wraps an error as a blocking detection, recording the
// phrase that matched.
func NewBlockedError(err error, phrase string) *BlockedError {
	return &BlockedError{Err: err, Phrase: phrase}
}

// ShortResponseError marks a response body under the minimum plausible size
// for a real results page; such bodies are rejected without parsing.
type ShortResponseError struct {
	Size int
	Min  int
}

func (e *ShortResponseError) Error() string {
	return fmt.Sprintf("response body too short: %d bytes (minimum %d)", e.Size, e.Min)
}

// IsBlocked reports whether any error in the chain is a BlockedError.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// IsTimeout reports whether the error chain indicates a timed-out attempt.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "timeout")
}

// IsTransient reports whether an attempt failure is worth retrying:
// network-level failures, timeouts, and connection resets all qualify.
// Blocked attempts are retried too, with extra backoff applied by the
// caller.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if IsBlocked(err) || IsTimeout(err) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
