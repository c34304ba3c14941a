package ghclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitLowWatermark is the remaining-quota threshold below which a
// debug warning is logged.
const RateLimitLowWatermark = 100

// RateLimitState tracks the most recently observed rate limit headers for
// GitHub API requests.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
	observed  bool
}

var globalRateLimitState = &RateLimitState{remaining: -1, limit: -1}

// Update updates the rate limit state from response headers.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.observed = true
}

// GetStatus returns the current rate limit status. observed is false until
// at least one response carrying rate-limit headers has been seen.
func (s *RateLimitState) GetStatus() (remaining, limit int, resetAt time.Time, observed bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.observed
}

// GetRateLimitStatus returns the global rate limit status.
func GetRateLimitStatus() (remaining, limit int, resetAt time.Time, observed bool) {
	return globalRateLimitState.GetStatus()
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// remaining and limit are -1 when the headers are absent.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1
	if resp == nil {
		return remaining, limit, resetAt
	}

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// statusCodeOf returns the status code of a response, or 0 when nil.
func statusCodeOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
