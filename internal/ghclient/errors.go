package ghclient

import (
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v57/github"
)

// AuthError indicates a missing, empty, or rejected credential. It is
// fatal to a synchronization pass.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProviderError indicates a non-2xx response from a call that is fatal to
// the pass (viewer fetch, per-repository PR list). It carries enough
// context for the caller to render an actionable message.
type ProviderError struct {
	Repo       string // "owner/name", empty for calls not tied to a repo
	Operation  string
	StatusCode int
	Message    string

	// RateLimitRemaining is -1 when the response carried no rate-limit
	// headers.
	RateLimitRemaining int
	RateLimitReset     time.Time

	Err error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("github: %s", e.Operation)
	if e.Repo != "" {
		msg += " for " + e.Repo
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RateLimitRemaining >= 0 {
		msg += fmt.Sprintf(" (rate limit remaining: %d)", e.RateLimitRemaining)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// wrapProviderError converts a go-github error into the error taxonomy:
// 401 responses become AuthError, everything else becomes a ProviderError
// carrying the repo identity, status code, and rate-limit context when the
// response headers provide it.
func wrapProviderError(err error, repo, operation string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &ProviderError{
			Repo:               repo,
			Operation:          operation,
			StatusCode:         statusCodeOf(rateErr.Response),
			Message:            rateErr.Message,
			RateLimitRemaining: rateErr.Rate.Remaining,
			RateLimitReset:     rateErr.Rate.Reset.Time,
			Err:                err,
		}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		status := statusCodeOf(respErr.Response)
		if status == 401 {
			return &AuthError{Message: "credential rejected by provider", Err: err}
		}
		remaining, _, resetAt := parseRateLimitHeaders(respErr.Response)
		return &ProviderError{
			Repo:               repo,
			Operation:          operation,
			StatusCode:         status,
			Message:            respErr.Message,
			RateLimitRemaining: remaining,
			RateLimitReset:     resetAt,
			Err:                err,
		}
	}

	// Transport-level failure with no HTTP response.
	return &ProviderError{
		Repo:               repo,
		Operation:          operation,
		Message:            err.Error(),
		RateLimitRemaining: -1,
		Err:                err,
	}
}
