package review

import (
	"time"

	"prwatch/internal/format"
	"prwatch/internal/model"
)

// DefaultStaleAfter is the default inactivity window after which a PR is
// classified stagnant regardless of review history.
const DefaultStaleAfter = 5 * 24 * time.Hour

// Classifier derives a review status for pull requests relative to a
// single viewer.
type Classifier struct {
	staleAfter time.Duration
}

// NewClassifier creates a Classifier. A non-positive staleAfter falls back
// to DefaultStaleAfter.
func NewClassifier(staleAfter time.Duration) *Classifier {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Classifier{staleAfter: staleAfter}
}

// Classify computes the status of a PR for the viewer whose last
// qualifying review is last (nil when the viewer never reviewed).
// Rules are evaluated in fixed priority order, first match wins:
//
//  1. stagnant: no update activity for the stale window, overriding
//     everything including an existing approval
//  2. pending: viewer has no qualifying review
//  3. re-review: PR updated strictly after the viewer's last review
//  4. reviewed: last review approved and nothing changed since
//  5. pending: reviewed without approving, nothing changed since
func (c *Classifier) Classify(pr model.PullRequest, last *model.ReviewEvent, now time.Time) model.Status {
	if now.Sub(pr.UpdatedAt) >= c.staleAfter {
		return model.StatusStagnant
	}
	if last == nil {
		return model.StatusPending
	}
	if pr.UpdatedAt.After(*last.SubmittedAt) {
		return model.StatusReReview
	}
	if last.State == model.ReviewApproved {
		return model.StatusReviewed
	}
	return model.StatusPending
}

// Normalize maps a raw pull request into the display-ready ProcessedPR,
// computing status, relative-age labels for both timestamps, and the
// viewer's last-review time. The last-review time is extracted even when
// the status is pending or stagnant so consumers can show it regardless.
func (c *Classifier) Normalize(pr model.PullRequest, repo model.RepositoryRef, viewer string, now time.Time) model.ProcessedPR {
	last := LastReview(pr.Reviews, viewer)

	var lastReviewedAt *time.Time
	if last != nil {
		lastReviewedAt = last.SubmittedAt
	}

	return model.ProcessedPR{
		ID:                   pr.ID,
		Title:                pr.Title,
		Repository:           repo,
		Number:               pr.Number,
		Author:               pr.Author,
		AuthorAvatarURL:      pr.AuthorAvatarURL,
		Status:               c.Classify(pr, last, now),
		Draft:                pr.Draft,
		UpdatedAt:            format.FormatAge(now.Sub(pr.UpdatedAt)),
		UpdatedAtTimestamp:   pr.UpdatedAt,
		CreatedAt:            format.FormatAge(now.Sub(pr.CreatedAt)),
		CreatedAtTimestamp:   pr.CreatedAt,
		Labels:               pr.Labels,
		HTMLURL:              pr.HTMLURL,
		LastReviewedByViewer: lastReviewedAt,
	}
}
