// Package review derives the viewer's review obligation for pull requests.
package review

import "prwatch/internal/model"

// LastReview resolves the viewer's most recent qualifying review from a
// PR's review events. A qualifying review is not DISMISSED, has a non-nil
// submission timestamp, and belongs to the viewer. Returns nil if the
// viewer has never left a qualifying review.
//
// When two qualifying reviews share a submission timestamp the first one
// in input order wins, which keeps the result deterministic for a given
// provider response.
func LastReview(reviews []model.ReviewEvent, viewer string) *model.ReviewEvent {
	var last *model.ReviewEvent
	for i := range reviews {
		r := &reviews[i]
		if r.State == model.ReviewDismissed {
			continue
		}
		if r.SubmittedAt == nil {
			continue
		}
		if r.Reviewer != viewer {
			continue
		}
		if last == nil || r.SubmittedAt.After(*last.SubmittedAt) {
			last = r
		}
	}
	return last
}
