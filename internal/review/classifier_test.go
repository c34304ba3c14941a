package review

import (
	"testing"
	"time"

	"prwatch/internal/model"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewClassifier(DefaultStaleAfter)

	pr := func(updatedAgo time.Duration, reviews ...model.ReviewEvent) model.PullRequest {
		return model.PullRequest{
			Number:    1,
			UpdatedAt: now.Add(-updatedAgo),
			Reviews:   reviews,
		}
	}
	reviewedAgo := func(state model.ReviewState, ago time.Duration) model.ReviewEvent {
		return model.ReviewEvent{
			Reviewer:    "octocat",
			State:       state,
			SubmittedAt: ts(now.Add(-ago)),
		}
	}

	tests := []struct {
		name string
		pr   model.PullRequest
		want model.Status
	}{
		{
			name: "updated 6 days ago, never reviewed",
			pr:   pr(6 * 24 * time.Hour),
			want: model.StatusStagnant,
		},
		{
			name: "stagnant overrides approval",
			pr:   pr(6*24*time.Hour, reviewedAgo(model.ReviewApproved, 7*24*time.Hour)),
			want: model.StatusStagnant,
		},
		{
			name: "exactly five days is stagnant",
			pr:   pr(5 * 24 * time.Hour),
			want: model.StatusStagnant,
		},
		{
			name: "fresh and never reviewed",
			pr:   pr(2 * time.Hour),
			want: model.StatusPending,
		},
		{
			name: "updated after approval",
			pr:   pr(2*time.Hour, reviewedAgo(model.ReviewApproved, 3*time.Hour)),
			want: model.StatusReReview,
		},
		{
			name: "approved and nothing since",
			pr:   pr(3*24*time.Hour, reviewedAgo(model.ReviewApproved, 3*24*time.Hour+12*time.Hour)),
			want: model.StatusReviewed,
		},
		{
			name: "commented and nothing since",
			pr:   pr(3*24*time.Hour, reviewedAgo(model.ReviewCommented, 3*24*time.Hour+12*time.Hour)),
			want: model.StatusPending,
		},
		{
			name: "changes requested and nothing since",
			pr:   pr(3*24*time.Hour, reviewedAgo(model.ReviewChangesRequested, 3*24*time.Hour+12*time.Hour)),
			want: model.StatusPending,
		},
		{
			name: "only a dismissed review counts as never reviewed",
			pr:   pr(2*time.Hour, reviewedAgo(model.ReviewDismissed, 3*time.Hour)),
			want: model.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := LastReview(tt.pr.Reviews, "octocat")
			if got := c.Classify(tt.pr, last, now); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyDismissedReviewHasNoEffect(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewClassifier(DefaultStaleAfter)

	approved := model.ReviewEvent{
		Reviewer:    "octocat",
		State:       model.ReviewApproved,
		SubmittedAt: ts(now.Add(-36 * time.Hour)),
	}
	dismissed := model.ReviewEvent{
		Reviewer:    "octocat",
		State:       model.ReviewDismissed,
		SubmittedAt: ts(now.Add(-12 * time.Hour)),
	}

	a := model.PullRequest{UpdatedAt: now.Add(-48 * time.Hour), Reviews: []model.ReviewEvent{approved}}
	b := model.PullRequest{UpdatedAt: now.Add(-48 * time.Hour), Reviews: []model.ReviewEvent{approved, dismissed}}

	sa := c.Classify(a, LastReview(a.Reviews, "octocat"), now)
	sb := c.Classify(b, LastReview(b.Reviews, "octocat"), now)
	if sa != sb {
		t.Errorf("extra dismissed review changed classification: %s vs %s", sa, sb)
	}
	if sa != model.StatusReviewed {
		t.Errorf("Classify() = %s, want %s", sa, model.StatusReviewed)
	}
}

func TestClassifyCustomStaleWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewClassifier(2 * 24 * time.Hour)

	pr := model.PullRequest{UpdatedAt: now.Add(-3 * 24 * time.Hour)}
	if got := c.Classify(pr, nil, now); got != model.StatusStagnant {
		t.Errorf("Classify() = %s, want %s", got, model.StatusStagnant)
	}
}

func TestNewClassifierDefaultsStaleWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	c := NewClassifier(0)

	pr := model.PullRequest{UpdatedAt: now.Add(-4 * 24 * time.Hour)}
	if got := c.Classify(pr, nil, now); got != model.StatusPending {
		t.Errorf("Classify() = %s, want %s (default window is 5 days)", got, model.StatusPending)
	}
}
