package model

import "time"

// ReviewState represents the state of a submitted pull request review.
// See: https://docs.github.com/en/rest/pulls/reviews
type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewDismissed        ReviewState = "DISMISSED"
)

// ReviewEvent is a single review left on a pull request. SubmittedAt is nil
// for reviews that were started but never submitted.
type ReviewEvent struct {
	Reviewer    string      `json:"reviewer"`
	State       ReviewState `json:"state"`
	SubmittedAt *time.Time  `json:"submittedAt,omitempty"`
}

// PullRequest is the provider-supplied shape of an open pull request,
// narrowed from the GitHub API representation at the fetch boundary.
type PullRequest struct {
	ID              int64     `json:"id"`
	Number          int       `json:"number"`
	Title           string    `json:"title"`
	Draft           bool      `json:"draft"`
	State           string    `json:"state"`
	Author          string    `json:"author"`
	AuthorAvatarURL string    `json:"authorAvatarUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Labels          []string  `json:"labels,omitempty"`
	HeadRef         string    `json:"headRef,omitempty"`
	BaseRef         string    `json:"baseRef,omitempty"`
	HTMLURL         string    `json:"htmlUrl"`

	// Reviews is populated by a separate per-PR request and stays empty
	// when that request fails.
	Reviews []ReviewEvent `json:"reviews,omitempty"`
}

// Status classifies a pull request by the viewer's reviewing obligation.
// It is derived per synchronization pass and never persisted.
type Status string

const (
	// StatusPending means the viewer has never left a qualifying review,
	// or has reviewed without approving and nothing changed since.
	StatusPending Status = "pending"

	// StatusReReview means the PR was updated after the viewer's last
	// qualifying review.
	StatusReReview Status = "re-review"

	// StatusStagnant means the PR has had no update activity for the
	// stale threshold, overriding all review-based classification.
	StatusStagnant Status = "stagnant"

	// StatusReviewed means the viewer's last qualifying review approved
	// the PR and no newer activity exists.
	StatusReviewed Status = "reviewed"
)

// AllStatuses contains every valid status value. This is the single source
// of truth for flag validation.
var AllStatuses = []Status{
	StatusPending,
	StatusReReview,
	StatusStagnant,
	StatusReviewed,
}

// ProcessedPR is the display-ready record produced for each open pull
// request. Records are rebuilt fully on every synchronization pass.
type ProcessedPR struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Repository      RepositoryRef `json:"repository"`
	Number          int           `json:"number"`
	Author          string        `json:"author"`
	AuthorAvatarURL string        `json:"authorAvatarUrl,omitempty"`
	Status          Status        `json:"status"`
	Draft           bool          `json:"draft"`

	// Relative-age labels plus the raw timestamps they were derived from.
	UpdatedAt          string    `json:"updatedAt"`
	UpdatedAtTimestamp time.Time `json:"updatedAtTimestamp"`
	CreatedAt          string    `json:"createdAt"`
	CreatedAtTimestamp time.Time `json:"createdAtTimestamp"`

	Labels  []string `json:"labels,omitempty"`
	HTMLURL string   `json:"htmlUrl"`

	// LastReviewedByViewer is the submission time of the viewer's most
	// recent qualifying review, independent of the derived status.
	LastReviewedByViewer *time.Time `json:"lastReviewedByViewer,omitempty"`
}
