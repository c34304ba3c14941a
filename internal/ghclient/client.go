// Package ghclient provides GitHub API access for synchronization passes.
package ghclient

import (
	"context"
	"net/http"
	"os"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"prwatch/internal/log"
	"prwatch/internal/model"
)

// rateLimitTransport wraps an http.RoundTripper to record GitHub rate
// limit headers from every response.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		globalRateLimitState.Update(remaining, limit, resetAt)
	}

	if remaining >= 0 && remaining <= RateLimitLowWatermark {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	return resp, err
}

// Client wraps the GitHub API client
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// NewClient creates a new GitHub client using a personal access token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, &AuthError{Message: "GitHub token not provided. Set the GITHUB_TOKEN environment variable"}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	tc.Transport = &rateLimitTransport{
		base: tc.Transport,
	}

	client := gh.NewClient(tc)

	return &Client{
		client: client,
		token:  token,
	}, nil
}

// AuthenticatedUser returns the authenticated user's login.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", wrapProviderError(err, "", "get authenticated user")
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, wrapProviderError(err, "", "get rate limits")
	}
	return limits, nil
}

// ListOpenPullRequests fetches one page of up to 100 open PRs for a
// repository, sorted by update time descending. There is no multi-page
// traversal.
func (c *Client) ListOpenPullRequests(ctx context.Context, repo model.RepositoryRef) ([]model.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:     "open",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	prs, _, err := c.client.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, wrapProviderError(err, repo.String(), "list pull requests")
	}

	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPullRequest(pr))
	}

	log.Debug("listed open pull requests", "repo", repo.String(), "count", len(out))
	return out, nil
}

// ListReviews fetches one page of up to 100 reviews for a pull request.
func (c *Client) ListReviews(ctx context.Context, repo model.RepositoryRef, number int) ([]model.ReviewEvent, error) {
	reviews, _, err := c.client.PullRequests.ListReviews(ctx, repo.Owner, repo.Name, number, &gh.ListOptions{
		PerPage: 100,
	})
	if err != nil {
		return nil, wrapProviderError(err, repo.String(), "list reviews")
	}

	out := make([]model.ReviewEvent, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, convertReview(rv))
	}
	return out, nil
}

// convertPullRequest narrows a go-github pull request into the domain
// type, dropping fields the engine does not consume.
func convertPullRequest(pr *gh.PullRequest) model.PullRequest {
	var labels []string
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	return model.PullRequest{
		ID:              pr.GetID(),
		Number:          pr.GetNumber(),
		Title:           pr.GetTitle(),
		Draft:           pr.GetDraft(),
		State:           pr.GetState(),
		Author:          pr.GetUser().GetLogin(),
		AuthorAvatarURL: pr.GetUser().GetAvatarURL(),
		CreatedAt:       pr.GetCreatedAt().Time,
		UpdatedAt:       pr.GetUpdatedAt().Time,
		Labels:          labels,
		HeadRef:         pr.GetHead().GetRef(),
		BaseRef:         pr.GetBase().GetRef(),
		HTMLURL:         pr.GetHTMLURL(),
	}
}

func convertReview(rv *gh.PullRequestReview) model.ReviewEvent {
	event := model.ReviewEvent{
		Reviewer: rv.GetUser().GetLogin(),
		State:    model.ReviewState(rv.GetState()),
	}
	if rv.SubmittedAt != nil {
		submittedAt := rv.GetSubmittedAt().Time
		event.SubmittedAt = &submittedAt
	}
	return event
}
