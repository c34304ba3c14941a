package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"prwatch/internal/ghclient"
	"prwatch/internal/model"
	"prwatch/internal/review"
)

// fakeFetcher implements Fetcher against canned data and counts calls.
type fakeFetcher struct {
	mu sync.Mutex

	viewer    string
	viewerErr error

	prs       map[string][]model.PullRequest
	prErr     map[string]error
	reviews   map[string][]model.ReviewEvent
	reviewErr map[string]error

	viewerCalls int
	listCalls   int
	reviewCalls int
}

func (f *fakeFetcher) AuthenticatedUser(_ context.Context) (string, error) {
	f.mu.Lock()
	f.viewerCalls++
	f.mu.Unlock()
	if f.viewerErr != nil {
		return "", f.viewerErr
	}
	return f.viewer, nil
}

func (f *fakeFetcher) ListOpenPullRequests(_ context.Context, repo model.RepositoryRef) ([]model.PullRequest, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if err := f.prErr[repo.String()]; err != nil {
		return nil, err
	}
	return f.prs[repo.String()], nil
}

func (f *fakeFetcher) ListReviews(_ context.Context, repo model.RepositoryRef, number int) ([]model.ReviewEvent, error) {
	f.mu.Lock()
	f.reviewCalls++
	f.mu.Unlock()
	key := fmt.Sprintf("%s#%d", repo.String(), number)
	if err := f.reviewErr[key]; err != nil {
		return nil, err
	}
	return f.reviews[key], nil
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewerCalls + f.listCalls + f.reviewCalls
}

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(f *fakeFetcher, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(f, review.NewClassifier(review.DefaultStaleAfter), opts...)
}

func makePR(number int, updatedAgo time.Duration) model.PullRequest {
	return model.PullRequest{
		ID:        int64(number),
		Number:    number,
		Title:     fmt.Sprintf("PR %d", number),
		Author:    "hubot",
		CreatedAt: testNow.Add(-updatedAgo - time.Hour),
		UpdatedAt: testNow.Add(-updatedAgo),
	}
}

func TestSyncEmptyRepoListIssuesNoRequests(t *testing.T) {
	f := &fakeFetcher{viewer: "octocat"}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Sync() = %v, want empty slice", got)
	}
	if f.totalCalls() != 0 {
		t.Errorf("issued %d requests, want 0", f.totalCalls())
	}
}

func TestSyncMalformedRepoFailsBeforeAnyRequest(t *testing.T) {
	f := &fakeFetcher{viewer: "octocat"}
	svc := newTestService(f)

	_, err := svc.Sync(context.Background(), []string{"acme/widgets", "not-a-repo"})
	var malformed *model.MalformedRepoError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRepoError, got %T: %v", err, err)
	}
	if f.totalCalls() != 0 {
		t.Errorf("issued %d requests, want 0", f.totalCalls())
	}
}

func TestSyncViewerFailureAbortsPass(t *testing.T) {
	authErr := &ghclient.AuthError{Message: "credential rejected by provider"}
	f := &fakeFetcher{viewerErr: authErr}
	svc := newTestService(f)

	_, err := svc.Sync(context.Background(), []string{"acme/widgets"})
	var got *ghclient.AuthError
	if !errors.As(err, &got) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if f.listCalls != 0 {
		t.Errorf("issued %d list calls after viewer failure, want 0", f.listCalls)
	}
}

func TestSyncRepoListFailureIsFatal(t *testing.T) {
	provErr := &ghclient.ProviderError{
		Repo:               "acme/broken",
		Operation:          "list pull requests",
		StatusCode:         500,
		RateLimitRemaining: -1,
	}
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {makePR(1, time.Hour)},
		},
		prErr: map[string]error{"acme/broken": provErr},
	}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), []string{"acme/widgets", "acme/broken"})
	var pe *ghclient.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if pe.Repo != "acme/broken" {
		t.Errorf("error repo = %q, want acme/broken", pe.Repo)
	}
	if got != nil {
		t.Errorf("expected no partial results, got %d records", len(got))
	}
}

func TestSyncReviewFailureIsNonFatal(t *testing.T) {
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {makePR(1, time.Hour)},
		},
		reviewErr: map[string]error{
			"acme/widgets#1": &ghclient.ProviderError{StatusCode: 502, RateLimitRemaining: -1},
		},
	}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), []string{"acme/widgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (PR kept despite review failure)", len(got))
	}
	if got[0].LastReviewedByViewer != nil {
		t.Errorf("LastReviewedByViewer = %v, want nil", got[0].LastReviewedByViewer)
	}
	if got[0].Status != model.StatusPending {
		t.Errorf("Status = %s, want %s (empty review list degrades to pending)", got[0].Status, model.StatusPending)
	}
}

func TestSyncClassifiesAcrossRepos(t *testing.T) {
	approvedAt := testNow.Add(-4 * 24 * time.Hour)
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {
				makePR(1, 2*time.Hour),    // reviewed 3h ago -> re-review
				makePR(2, 6*24*time.Hour), // stagnant
			},
			"acme/gadgets": {
				makePR(7, 3*24*time.Hour), // approved after update -> reviewed
			},
		},
		reviews: map[string][]model.ReviewEvent{
			"acme/widgets#1": {
				{Reviewer: "octocat", State: model.ReviewApproved, SubmittedAt: timePtr(testNow.Add(-3 * time.Hour))},
			},
			"acme/gadgets#7": {
				{Reviewer: "octocat", State: model.ReviewApproved, SubmittedAt: timePtr(approvedAt)},
			},
		},
	}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), []string{"acme/widgets", "acme/gadgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	byNumber := map[int]model.ProcessedPR{}
	for _, pr := range got {
		byNumber[pr.Number] = pr
	}
	if byNumber[1].Status != model.StatusReReview {
		t.Errorf("#1 status = %s, want %s", byNumber[1].Status, model.StatusReReview)
	}
	if byNumber[2].Status != model.StatusStagnant {
		t.Errorf("#2 status = %s, want %s", byNumber[2].Status, model.StatusStagnant)
	}
	if byNumber[7].Status != model.StatusReviewed {
		t.Errorf("#7 status = %s, want %s", byNumber[7].Status, model.StatusReviewed)
	}
	if f.viewerCalls != 1 {
		t.Errorf("viewer resolved %d times, want once per pass", f.viewerCalls)
	}
}

func TestSyncSortsByUpdateTimeDescending(t *testing.T) {
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {makePR(1, 3*time.Hour), makePR(2, time.Hour)},
			"acme/gadgets": {makePR(3, 2*time.Hour)},
		},
	}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), []string{"acme/widgets", "acme/gadgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(got); i++ {
		if got[i].UpdatedAtTimestamp.After(got[i-1].UpdatedAtTimestamp) {
			t.Errorf("output not sorted descending at index %d", i)
		}
	}
	if got[0].Number != 2 || got[1].Number != 3 || got[2].Number != 1 {
		t.Errorf("order = %d,%d,%d; want 2,3,1", got[0].Number, got[1].Number, got[2].Number)
	}
}

func TestSyncSortIsStableForTies(t *testing.T) {
	same := 2 * time.Hour
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {makePR(1, same), makePR(2, same), makePR(3, same)},
		},
	}
	svc := newTestService(f)

	got, err := svc.Sync(context.Background(), []string{"acme/widgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Number != 1 || got[1].Number != 2 || got[2].Number != 3 {
		t.Errorf("tie order = %d,%d,%d; want provider order 1,2,3", got[0].Number, got[1].Number, got[2].Number)
	}
}

func TestSyncReportsProgress(t *testing.T) {
	f := &fakeFetcher{
		viewer: "octocat",
		prs: map[string][]model.PullRequest{
			"acme/widgets": {},
			"acme/gadgets": {},
		},
	}

	var mu sync.Mutex
	var calls []int
	svc := newTestService(f, WithProgress(func(completed, total int) {
		mu.Lock()
		calls = append(calls, completed)
		mu.Unlock()
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	}))

	if _, err := svc.Sync(context.Background(), []string{"acme/widgets", "acme/gadgets"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 3 { // initial 0 plus one per repo
		t.Errorf("progress calls = %v, want 3 updates", calls)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
