// Package service orchestrates synchronization passes: concurrent fetch,
// classification, and aggregation of open pull requests.
package service

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"prwatch/internal/log"
	"prwatch/internal/model"
	"prwatch/internal/review"
)

// Fetcher defines the provider operations one synchronization pass needs.
// Implemented by ghclient.Client; faked in tests.
type Fetcher interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	ListOpenPullRequests(ctx context.Context, repo model.RepositoryRef) ([]model.PullRequest, error)
	ListReviews(ctx context.Context, repo model.RepositoryRef, number int) ([]model.ReviewEvent, error)
}

// ProgressFunc is called as per-repository fetches complete.
type ProgressFunc func(completed, total int)

const defaultWorkers = 20

// Service runs synchronization passes against a Fetcher. It holds no
// state between passes; every call to Sync rebuilds the full record set.
type Service struct {
	fetcher    Fetcher
	classifier *review.Classifier
	workers    int
	now        func() time.Time
	onProgress ProgressFunc
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithProgress sets a callback invoked as repository fetches complete.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) {
		s.onProgress = fn
	}
}

// WithWorkers bounds the number of concurrent requests per stage.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service. A nil classifier gets the default stale window.
func New(fetcher Fetcher, classifier *review.Classifier, opts ...Option) *Service {
	if classifier == nil {
		classifier = review.NewClassifier(review.DefaultStaleAfter)
	}
	s := &Service{
		fetcher:    fetcher,
		classifier: classifier,
		workers:    defaultWorkers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs one synchronization pass over the given "owner/name" strings
// and returns the display-ready records sorted by update time descending.
//
// All repository references are validated before any network call; a
// malformed entry fails the whole pass. The viewer is resolved once, then
// every repository's open PRs are fetched concurrently and, per PR, its
// reviews. A review-fetch failure is absorbed (the PR keeps an empty
// review list); a PR-list failure aborts the entire pass.
func (s *Service) Sync(ctx context.Context, repos []string) ([]model.ProcessedPR, error) {
	if len(repos) == 0 {
		return []model.ProcessedPR{}, nil
	}

	refs := make([]model.RepositoryRef, len(repos))
	for i, r := range repos {
		ref, err := model.ParseRepositoryRef(r)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	viewer, err := s.fetcher.AuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("resolved viewer", "login", viewer)

	now := s.now()
	total := len(refs)
	var completed int32
	s.reportProgress(0, total)

	// Each repository writes only its own slot; results are merged after
	// the join so branch completion order cannot affect the output.
	results := make([][]model.ProcessedPR, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, ref := range refs {
		g.Go(func() error {
			prs, err := s.fetcher.ListOpenPullRequests(gctx, ref)
			if err != nil {
				return err
			}

			processed, err := s.processRepo(gctx, ref, prs, viewer, now)
			if err != nil {
				return err
			}
			results[i] = processed

			s.reportProgress(int(atomic.AddInt32(&completed, 1)), total)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.ProcessedPR
	for _, rs := range results {
		out = append(out, rs...)
	}
	if out == nil {
		out = []model.ProcessedPR{}
	}

	// Stable sort keeps the provider's per-repository order for ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAtTimestamp.After(out[j].UpdatedAtTimestamp)
	})

	log.Info("synchronization pass complete", "repos", total, "prs", len(out))
	return out, nil
}

// processRepo fetches reviews for every PR of one repository concurrently
// and normalizes the results. Review-fetch failures are non-fatal: the PR
// is kept with an empty review list, which degrades its classification to
// pending or stagnant only.
func (s *Service) processRepo(ctx context.Context, ref model.RepositoryRef, prs []model.PullRequest, viewer string, now time.Time) ([]model.ProcessedPR, error) {
	processed := make([]model.ProcessedPR, len(prs))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, pr := range prs {
		g.Go(func() error {
			reviews, err := s.fetcher.ListReviews(ctx, ref, pr.Number)
			if err != nil {
				log.Debug("review fetch failed, keeping PR with empty review list",
					"repo", ref.String(), "number", pr.Number, "error", err)
				reviews = nil
			}
			pr.Reviews = reviews
			processed[i] = s.classifier.Normalize(pr, ref, viewer, now)
			return nil
		})
	}

	// Branches never return errors; Wait is only a join.
	_ = g.Wait()

	return processed, nil
}

func (s *Service) reportProgress(completed, total int) {
	if s.onProgress != nil {
		s.onProgress(completed, total)
	}
}
