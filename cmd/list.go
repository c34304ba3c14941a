package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"prwatch/config"
	"prwatch/internal/duration"
	"prwatch/internal/ghclient"
	"prwatch/internal/log"
	"prwatch/internal/model"
	"prwatch/internal/output"
	"prwatch/internal/review"
	"prwatch/internal/service"
	"prwatch/internal/tui"
)

// listRuntime bundles TUI-related state that's threaded through the list command.
type listRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
func (rt *listRuntime) startTUI() {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events)
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *listRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	rt.events = nil
	if rt.tuiDone != nil {
		<-rt.tuiDone
	}
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *listRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// NewCmdList creates the list command.
func NewCmdList(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open PRs by review status (same as root prwatch)",
		Long: `Fetches open pull requests across your watched repositories,
correlates them with your review history, and displays each PR's
review status sorted by most recent activity.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	addListFlags(cmd, opts)
	return cmd
}

// addListFlags adds the list-specific flags to a command.
func addListFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringArrayVarP(&opts.Repos, "repo", "r", nil, "Repository to watch as owner/name (repeatable, overrides config)")
	cmd.Flags().StringVar(&opts.Stale, "stale", "", "Inactivity window before a PR is stagnant (e.g., 12h, 5d, 1w)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only show PRs with this status (pending, re-review, stagnant, reviewed)")
	cmd.Flags().BoolVar(&opts.IncludeDrafts, "include-drafts", false, "Include draft PRs even when the config excludes them")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Maximum concurrent API requests per stage")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
}

func runList(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	useTUI := shouldUseTUI(opts)

	// Suppress logs during TUI to avoid interleaving with the display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos := opts.Repos
	if len(repos) == 0 {
		repos = cfg.Repos
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories configured. Add repos to your config file or pass --repo owner/name")
	}

	staleAfter, err := cfg.StaleAfter()
	if err != nil {
		return err
	}
	if opts.Stale != "" {
		staleAfter, err = duration.Parse(opts.Stale)
		if err != nil {
			return fmt.Errorf("invalid --stale value: %w", err)
		}
	}

	var statusFilter model.Status
	if opts.Status != "" {
		statusFilter, err = parseStatus(opts.Status)
		if err != nil {
			return err
		}
	}

	rt := &listRuntime{useTUI: useTUI}
	rt.startTUI()
	defer rt.close()

	client, err := ghclient.NewClient(ctx, cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	rt.sendEvent(tui.TaskAuth, tui.StatusRunning)
	viewer, err := client.AuthenticatedUser(ctx)
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		return err
	}
	rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(viewer))

	prs, err := syncRepos(ctx, client, repos, staleAfter, opts.Workers, rt)
	if err != nil {
		rt.sendEvent(tui.TaskSync, tui.StatusError, tui.WithError(err))
		return err
	}

	rt.sendEvent(tui.TaskProcess, tui.StatusRunning)
	prs = applyFilters(prs, opts, cfg, statusFilter)
	rt.sendEvent(tui.TaskProcess, tui.StatusComplete, tui.WithCount(len(prs)))

	rt.close()
	return renderOutput(prs, opts, cfg)
}

// syncRepos runs one synchronization pass with TUI progress reporting.
func syncRepos(ctx context.Context, client *ghclient.Client, repos []string, staleAfter time.Duration, workers int, rt *listRuntime) ([]model.ProcessedPR, error) {
	rt.sendEvent(tui.TaskSync, tui.StatusRunning)

	svcOpts := []service.Option{
		service.WithProgress(func(completed, total int) {
			if total == 0 {
				return
			}
			rt.sendEvent(tui.TaskSync, tui.StatusRunning,
				tui.WithProgress(float64(completed)/float64(total)),
				tui.WithMessage(fmt.Sprintf("%d/%d", completed, total)))
		}),
	}
	if workers > 0 {
		svcOpts = append(svcOpts, service.WithWorkers(workers))
	}

	svc := service.New(client, review.NewClassifier(staleAfter), svcOpts...)
	prs, err := svc.Sync(ctx, repos)
	if err != nil {
		return nil, err
	}

	rt.sendEvent(tui.TaskSync, tui.StatusComplete, tui.WithCount(len(prs)))
	return prs, nil
}

// parseStatus validates a --status value against the known statuses.
func parseStatus(s string) (model.Status, error) {
	for _, status := range model.AllStatuses {
		if model.Status(s) == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of pending, re-review, stagnant, reviewed", s)
}

// applyFilters applies the post-sync display filters.
func applyFilters(prs []model.ProcessedPR, opts *Options, cfg *config.Config, statusFilter model.Status) []model.ProcessedPR {
	if statusFilter != "" {
		prs = review.FilterByStatus(prs, statusFilter)
	}

	if cfg.ExcludeDrafts && !opts.IncludeDrafts {
		prs = review.FilterOutDrafts(prs)
	}

	if len(cfg.ExcludeAuthors) > 0 {
		prs = review.FilterByExcludedAuthors(prs, cfg.ExcludeAuthors)
	}

	return prs
}

// renderOutput determines the format and outputs the results.
func renderOutput(prs []model.ProcessedPR, opts *Options, cfg *config.Config) error {
	format := output.Format(opts.Format)
	if format == "" {
		format = output.Format(cfg.DefaultFormat)
	}

	formatter := output.NewFormatter(format)
	return formatter.Format(prs, os.Stdout)
}
