package application

import (
	"context"
	"log/slog"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// Triage bundles the fetchers and target PR for one triage session. All
// methods are read-only against the provider.
type Triage struct {
	logger  *slog.Logger
	checks  driven.ChecksFetcher
	threads driven.ThreadsFetcher

	owner    string
	repo     string
	prNumber int

	includePatterns []string
	excludePatterns []string
}

// NewTriage builds a triage session for one pull request.
func NewTriage(
	logger *slog.Logger,
	checks driven.ChecksFetcher,
	threads driven.ThreadsFetcher,
	owner, repo string,
	prNumber int,
	includePatterns, excludePatterns []string,
) *Triage {
	return &Triage{
		logger:          logger,
		checks:          checks,
		threads:         threads,
		owner:           owner,
		repo:            repo,
		prNumber:        prNumber,
		includePatterns: includePatterns,
		excludePatterns: excludePatterns,
	}
}

// FetchState retrieves the filtered check summary and review threads.
// Provider fetch failures degrade to empty results with a warning: a poll
// loop must survive transient API errors, and an empty result reads as
// "nothing to act on" rather than aborting the session. Invalid filter
// patterns are a configuration error and fail hard.
func (t *Triage) FetchState(ctx context.Context) (model.CheckSummary, []model.ReviewThread, error) {
	summary, err := t.FetchCheckSummary(ctx)
	if err != nil {
		return model.CheckSummary{}, nil, err
	}

	threads, err := t.threads.FetchThreads(ctx, t.owner, t.repo, t.prNumber)
	if err != nil {
		t.logger.Warn("fetching review threads failed, treating as none", "error", err)
		threads = nil
	}

	return summary, threads, nil
}

// FetchCheckSummary retrieves just the filtered check summary.
func (t *Triage) FetchCheckSummary(ctx context.Context) (model.CheckSummary, error) {
	checks, err := t.checks.FetchChecks(ctx, t.owner, t.repo, t.prNumber)
	if err != nil {
		t.logger.Warn("fetching checks failed, treating as none", "error", err)
		checks = nil
	}

	filtered, err := model.FilterChecks(checks, t.includePatterns, t.excludePatterns)
	if err != nil {
		return model.CheckSummary{}, err
	}
	return model.CheckSummary{Checks: filtered}, nil
}

// Recommend runs one decision cycle and returns the next action.
func (t *Triage) Recommend(ctx context.Context) (model.NextAction, error) {
	summary, threads, err := t.FetchState(ctx)
	if err != nil {
		return nil, err
	}
	return Analyze(summary, threads), nil
}

// CaptureSnapshot reduces current PR state to the ID and name sets the wait
// loop compares against. Flagged threads are dropped before any set is built.
func (t *Triage) CaptureSnapshot(ctx context.Context) (model.Snapshot, error) {
	summary, threads, err := t.FetchState(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		ActionableThreadIDs: make(map[string]struct{}),
		UnresolvedThreadIDs: make(map[string]struct{}),
		FailedCheckNames:    make(map[string]struct{}),
		PendingCheckNames:   make(map[string]struct{}),
	}

	for _, thread := range threads {
		if thread.HasHumanReviewFlag() {
			continue
		}
		if !thread.IsResolved {
			snap.UnresolvedThreadIDs[thread.ID] = struct{}{}
		}
		if thread.NeedsResponse() {
			snap.ActionableThreadIDs[thread.ID] = struct{}{}
		}
	}

	for _, name := range summary.FailedNames() {
		snap.FailedCheckNames[name] = struct{}{}
	}
	for _, name := range summary.PendingNames() {
		snap.PendingCheckNames[name] = struct{}{}
	}

	return snap, nil
}
