package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// squashGuidance is shown when a PR has more than one commit. The ready
// workflow insists on a single squashed commit so the merged history reads
// as one cohesive change.
const squashGuidance = `First, fetch the latest from origin:
  git fetch origin

To squash commits interactively:
  git rebase -i origin/main

Or to squash all commits on this branch:
  git reset --soft $(git merge-base HEAD origin/main) && git commit

When writing the squashed commit message:
  - Describe the full change as a single cohesive commit
  - Summarize what the PR accomplishes, not the individual commits
  - After squashing, update the PR description to match (keep any status blocks
    and follow any PR template in the repo)

After squashing and force-pushing, wait for CI to pass by running:
  prpilot --wait-until-actionable-or-happy --maintain-status

NOTE: You MUST use --wait-until-actionable-or-happy (not --wait-until-actionable)
so that the command exits successfully when CI passes. Then run 'prpilot ready' again.`

// Readier promotes a draft PR to ready for review after validating it is in
// a presentable state.
type Readier struct {
	logger  *slog.Logger
	triage  *Triage
	cleaner *ThreadCleaner
	pr      driven.PRClient

	owner    string
	repo     string
	prNumber int
}

// NewReadier builds the ready workflow for one pull request.
func NewReadier(
	logger *slog.Logger,
	triage *Triage,
	cleaner *ThreadCleaner,
	pr driven.PRClient,
	owner, repo string,
	prNumber int,
) *Readier {
	return &Readier{
		logger:   logger,
		triage:   triage,
		cleaner:  cleaner,
		pr:       pr,
		owner:    owner,
		repo:     repo,
		prNumber: prNumber,
	}
}

// MakeReady validates the PR and marks it ready for review. The PR must be a
// draft with exactly one commit, every review thread resolved, and CI fully
// green. On success the assistant's own resolved threads are deleted (unless
// preserveAssistantThreads), human-review flag markers are stripped, and the
// status block is removed from the description. Cleanup and status-block
// failures degrade to warnings: the PR state checks are the gate, the
// cosmetics are best effort.
func (r *Readier) MakeReady(ctx context.Context, preserveAssistantThreads bool) error {
	r.logger.Info("checking PR draft status")
	draft, err := r.pr.IsDraft(ctx, r.owner, r.repo, r.prNumber)
	if err != nil {
		return fmt.Errorf("checking draft status: %w", err)
	}
	if !draft {
		return fmt.Errorf("PR is not in draft mode; the ready command is for marking draft PRs as ready")
	}

	r.logger.Info("checking PR commit count")
	commits, err := r.pr.CommitCount(ctx, r.owner, r.repo, r.prNumber)
	if err != nil {
		return fmt.Errorf("checking commit count: %w", err)
	}
	if commits != 1 {
		return fmt.Errorf("PR has %d commits; squash to a single commit before marking ready\n\n%s", commits, squashGuidance)
	}

	r.logger.Info("validating PR state")
	snap, err := r.triage.CaptureSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("checking PR state: %w", err)
	}

	// Every thread must be resolved, not merely answered.
	if n := len(snap.UnresolvedThreadIDs); n > 0 {
		return fmt.Errorf("PR has %d unresolved review thread(s); all threads must be resolved before marking ready", n)
	}
	if n := len(snap.FailedCheckNames); n > 0 {
		return fmt.Errorf("PR has %d failing CI check(s): %s",
			n, strings.Join(model.SortedNames(snap.FailedCheckNames), ", "))
	}
	if n := len(snap.PendingCheckNames); n > 0 {
		return fmt.Errorf("PR has %d pending CI check(s): %s; wait for CI to complete before marking ready",
			n, strings.Join(model.SortedNames(snap.PendingCheckNames), ", "))
	}

	r.logger.Info("all threads resolved, all CI checks passed")

	result, err := r.cleaner.Clean(ctx, !preserveAssistantThreads)
	if err != nil {
		r.logger.Warn("thread cleanup failed", "error", err)
	} else {
		r.logger.Info("thread cleanup complete",
			"threads_deleted", result.ThreadsDeleted,
			"comments_deleted", result.CommentsDeleted,
			"flags_stripped", result.FlagsStripped)
	}

	r.removeStatusBlock(ctx)

	r.logger.Info("marking PR ready for review")
	if err := r.pr.MarkReady(ctx, r.owner, r.repo, r.prNumber); err != nil {
		return fmt.Errorf("marking PR ready: %w", err)
	}
	return nil
}

func (r *Readier) removeStatusBlock(ctx context.Context) {
	body, err := r.pr.Body(ctx, r.owner, r.repo, r.prNumber)
	if err != nil {
		r.logger.Warn("reading PR body failed", "error", err)
		return
	}
	if !model.HasStatusBlock(body) {
		return
	}
	if err := r.pr.SetBody(ctx, r.owner, r.repo, r.prNumber, model.RemoveStatusBlock(body)); err != nil {
		r.logger.Warn("removing status block failed", "error", err)
		return
	}
	r.logger.Info("status block removed")
}
