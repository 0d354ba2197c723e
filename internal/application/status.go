package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// StatusMaintainer keeps the iteration status block in the PR description
// current while the assistant works.
type StatusMaintainer struct {
	logger *slog.Logger
	pr     driven.PRClient

	owner    string
	repo     string
	prNumber int
}

// NewStatusMaintainer builds a status maintainer for one pull request.
func NewStatusMaintainer(logger *slog.Logger, pr driven.PRClient, owner, repo string, prNumber int) *StatusMaintainer {
	return &StatusMaintainer{logger: logger, pr: pr, owner: owner, repo: repo, prNumber: prNumber}
}

// Maintain writes or refreshes the status block in the PR description.
// The PR must be a draft: publishing an iteration-in-progress banner on a
// PR already out for review would mislead its reviewers.
func (m *StatusMaintainer) Maintain(ctx context.Context, statusMessage string) error {
	draft, err := m.pr.IsDraft(ctx, m.owner, m.repo, m.prNumber)
	if err != nil {
		return fmt.Errorf("checking draft status: %w", err)
	}
	if !draft {
		return fmt.Errorf("maintaining a status block requires the PR to be in draft mode")
	}

	body, err := m.pr.Body(ctx, m.owner, m.repo, m.prNumber)
	if err != nil {
		return fmt.Errorf("reading PR body: %w", err)
	}

	newBody := model.UpdateBodyWithStatus(body, statusMessage)
	if err := m.pr.SetBody(ctx, m.owner, m.repo, m.prNumber, newBody); err != nil {
		return fmt.Errorf("updating PR body: %w", err)
	}

	m.logger.Info("updated PR status block")
	return nil
}
