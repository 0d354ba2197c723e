package driven

import "context"

// PRClient reads and mutates pull request state.
type PRClient interface {
	// IsDraft reports whether the pull request is a draft.
	IsDraft(ctx context.Context, owner, repo string, prNumber int) (bool, error)

	// CommitCount returns the number of commits on the pull request.
	CommitCount(ctx context.Context, owner, repo string, prNumber int) (int, error)

	// Body returns the pull request description.
	Body(ctx context.Context, owner, repo string, prNumber int) (string, error)

	// SetBody replaces the pull request description.
	SetBody(ctx context.Context, owner, repo string, prNumber int, body string) error

	// MarkReady converts a draft pull request to ready for review.
	MarkReady(ctx context.Context, owner, repo string, prNumber int) error
}
