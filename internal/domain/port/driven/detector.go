package driven

import "context"

// RepoDetector resolves which repository and pull request the tool should
// operate on when they are not given explicitly.
type RepoDetector interface {
	// DetectRepo returns the owner/repo slug of the current working copy.
	DetectRepo(ctx context.Context) (string, error)

	// DetectPR returns the open pull request number for the current branch.
	DetectPR(ctx context.Context, owner, repo string) (int, error)
}
