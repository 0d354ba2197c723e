package driven

import (
	"context"
	"time"
)

// GitClient exposes the local working copy.
type GitClient interface {
	// LastCommitTime returns the author time of HEAD.
	LastCommitTime(ctx context.Context) (time.Time, error)

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// RemoteURL returns the fetch URL of the given remote.
	RemoteURL(ctx context.Context, remote string) (string, error)
}
